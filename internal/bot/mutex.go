package bot

import (
	"maunium.net/go/mautrix/id"
)

func (b *Bot) lock(roomID id.RoomID) {
	b.mu.Lock(roomID.String())
}

func (b *Bot) unlock(roomID id.RoomID) {
	b.mu.Unlock(roomID.String())
}
