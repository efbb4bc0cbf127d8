package bot

import (
	"context"
	"regexp"

	"github.com/etkecc/go-mxidwc"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

func parseMXIDpatterns(patterns []string, defaultPattern string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 && defaultPattern != "" {
		patterns = []string{defaultPattern}
	}

	return mxidwc.ParsePatterns(patterns)
}

func (b *Bot) allowAnyone(_ context.Context, _ id.UserID, _ id.RoomID) bool {
	return true
}

// allowAdmin checks if actor is bot admin or has enough power in the target room
func (b *Bot) allowAdmin(ctx context.Context, actorID id.UserID, targetRoomID id.RoomID) bool {
	if mxidwc.Match(actorID.String(), b.allowedAdmins) {
		return true
	}
	// power level check is disabled
	if targetRoomID == "" || b.powerLevel <= 0 {
		return false
	}

	pl, err := b.mx.GetPowerLevels(ctx, targetRoomID)
	if err != nil {
		b.log.Warn().Err(err).Str("room_id", targetRoomID.String()).Msg("cannot get power levels")
		return false
	}

	return hasPowerLevel(pl, actorID, b.powerLevel)
}

func hasPowerLevel(pl *event.PowerLevelsEventContent, userID id.UserID, threshold int) bool {
	if pl == nil {
		return false
	}

	return pl.GetUserLevel(userID) >= threshold
}
