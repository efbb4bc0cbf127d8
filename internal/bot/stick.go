package bot

import (
	"context"
	"errors"
	"time"

	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/etkecc/monkeybot/internal/monkey"
)

// stickAuto decides if the message from context deserves a monkey and sticks it
func (b *Bot) stickAuto(ctx context.Context, body string) {
	evt := eventFromContext(ctx)
	// on error the defaults are returned, and they never react
	cfg, _ := b.cfg.GetRoom(ctx, evt.RoomID) //nolint:errcheck // logged by the manager
	decision := monkey.Evaluate(cfg, evt.Sender, body, b.roll)
	b.log.Debug().Str("room_id", evt.RoomID.String()).Str("event_id", evt.ID.String()).Stringer("decision", decision).Msg("message evaluated")
	if decision != monkey.React {
		return
	}

	if err := b.stick(ctx, evt.RoomID, evt.ID); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		b.log.Error().Err(err).Str("room_id", evt.RoomID.String()).Str("event_id", evt.ID.String()).Msg("cannot stick a monkey")
		captureException(ctx, err)
	}
}

// runStick sticks a monkey on the message the command replies to
func (b *Bot) runStick(ctx context.Context, content *event.MessageEventContent) {
	evt := eventFromContext(ctx)
	targetID := repliedTo(content)
	if targetID == "" {
		b.SendNotice(ctx, "reply to a message with `"+b.prefix+" "+commandStick+"` to stick a monkey on it")
		return
	}

	if err := b.stick(ctx, evt.RoomID, targetID); err != nil {
		b.Error(ctx, "cannot stick a monkey: %v", err)
		return
	}
	b.SendNotice(ctx, "Monkey has been stuck! "+monkey.Emoji)
}

// stick waits a random delay and sends the monkey reaction
func (b *Bot) stick(ctx context.Context, roomID id.RoomID, eventID id.EventID) error {
	timer := time.NewTimer(monkey.Delay(b.roll))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	return b.mx.SendReaction(ctx, roomID, eventID, monkey.Emoji)
}

// repliedTo returns ID of the replied-to event, thread fallbacks are ignored
func repliedTo(content *event.MessageEventContent) id.EventID {
	if content == nil || content.RelatesTo == nil {
		return ""
	}
	relation := content.RelatesTo
	if relation.InReplyTo == nil {
		return ""
	}
	if relation.Type == event.RelThread && relation.IsFallingBack {
		return ""
	}

	return relation.InReplyTo.EventID
}
