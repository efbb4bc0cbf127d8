package bot

import (
	"context"

	"github.com/etkecc/go-mxidwc"
	"maunium.net/go/mautrix/event"
)

func (b *Bot) initSync() {
	b.lp.SetJoinPermit(b.joinPermit)

	b.lp.OnEventType(
		event.StateMember,
		func(ctx context.Context, evt *event.Event) {
			go b.onMembership(ctx, evt)
		},
	)
	b.lp.OnEventType(
		event.EventMessage,
		func(ctx context.Context, evt *event.Event) {
			go b.onMessage(ctx, evt)
		},
	)
}

// joinPermit is called by linkpearl when processing "invite" events and deciding if rooms should be auto-joined or not
func (b *Bot) joinPermit(_ context.Context, evt *event.Event) bool {
	if !mxidwc.Match(evt.Sender.String(), b.allowedUsers) {
		b.log.Debug().Str("user_id", evt.Sender.String()).Msg("Rejecting room invitation from unallowed user")
		return false
	}

	return true
}

func (b *Bot) onMembership(ctx context.Context, evt *event.Event) {
	if b.ignoreBefore >= evt.Timestamp {
		return
	}

	ctx = newContext(ctx, evt)
	evtType := evt.Content.AsMember().Membership
	if evtType == event.MembershipJoin && evt.Sender == b.mx.UserID() {
		b.onBotJoin(ctx)
	}
}

func (b *Bot) onMessage(ctx context.Context, evt *event.Event) {
	// ignore own messages
	if evt.Sender == b.mx.UserID() {
		return
	}
	if b.ignoreBefore >= evt.Timestamp {
		return
	}

	ctx = newContext(ctx, evt)
	b.handle(ctx)
}

// onBotJoin handles the "bot joined the room" event
func (b *Bot) onBotJoin(ctx context.Context) {
	evt := eventFromContext(ctx)
	// Workaround for membership=join events which are delivered to us twice,
	// as described in this bug report: https://github.com/matrix-org/synapse/issues/9768
	_, ok := b.handledMembershipEvents.LoadOrStore(evt.ID, true)
	if ok {
		b.log.Info().Str("event_id", evt.ID.String()).Msg("Suppressing already handled event")
		return
	}

	if _, err := b.cfg.GetRoom(ctx, evt.RoomID); err != nil {
		b.log.Error().Err(err).Str("room_id", evt.RoomID.String()).Msg("cannot initialize room settings")
	}
	b.sendIntroduction(ctx)
}
