package bot

import (
	"context"

	"github.com/etkecc/monkeybot/internal/bot/config"
)

// syncRooms materializes settings of all joined rooms, adding missing defaults
func (b *Bot) syncRooms(ctx context.Context) error {
	roomIDs, err := b.mx.JoinedRooms(ctx)
	if err != nil {
		return err
	}
	for _, roomID := range roomIDs {
		if _, serr := b.cfg.GetRoom(ctx, roomID); serr != nil {
			b.log.Error().Err(serr).Str("room_id", roomID.String()).Msg("cannot sync room settings")
		}
	}
	b.log.Debug().Int("rooms", len(roomIDs)).Msg("rooms have been synced")

	return nil
}

// initBotUsers returns patterns of users allowed to invite the bot.
// Patterns from the environment take precedence, then the bot account data,
// and finally the bot's homeserver, which is saved to account data
func (b *Bot) initBotUsers(ctx context.Context, users []string) ([]string, error) {
	if len(users) > 0 {
		return users, nil
	}

	cfg := b.cfg.GetBot(ctx)
	cfgUsers := cfg.Users()
	if len(cfgUsers) > 0 {
		return cfgUsers, nil
	}

	_, homeserver, err := b.mx.UserID().Parse()
	if err != nil {
		return nil, err
	}
	cfg.Set(config.BotUsers, "@*:"+homeserver)
	return cfg.Users(), b.cfg.SetBot(ctx, cfg)
}

// SyncRooms settings
func (b *Bot) SyncRooms() {
	if err := b.syncRooms(context.Background()); err != nil {
		b.log.Error().Err(err).Msg("cannot sync rooms")
	}
}
