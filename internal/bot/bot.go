package bot

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sync"
	"time"

	"github.com/etkecc/go-kit"
	"github.com/etkecc/go-linkpearl"
	"github.com/rs/zerolog"

	"github.com/etkecc/monkeybot/internal/bot/config"
)

// Bot represents matrix bot
type Bot struct {
	prefix                  string
	powerLevel              int
	allowedUsers            []*regexp.Regexp
	allowedAdmins           []*regexp.Regexp
	ignoreBefore            int64
	commands                commandList
	roll                    func() float64
	cfg                     *config.Manager
	log                     *zerolog.Logger
	lp                      *linkpearl.Linkpearl
	mx                      matrix
	mu                      *kit.Mutex
	handledMembershipEvents sync.Map
}

// New creates a new matrix bot
func New(
	lp *linkpearl.Linkpearl,
	log *zerolog.Logger,
	cfg *config.Manager,
	prefix string,
	users []string,
	admins []string,
	powerLevel int,
) (*Bot, error) {
	b := &Bot{
		prefix:     prefix,
		powerLevel: powerLevel,
		roll:       rand.Float64,
		cfg:        cfg,
		log:        log,
		lp:         lp,
		mx:         &lpMatrix{lp: lp},
		mu:         kit.NewMutex(),
	}
	users, err := b.initBotUsers(context.Background(), users)
	if err != nil {
		return nil, err
	}
	allowedUsers, uerr := parseMXIDpatterns(users, "")
	if uerr != nil {
		return nil, uerr
	}
	b.allowedUsers = allowedUsers

	allowedAdmins, aerr := parseMXIDpatterns(admins, "")
	if aerr != nil {
		return nil, aerr
	}
	b.allowedAdmins = allowedAdmins

	b.commands = b.initCommands()

	return b, nil
}

// Error message to the log, sentry and matrix room
func (b *Bot) Error(ctx context.Context, message string, args ...any) {
	evt := eventFromContext(ctx)
	err := fmt.Errorf(message, args...) //nolint:goerr113 // we have to
	b.log.Error().Err(err).Msg(err.Error())
	captureException(ctx, err)
	if evt == nil {
		return
	}

	b.mx.SendNotice(ctx, evt.RoomID, "ERROR: "+err.Error(), linkpearl.RelatesTo(evt.ID, true))
}

// SendNotice replies to the event from context
func (b *Bot) SendNotice(ctx context.Context, message string) {
	evt := eventFromContext(ctx)
	if evt == nil {
		return
	}

	b.mx.SendNotice(ctx, evt.RoomID, message, linkpearl.RelatesTo(evt.ID, true))
}

// Start performs matrix /sync
func (b *Bot) Start(statusMsg string) error {
	ctx := context.Background()
	b.ignoreBefore = time.Now().UTC().UnixMilli()

	if err := b.syncRooms(ctx); err != nil {
		return err
	}

	b.initSync()
	b.log.Info().Msg("Monkeybot has been started")
	return b.lp.Start(ctx, statusMsg)
}

// Stop the bot
func (b *Bot) Stop() {
	b.lp.Stop(context.Background())
}
