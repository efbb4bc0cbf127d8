package bot

import (
	"context"
	"fmt"
	"strings"

	"maunium.net/go/mautrix/event"

	"github.com/etkecc/monkeybot/internal/bot/config"
	"github.com/etkecc/monkeybot/internal/monkey"
	"github.com/etkecc/monkeybot/internal/utils"
)

// updateRoom loads the room settings, applies the change and saves them if the change returned true.
// The room is locked for the whole operation. Errors are reported to the room
func (b *Bot) updateRoom(ctx context.Context, change func(cfg config.Room) bool) (config.Room, bool) {
	evt := eventFromContext(ctx)
	b.lock(evt.RoomID)
	defer b.unlock(evt.RoomID)

	cfg, err := b.cfg.GetRoom(ctx, evt.RoomID)
	if err != nil {
		b.Error(ctx, "failed to retrieve settings: %v", err)
		return nil, false
	}
	if !change(cfg) {
		return cfg, true
	}

	if err := b.cfg.SetRoom(ctx, evt.RoomID, cfg); err != nil {
		b.Error(ctx, "cannot save settings: %v", err)
		return nil, false
	}

	return cfg, true
}

func (b *Bot) runSettings(ctx context.Context) {
	evt := eventFromContext(ctx)
	cfg, err := b.cfg.GetRoom(ctx, evt.RoomID)
	if err != nil {
		b.Error(ctx, "failed to retrieve settings: %v", err)
		return
	}

	b.SendNotice(ctx, formatSettings(cfg))
}

func (b *Bot) runCheck(ctx context.Context) {
	evt := eventFromContext(ctx)
	exists, missing, err := b.cfg.CheckRoom(ctx, evt.RoomID)
	if err != nil {
		b.Error(ctx, "cannot check settings: %v", err)
		return
	}
	if !exists {
		b.SendNotice(ctx, fmt.Sprintf("settings of this room are not initialized yet, send `%s %s` to initialize them", b.prefix, commandReset))
		return
	}
	if len(missing) > 0 {
		b.SendNotice(ctx, "settings of this room are initialized, but some options are missing: `"+strings.Join(missing, "`, `")+"`. They will get default values on the next access")
		return
	}

	b.SendNotice(ctx, "settings of this room are initialized, all options are set")
}

func (b *Bot) runReset(ctx context.Context) {
	evt := eventFromContext(ctx)
	b.lock(evt.RoomID)
	defer b.unlock(evt.RoomID)

	if err := b.cfg.SetRoom(ctx, evt.RoomID, config.NewRoom()); err != nil {
		b.Error(ctx, "cannot reset settings: %v", err)
		return
	}

	b.SendNotice(ctx, "all settings have been reset")
}

func (b *Bot) runGlobalOn(ctx context.Context, args string) {
	probability, err := monkey.ParseProbability(args)
	if err != nil {
		b.SendNotice(ctx, fmt.Sprintf("invalid probability `%s`, use a percentage (`30`, `30%%`) or a fraction (`0.3`)", args))
		return
	}

	var wasEnabled bool
	cfg, ok := b.updateRoom(ctx, func(cfg config.Room) bool {
		wasEnabled = cfg.Enabled()
		cfg.SetEnabled(true)
		cfg.SetProbability(probability)
		return true
	})
	if !ok {
		return
	}

	if wasEnabled {
		b.SendNotice(ctx, "global mode probability has been updated: "+utils.Percent(cfg.Probability()))
		return
	}
	b.SendNotice(ctx, "global mode has been enabled, probability: "+utils.Percent(cfg.Probability()))
}

func (b *Bot) runGlobalOff(ctx context.Context) {
	_, ok := b.updateRoom(ctx, func(cfg config.Room) bool {
		cfg.SetEnabled(false)
		return true
	})
	if !ok {
		return
	}

	b.SendNotice(ctx, "global mode has been disabled")
}

func (b *Bot) runUsersAdd(ctx context.Context, content *event.MessageEventContent, args string) {
	userIDs := mentionedUsers(content, args, b.mentionExclusions(ctx, content, args)...)
	if len(userIDs) == 0 {
		b.SendNotice(ctx, fmt.Sprintf("mention the users to add, eg: `%s %s @someone:example.com`", b.prefix, commandUsersAdd))
		return
	}

	var added int
	if _, ok := b.updateRoom(ctx, func(cfg config.Room) bool {
		added = cfg.AddUsers(userIDs...)
		return added > 0
	}); !ok {
		return
	}

	b.SendNotice(ctx, fmt.Sprintf("%d user(s) have been added to targets", added))
}

func (b *Bot) runUsersRemove(ctx context.Context, content *event.MessageEventContent, args string) {
	userIDs := mentionedUsers(content, args, b.mentionExclusions(ctx, content, args)...)
	if len(userIDs) == 0 {
		b.SendNotice(ctx, fmt.Sprintf("mention the users to remove, eg: `%s %s @someone:example.com`", b.prefix, commandUsersRemove))
		return
	}

	var removed int
	if _, ok := b.updateRoom(ctx, func(cfg config.Room) bool {
		removed = cfg.RemoveUsers(userIDs...)
		return removed > 0
	}); !ok {
		return
	}

	b.SendNotice(ctx, fmt.Sprintf("%d user(s) have been removed from targets", removed))
}

func (b *Bot) runKeywordsAdd(ctx context.Context, args string) {
	keyword := strings.TrimSpace(args)
	if keyword == "" {
		b.SendNotice(ctx, fmt.Sprintf("provide the keyword to add, eg: `%s %s banana`", b.prefix, commandKeywordsAdd))
		return
	}

	var added bool
	if _, ok := b.updateRoom(ctx, func(cfg config.Room) bool {
		added = cfg.AddKeyword(keyword)
		return added
	}); !ok {
		return
	}

	if !added {
		b.SendNotice(ctx, fmt.Sprintf("keyword `%s` already exists", keyword))
		return
	}
	b.SendNotice(ctx, fmt.Sprintf("keyword `%s` has been added", keyword))
}

func (b *Bot) runKeywordsRemove(ctx context.Context, args string) {
	keyword := strings.TrimSpace(args)
	if keyword == "" {
		b.SendNotice(ctx, fmt.Sprintf("provide the keyword to remove, eg: `%s %s banana`", b.prefix, commandKeywordsRemove))
		return
	}

	var removed bool
	if _, ok := b.updateRoom(ctx, func(cfg config.Room) bool {
		removed = cfg.RemoveKeyword(keyword)
		return removed
	}); !ok {
		return
	}

	if !removed {
		b.SendNotice(ctx, fmt.Sprintf("keyword `%s` does not exist", keyword))
		return
	}
	b.SendNotice(ctx, fmt.Sprintf("keyword `%s` has been removed", keyword))
}

func formatSettings(cfg config.Room) string {
	var msg strings.Builder
	msg.WriteString("Current settings of the room:\n\n")

	msg.WriteString("* Global mode: ")
	if cfg.Enabled() {
		msg.WriteString("enabled")
	} else {
		msg.WriteString("disabled")
	}
	msg.WriteString("\n")

	msg.WriteString("* Global mode probability: ")
	msg.WriteString(utils.Percent(cfg.Probability()))
	msg.WriteString("\n")

	msg.WriteString("* Target users: ")
	users := cfg.Users()
	if len(users) == 0 {
		msg.WriteString("none")
	}
	for i, userID := range users {
		if i > 0 {
			msg.WriteString(", ")
		}
		msg.WriteString(userID.String())
	}
	msg.WriteString("\n")

	msg.WriteString("* Target keywords: ")
	keywords := cfg.Keywords()
	if len(keywords) == 0 {
		msg.WriteString("none")
	}
	for i, keyword := range keywords {
		if i > 0 {
			msg.WriteString(", ")
		}
		msg.WriteString("`")
		msg.WriteString(keyword)
		msg.WriteString("`")
	}

	return msg.String()
}
