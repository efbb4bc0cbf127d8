package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/etkecc/monkeybot/internal/bot/config"
	"github.com/etkecc/monkeybot/internal/monkey"
	"github.com/etkecc/monkeybot/internal/utils"
)

const (
	commandHelp           = "help"
	commandStick          = "stick"
	commandSettings       = "settings"
	commandCheck          = "check"
	commandReset          = "reset"
	commandGlobalOn       = "global:on"
	commandGlobalOff      = "global:off"
	commandUsersAdd       = "users:add"
	commandUsersRemove    = "users:remove"
	commandKeywordsAdd    = "keywords:add"
	commandKeywordsRemove = "keywords:remove"
)

type (
	command struct {
		key         string
		description string
		allowed     func(context.Context, id.UserID, id.RoomID) bool
	}
	commandList []command
)

func (c commandList) get(key string) *command {
	for _, cmd := range c {
		if cmd.key == key {
			return &cmd
		}
	}
	return nil
}

func (b *Bot) initCommands() commandList {
	return commandList{
		// special commands
		{
			key:         commandHelp,
			description: "Show this help message",
			allowed:     b.allowAnyone,
		},
		{
			key:         commandStick,
			description: "Reply to a message with this command to stick a monkey on it",
			allowed:     b.allowAnyone,
		},
		{allowed: b.allowAdmin, description: "room settings"}, // delimiter
		{
			key:         commandSettings,
			description: "Show current settings of the room",
			allowed:     b.allowAdmin,
		},
		{
			key:         commandCheck,
			description: "Check if the room settings are stored and complete (rooms are initialized automatically on join and on each rooms sync)",
			allowed:     b.allowAdmin,
		},
		{
			key:         commandReset,
			description: "Reset the room settings to defaults",
			allowed:     b.allowAdmin,
		},
		{allowed: b.allowAdmin, description: "global mode"}, // delimiter
		{
			key:         commandGlobalOn,
			description: "Stick monkeys on any message with optional probability, eg: `30`, `30%` or `0.3` (default: 100%)",
			allowed:     b.allowAdmin,
		},
		{
			key:         commandGlobalOff,
			description: "Stop sticking monkeys on any message",
			allowed:     b.allowAdmin,
		},
		{allowed: b.allowAdmin, description: "targets"}, // delimiter
		{
			key:         commandUsersAdd,
			description: "Stick monkeys on every message of the mentioned users only",
			allowed:     b.allowAdmin,
		},
		{
			key:         commandUsersRemove,
			description: "Remove the mentioned users from targets",
			allowed:     b.allowAdmin,
		},
		{
			key:         commandKeywordsAdd,
			description: "Stick monkeys on every message containing the keyword only",
			allowed:     b.allowAdmin,
		},
		{
			key:         commandKeywordsRemove,
			description: "Remove the keyword from targets",
			allowed:     b.allowAdmin,
		},
	}
}

func (b *Bot) handle(ctx context.Context) {
	evt := eventFromContext(ctx)
	content := evt.Content.AsMessage()
	if content == nil {
		b.log.Warn().Str("event_id", evt.ID.String()).Msg("cannot read message")
		return
	}
	// ignore notices
	if content.MsgType == event.MsgNotice {
		return
	}
	// ignore edits, the edited message has been handled already
	if content.RelatesTo != nil && content.RelatesTo.Type == event.RelReplace {
		return
	}
	body := content.Body
	if content.RelatesTo != nil && content.RelatesTo.InReplyTo != nil {
		body = stripReplyFallback(body)
	}
	key, args, ok := b.parseCommand(body)
	if !ok {
		b.stickAuto(ctx, body)
		return
	}

	cmd := b.commands.get(key)
	if cmd == nil {
		b.SendNotice(ctx, fmt.Sprintf("unknown command, send `%s %s` to see the list of commands", b.prefix, commandHelp))
		return
	}
	if !cmd.allowed(ctx, evt.Sender, evt.RoomID) {
		b.SendNotice(ctx, "not allowed to do that, admin privileges required")
		return
	}

	switch key {
	case commandHelp:
		b.sendHelp(ctx)
	case commandStick:
		b.runStick(ctx, content)
	case commandSettings:
		b.runSettings(ctx)
	case commandCheck:
		b.runCheck(ctx)
	case commandReset:
		b.runReset(ctx)
	case commandGlobalOn:
		b.runGlobalOn(ctx, args)
	case commandGlobalOff:
		b.runGlobalOff(ctx)
	case commandUsersAdd:
		b.runUsersAdd(ctx, content, args)
	case commandUsersRemove:
		b.runUsersRemove(ctx, content, args)
	case commandKeywordsAdd:
		b.runKeywordsAdd(ctx, args)
	case commandKeywordsRemove:
		b.runKeywordsRemove(ctx, args)
	}
}

// parseCommand returns lowercased command key and arguments (case preserved)
func (b *Bot) parseCommand(message string) (key, args string, ok bool) {
	message = strings.TrimSpace(message)
	if b.prefix == "" || !strings.HasPrefix(message, b.prefix) {
		return "", "", false
	}
	message = message[len(b.prefix):]
	// "!mbx" is not a command
	if r, _ := utf8.DecodeRuneInString(message); message != "" && !unicode.IsSpace(r) {
		return "", "", false
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return commandHelp, "", true
	}
	idx := strings.IndexFunc(message, unicode.IsSpace)
	if idx == -1 {
		return strings.ToLower(message), "", true
	}

	return strings.ToLower(message[:idx]), strings.TrimSpace(message[idx:]), true
}

// stripReplyFallback removes quoted reply fallback from the plain text body
func stripReplyFallback(body string) string {
	if !strings.HasPrefix(body, "> ") {
		return body
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, ">") {
			continue
		}
		if line == "" {
			i++
		}
		return strings.Join(lines[i:], "\n")
	}

	return ""
}

func (b *Bot) sendIntroduction(ctx context.Context) {
	evt := eventFromContext(ctx)
	var msg strings.Builder
	msg.WriteString("Hello!\n\n")
	msg.WriteString("This is Monkeybot - a bot that sticks monkeys (")
	msg.WriteString(monkey.Emoji)
	msg.WriteString(") on messages.\n\n")
	msg.WriteString("Room admins can configure whose messages (or which keywords) deserve a monkey, ")
	msg.WriteString("or enable the global mode to stick monkeys on any message with some probability. ")
	msg.WriteString("Send `")
	msg.WriteString(b.prefix)
	msg.WriteString(" ")
	msg.WriteString(commandHelp)
	msg.WriteString("` to see the list of commands.")

	b.mx.SendNotice(ctx, evt.RoomID, msg.String(), nil)
}

func (b *Bot) getHelpValue(cfg config.Room, cmd command) string {
	switch cmd.key {
	case commandGlobalOn:
		if !cfg.Enabled() {
			return "(currently disabled)"
		}
		return "(currently enabled, " + utils.Percent(cfg.Probability()) + ")"
	case commandUsersAdd:
		return fmt.Sprintf("(currently %d)", len(cfg.Users()))
	case commandKeywordsAdd:
		return fmt.Sprintf("(currently %d)", len(cfg.Keywords()))
	default:
		return ""
	}
}

func (b *Bot) sendHelp(ctx context.Context) {
	evt := eventFromContext(ctx)

	cfg, serr := b.cfg.GetRoom(ctx, evt.RoomID)
	if serr != nil {
		b.log.Error().Err(serr).Msg("cannot retrieve settings")
	}

	var msg strings.Builder
	msg.WriteString("The following commands are supported and accessible to you:\n\n")
	for _, cmd := range b.commands {
		if !cmd.allowed(ctx, evt.Sender, evt.RoomID) {
			continue
		}
		if cmd.key == "" {
			msg.WriteString("\n---\n\n")
			msg.WriteString("#### ")
			msg.WriteString(cmd.description)
			msg.WriteString("\n")
			continue
		}
		msg.WriteString("* **`")
		msg.WriteString(b.prefix)
		msg.WriteString(" ")
		msg.WriteString(cmd.key)
		msg.WriteString("`**")

		if value := b.getHelpValue(cfg, cmd); value != "" {
			msg.WriteString(" ")
			msg.WriteString(value)
		}
		msg.WriteString(" - ")

		msg.WriteString(cmd.description)
		msg.WriteString("\n")
	}

	b.SendNotice(ctx, msg.String())
}
