package bot

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

var mxidRegex = regexp.MustCompile(`@[a-zA-Z0-9._=\-/+]+:[a-zA-Z0-9.\-]+(?::[0-9]+)?`)

// mentionedUsers returns users from m.mentions, or MXIDs found in the text if there are no typed mentions.
// @room mentions are ignored
func mentionedUsers(content *event.MessageEventContent, text string, exclude ...id.UserID) []id.UserID {
	candidates := []id.UserID{}
	if content != nil && content.Mentions != nil {
		candidates = append(candidates, content.Mentions.UserIDs...)
	}
	if len(candidates) == 0 {
		for _, match := range mxidRegex.FindAllString(text, -1) {
			candidates = append(candidates, id.UserID(match))
		}
	}

	userIDs := make([]id.UserID, 0, len(candidates))
	for _, userID := range candidates {
		if _, _, err := userID.Parse(); err != nil {
			continue
		}
		if slices.Contains(exclude, userID) || slices.Contains(userIDs, userID) {
			continue
		}
		userIDs = append(userIDs, userID)
	}

	return userIDs
}

// mentionExclusions returns users that must not be taken from the command mentions:
// the bot itself and the sender of the replied-to event (replies mention it implicitly),
// unless the text contains the sender's MXID
func (b *Bot) mentionExclusions(ctx context.Context, content *event.MessageEventContent, text string) []id.UserID {
	exclude := []id.UserID{b.mx.UserID()}
	replyID := repliedTo(content)
	if replyID == "" {
		return exclude
	}

	evt := eventFromContext(ctx)
	sender, err := b.mx.GetEventSender(ctx, evt.RoomID, replyID)
	if err != nil {
		b.log.Warn().Err(err).Str("event_id", replyID.String()).Msg("cannot get sender of the replied-to event")
		return exclude
	}
	if !strings.Contains(text, sender.String()) {
		exclude = append(exclude, sender)
	}

	return exclude
}
