// Package monkey decides whether a message deserves a monkey
package monkey

import (
	"errors"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"maunium.net/go/mautrix/id"
)

// Emoji is the reaction key stuck to messages (U+1F435)
const Emoji = "🐵"

// MaxDelay of a reaction
const MaxDelay = time.Second

// Decision of the rule engine
type Decision int

const (
	// Skip the message
	Skip Decision = iota
	// React to the message
	React
)

// String representation of decision
func (d Decision) String() string {
	if d == React {
		return "react"
	}
	return "skip"
}

// ErrInvalidProbability returned when probability argument doesn't contain a number
var ErrInvalidProbability = errors.New("probability must be a number between 0 and 100")

var probabilityRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)%?`)

// Rules of a room
type Rules interface {
	Enabled() bool
	Probability() float64
	Users() []id.UserID
	Keywords() []string
}

// Evaluate rules against a message.
// Users and keywords are filters: when configured, they must match and the reaction is guaranteed.
// Without filters, the global mode decides with the configured probability.
// roll must return a uniform value in [0,1)
func Evaluate(rules Rules, sender id.UserID, text string, roll func() float64) Decision {
	var userMatch, keywordMatch bool
	if users := rules.Users(); len(users) > 0 {
		if !slices.Contains(users, sender) {
			return Skip
		}
		userMatch = true
	}

	if keywords := rules.Keywords(); len(keywords) > 0 {
		if !containsAny(text, keywords) {
			return Skip
		}
		keywordMatch = true
	}

	if userMatch || keywordMatch {
		return React
	}

	if !rules.Enabled() {
		return Skip
	}

	if roll() > rules.Probability() {
		return Skip
	}
	return React
}

// containsAny reports if any keyword is a substring of text, so an empty keyword matches any text
func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// ParseProbability parses the first number in the text,
// values above 1 are percents, anything else is a fraction. Empty text means 100%
func ParseProbability(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 1, nil
	}

	match := probabilityRegex.FindStringSubmatch(text)
	if match == nil {
		return 0, ErrInvalidProbability
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, ErrInvalidProbability
	}
	if value > 1 {
		value /= 100
	}

	return Clamp(value), nil
}

// Clamp probability into [0,1]
func Clamp(probability float64) float64 {
	if math.IsNaN(probability) {
		return 1
	}
	return math.Max(0, math.Min(1, probability))
}

// Delay before a reaction, uniform in [0, MaxDelay)
func Delay(roll func() float64) time.Duration {
	return time.Duration(roll() * float64(MaxDelay))
}
