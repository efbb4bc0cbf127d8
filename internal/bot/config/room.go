package config

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/etkecc/go-kit"
	"maunium.net/go/mautrix/id"

	"github.com/etkecc/monkeybot/internal/monkey"
	"github.com/etkecc/monkeybot/internal/utils"
)

// account data key
const acRoomKey = "cc.etke.monkeybot.settings"

// Room config
type Room map[string]string

// option keys
const (
	RoomEnabled     = "global:enabled"
	RoomProbability = "global:probability"
	RoomUsers       = "users"
	RoomKeywords    = "keywords"
)

var roomDefaults = Room{
	RoomEnabled:     "false",
	RoomProbability: "1",
	RoomUsers:       "[]",
	RoomKeywords:    "[]",
}

// NewRoom returns room config with default values
func NewRoom() Room {
	cfg := make(Room, len(roomDefaults))
	cfg.Reset()
	return cfg
}

// Get option
func (s Room) Get(key string) string {
	return s[strings.ToLower(strings.TrimSpace(key))]
}

// Set option
func (s Room) Set(key, value string) {
	s[strings.ToLower(strings.TrimSpace(key))] = value
}

// Enabled tells if global mode is on
func (s Room) Enabled() bool {
	return utils.Bool(s.Get(RoomEnabled))
}

// Probability of the global mode, always in [0,1]
func (s Room) Probability() float64 {
	value := s.Get(RoomProbability)
	if value == "" {
		return 1
	}
	probability, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 1
	}

	return monkey.Clamp(probability)
}

// Users are target users, in order of addition
func (s Room) Users() []id.UserID {
	items := s.list(RoomUsers)
	users := make([]id.UserID, 0, len(items))
	for _, item := range items {
		users = append(users, id.UserID(item))
	}

	return users
}

// Keywords are target keywords, in order of addition
func (s Room) Keywords() []string {
	return s.list(RoomKeywords)
}

// SetEnabled turns global mode on or off
func (s Room) SetEnabled(enabled bool) {
	s.Set(RoomEnabled, strconv.FormatBool(enabled))
}

// SetProbability of the global mode, returns the stored (clamped) value
func (s Room) SetProbability(probability float64) float64 {
	probability = monkey.Clamp(probability)
	s.Set(RoomProbability, strconv.FormatFloat(probability, 'f', -1, 64))

	return probability
}

// AddUsers to targets, returns count of actually added users
func (s Room) AddUsers(userIDs ...id.UserID) int {
	items := s.list(RoomUsers)
	var added int
	for _, userID := range userIDs {
		if userID == "" || slices.Contains(items, userID.String()) {
			continue
		}
		items = append(items, userID.String())
		added++
	}
	if added > 0 {
		s.setList(RoomUsers, items)
	}

	return added
}

// RemoveUsers from targets, returns count of actually removed users
func (s Room) RemoveUsers(userIDs ...id.UserID) int {
	items := s.list(RoomUsers)
	var removed int
	for _, userID := range userIDs {
		idx := slices.Index(items, userID.String())
		if idx == -1 {
			continue
		}
		items = slices.Delete(items, idx, idx+1)
		removed++
	}
	if removed > 0 {
		s.setList(RoomUsers, items)
	}

	return removed
}

// AddKeyword to targets, returns false if the keyword already exists
func (s Room) AddKeyword(keyword string) bool {
	items := s.list(RoomKeywords)
	if keyword == "" || slices.Contains(items, keyword) {
		return false
	}
	s.setList(RoomKeywords, append(items, keyword))

	return true
}

// RemoveKeyword from targets, returns false if there was no such keyword
func (s Room) RemoveKeyword(keyword string) bool {
	items := s.list(RoomKeywords)
	idx := slices.Index(items, keyword)
	if idx == -1 {
		return false
	}
	s.setList(RoomKeywords, slices.Delete(items, idx, idx+1))

	return true
}

// Reset all options to defaults
func (s Room) Reset() {
	clear(s)
	maps.Copy(s, roomDefaults)
}

// MissingKeys returns sorted keys of the default options absent from the config
func (s Room) MissingKeys() []string {
	missing := []string{}
	for _, key := range slices.Sorted(maps.Keys(roomDefaults)) {
		if _, ok := s[key]; !ok {
			missing = append(missing, key)
		}
	}

	return missing
}

// MergeDefaults adds missing options with default values, returns true if anything was added
func (s Room) MergeDefaults() bool {
	var changed bool
	for key, value := range roomDefaults {
		if _, ok := s[key]; ok {
			continue
		}
		s[key] = value
		changed = true
	}

	return changed
}

func (s Room) list(key string) []string {
	value := s.Get(key)
	if value == "" {
		return []string{}
	}

	var items []string
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return []string{}
	}

	return kit.Uniq(items)
}

func (s Room) setList(key string, items []string) {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items) //nolint:errcheck // slice of strings cannot fail
	s.Set(key, string(data))
}
