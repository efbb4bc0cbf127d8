package config

import (
	"strings"
)

// account data key
const acBotKey = "cc.etke.monkeybot.config"

// bot options keys
const (
	BotUsers = "users"
)

// Bot map
type Bot map[string]string

// Get option
func (s Bot) Get(key string) string {
	return s[strings.ToLower(strings.TrimSpace(key))]
}

// Set option
func (s Bot) Set(key, value string) {
	s[strings.ToLower(strings.TrimSpace(key))] = value
}

// Users option, space-separated patterns of users allowed to invite the bot
func (s Bot) Users() []string {
	value := strings.TrimSpace(s.Get(BotUsers))
	if value == "" {
		return []string{}
	}

	return strings.Fields(value)
}
