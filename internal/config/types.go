package config

import "time"

// Config of Monkeybot
type Config struct {
	// Homeserver url
	Homeserver string
	// Login is a localpart if logging in with password (monkeybot) OR full MXID (@monkeybot:example.com)
	Login string
	// Password for login/password auth only
	Password string
	// LogLevel of the root logger, one of trace, debug, info, warn, error
	LogLevel string
	// DataSecret is account data secret key (password) to encrypt all account data values
	DataSecret string
	// Prefix for commands
	Prefix string
	// StatusMsg of the bot
	StatusMsg string
	// Admins holds list of admin users (wildcards supported), e.g.: @*:example.com, @bot.*:example.com, @admin:*. Empty = no admins
	Admins []string
	// Users holds list of users allowed to invite the bot (wildcards supported). Empty = homeserver of the bot only
	Users []string
	// PowerLevel is the minimal room power level treated as room admin, 0 = bot admins only
	PowerLevel int
	// SyncSchedule is a cron expression of the room settings sync
	SyncSchedule string

	// DB config
	DB DB

	// Monitoring config
	Monitoring Monitoring
}

// DB config
type DB struct {
	// DSN is a database connection string
	DSN string
	// Dialect of database, one of sqlite3, postgres
	Dialect string
}

// Monitoring config
type Monitoring struct {
	SentryDSN            string
	SentrySampleRate     int
	HealthchecksURL      string
	HealthchecksUUID     string
	HealthchecksDuration time.Duration
}
