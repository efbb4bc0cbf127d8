package config

import (
	"time"

	"github.com/etkecc/go-env"
)

const prefix = "monkeybot"

// New config
func New() *Config {
	env.SetPrefix(prefix)
	cfg := &Config{
		Homeserver:   env.String("homeserver", defaultConfig.Homeserver),
		Login:        env.String("login", defaultConfig.Login),
		Password:     env.String("password", defaultConfig.Password),
		Prefix:       env.String("prefix", defaultConfig.Prefix),
		StatusMsg:    env.String("statusmsg", defaultConfig.StatusMsg),
		LogLevel:     env.String("loglevel", defaultConfig.LogLevel),
		DataSecret:   env.String("data.secret", defaultConfig.DataSecret),
		Admins:       env.Slice("admins"),
		Users:        env.Slice("users"),
		PowerLevel:   env.Int("powerlevel", defaultConfig.PowerLevel),
		SyncSchedule: env.String("sync.schedule", defaultConfig.SyncSchedule),
		DB: DB{
			DSN:     env.String("db.dsn", defaultConfig.DB.DSN),
			Dialect: env.String("db.dialect", defaultConfig.DB.Dialect),
		},
		Monitoring: Monitoring{
			SentryDSN:            env.String("monitoring.sentry.dsn", env.String("sentry.dsn")),
			SentrySampleRate:     env.Int("monitoring.sentry.rate", env.Int("sentry.rate", defaultConfig.Monitoring.SentrySampleRate)),
			HealthchecksURL:      env.String("monitoring.healthchecks.url", defaultConfig.Monitoring.HealthchecksURL),
			HealthchecksUUID:     env.String("monitoring.healthchecks.uuid"),
			HealthchecksDuration: time.Duration(env.Int("monitoring.healthchecks.duration", int(defaultConfig.Monitoring.HealthchecksDuration.Seconds()))) * time.Second,
		},
	}

	return cfg
}
