package config

import "time"

var defaultConfig = &Config{
	LogLevel:     "info",
	Prefix:       "!mb",
	PowerLevel:   50,
	SyncSchedule: "0 * * * *",
	DB: DB{
		DSN:     "monkeybot.db",
		Dialect: "sqlite3",
	},
	Monitoring: Monitoring{
		SentrySampleRate:     20,
		HealthchecksURL:      "https://hc-ping.com",
		HealthchecksDuration: 5 * time.Second,
	},
}
