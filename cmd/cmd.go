package main

import (
	"database/sql"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/etkecc/go-crontab"
	"github.com/etkecc/go-healthchecks/v2"
	"github.com/etkecc/go-linkpearl"
	"github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/etkecc/monkeybot/internal/bot"
	mxconfig "github.com/etkecc/monkeybot/internal/bot/config"
	"github.com/etkecc/monkeybot/internal/config"
)

var (
	hc   *healthchecks.Client
	mxc  *mxconfig.Manager
	mxb  *bot.Bot
	cron *crontab.Crontab
	log  zerolog.Logger
)

func main() {
	quit := make(chan struct{})

	cfg := config.New()
	initLog(cfg)

	log.Info().Msg("#############################")
	log.Info().Msg("Monkeybot")
	log.Info().Msg("#############################")

	log.Debug().Msg("starting internal components...")
	initSentry(cfg)
	initHealthchecks(cfg)
	initMatrix(cfg)
	initCron(cfg)
	initShutdown(quit)
	defer recovery()

	go startBot(cfg.StatusMsg)

	<-quit
}

func initLog(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func initSentry(cfg *config.Config) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Monitoring.SentryDSN,
		AttachStacktrace: true,
		TracesSampleRate: float64(cfg.Monitoring.SentrySampleRate) / 100,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot initialize sentry")
	}
}

func initHealthchecks(cfg *config.Config) {
	if cfg.Monitoring.HealthchecksUUID == "" {
		return
	}
	hc = healthchecks.New(
		healthchecks.WithBaseURL(cfg.Monitoring.HealthchecksURL),
		healthchecks.WithCheckUUID(cfg.Monitoring.HealthchecksUUID),
		healthchecks.WithErrLog(func(operation string, err error) {
			log.Error().Err(err).Str("operation", operation).Msg("healthchecks operation failed")
		}),
	)
	hc.Start(strings.NewReader("starting monkeybot"))
	go hc.Auto(cfg.Monitoring.HealthchecksDuration)
}

// driverName returns database/sql driver name of the dialect
func driverName(dialect string) string {
	if dialect == "sqlite3" {
		return "sqlite"
	}
	return dialect
}

func initMatrix(cfg *config.Config) {
	db, err := sql.Open(driverName(cfg.DB.Dialect), cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot initialize SQL database")
	}

	mxlog := log.With().Str("component", "matrix").Logger()
	cfglog := log.With().Str("component", "config").Logger()
	botlog := log.With().Str("component", "bot").Logger()
	lp, err := linkpearl.New(&linkpearl.Config{
		Homeserver:        cfg.Homeserver,
		Login:             cfg.Login,
		Password:          cfg.Password,
		DB:                db,
		Dialect:           cfg.DB.Dialect,
		AccountDataSecret: cfg.DataSecret,
		Logger:            mxlog,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot initialize matrix bot")
	}

	mxc = mxconfig.New(lp, &cfglog)
	mxb, err = bot.New(lp, &botlog, mxc, cfg.Prefix, cfg.Users, cfg.Admins, cfg.PowerLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start matrix bot")
	}
	log.Debug().Msg("bot has been created")
}

func initCron(cfg *config.Config) {
	cron = crontab.New()

	err := cron.AddJob(cfg.SyncSchedule, mxb.SyncRooms)
	if err != nil {
		log.Error().Err(err).Msg("cannot start rooms sync cronjob")
	}
}

func initShutdown(quit chan struct{}) {
	listener := make(chan os.Signal, 1)
	signal.Notify(listener, os.Interrupt, syscall.SIGABRT, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	go func() {
		<-listener
		defer close(quit)

		shutdown()
	}()
}

func startBot(statusMsg string) {
	log.Debug().Str("status message", statusMsg).Msg("starting matrix bot...")
	err := mxb.Start(statusMsg)
	if err != nil {
		//nolint:gocritic
		log.Fatal().Err(err).Msg("cannot start the bot")
	}
}

func shutdown() {
	log.Info().Msg("Shutting down...")
	cron.Shutdown()
	mxb.Stop()
	if hc != nil {
		hc.Shutdown()
		hc.ExitStatus(0, strings.NewReader("shutting down monkeybot"))
	}

	sentry.Flush(5 * time.Second)
	log.Info().Msg("Monkeybot has been stopped")
	os.Exit(0)
}

func recovery() {
	defer shutdown()
	err := recover()
	if err != nil {
		sentry.CurrentHub().Recover(err)
	}
}
