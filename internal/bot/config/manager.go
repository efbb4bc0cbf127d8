package config

import (
	"context"
	"maps"

	"github.com/rs/zerolog"
	"maunium.net/go/mautrix/id"
)

// AccountData storage, implemented by linkpearl
type AccountData interface {
	GetAccountData(ctx context.Context, name string) (map[string]string, error)
	SetAccountData(ctx context.Context, name string, data map[string]string) error
	GetRoomAccountData(ctx context.Context, roomID id.RoomID, name string) (map[string]string, error)
	SetRoomAccountData(ctx context.Context, roomID id.RoomID, name string, data map[string]string) error
}

// Manager of configs
type Manager struct {
	log *zerolog.Logger
	ad  AccountData
}

// New config manager
func New(ad AccountData, log *zerolog.Logger) *Manager {
	m := &Manager{
		ad:  ad,
		log: log,
	}

	return m
}

// GetBot config
func (m *Manager) GetBot(ctx context.Context) Bot {
	config, err := m.ad.GetAccountData(ctx, acBotKey)
	if err != nil {
		m.log.Error().Err(err).Msg("cannot get bot settings")
	}
	cfg := make(Bot, len(config))
	maps.Copy(cfg, config)

	return cfg
}

// SetBot config
func (m *Manager) SetBot(ctx context.Context, cfg Bot) error {
	return m.ad.SetAccountData(ctx, acBotKey, maps.Clone(cfg))
}

// GetRoom config. Missing room config (or missing options) are created with default values and saved.
// If the config cannot be retrieved, defaults are returned alongside the error
func (m *Manager) GetRoom(ctx context.Context, roomID id.RoomID) (Room, error) {
	config, err := m.ad.GetRoomAccountData(ctx, roomID, acRoomKey)
	if err != nil {
		m.log.Warn().Err(err).Str("room_id", roomID.String()).Msg("cannot get room settings, using defaults")
		return NewRoom(), err
	}

	cfg := make(Room, len(roomDefaults))
	maps.Copy(cfg, config)
	if !cfg.MergeDefaults() {
		return cfg, nil
	}

	if len(config) == 0 {
		m.log.Info().Str("room_id", roomID.String()).Msg("creating default room settings")
	} else {
		m.log.Info().Str("room_id", roomID.String()).Msg("adding missing default room settings")
	}
	if serr := m.SetRoom(ctx, roomID, cfg); serr != nil {
		m.log.Error().Err(serr).Str("room_id", roomID.String()).Msg("cannot save room settings")
	}

	return cfg, nil
}

// SetRoom config. The storage caches the saved map, so it gets a copy and cfg stays owned by the caller
func (m *Manager) SetRoom(ctx context.Context, roomID id.RoomID, cfg Room) error {
	return m.ad.SetRoomAccountData(ctx, roomID, acRoomKey, maps.Clone(cfg))
}

// HasRoom checks if room config exists, without creating it
func (m *Manager) HasRoom(ctx context.Context, roomID id.RoomID) (bool, error) {
	exists, _, err := m.CheckRoom(ctx, roomID)
	return exists, err
}

// CheckRoom reports if room config exists and which default options it lacks, without creating or changing it
func (m *Manager) CheckRoom(ctx context.Context, roomID id.RoomID) (exists bool, missing []string, err error) {
	config, err := m.ad.GetRoomAccountData(ctx, roomID, acRoomKey)
	if err != nil {
		return false, nil, err
	}

	return len(config) > 0, Room(config).MissingKeys(), nil
}
