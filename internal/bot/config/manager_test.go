package config

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"maunium.net/go/mautrix/id"
)

var errStore = errors.New("store is down")

type fakeAccountData struct {
	bot      map[string]map[string]string
	rooms    map[id.RoomID]map[string]map[string]string
	getErr   error
	setErr   error
	setCalls int
}

func newFakeAccountData() *fakeAccountData {
	return &fakeAccountData{
		bot:   map[string]map[string]string{},
		rooms: map[id.RoomID]map[string]map[string]string{},
	}
}

func (f *fakeAccountData) GetAccountData(_ context.Context, name string) (map[string]string, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.bot[name], nil
}

func (f *fakeAccountData) SetAccountData(_ context.Context, name string, data map[string]string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.bot[name] = data
	return nil
}

func (f *fakeAccountData) GetRoomAccountData(_ context.Context, roomID id.RoomID, name string) (map[string]string, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	// same as linkpearl: cached map is returned as is
	return f.rooms[roomID][name], nil
}

func (f *fakeAccountData) SetRoomAccountData(_ context.Context, roomID id.RoomID, name string, data map[string]string) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	if f.rooms[roomID] == nil {
		f.rooms[roomID] = map[string]map[string]string{}
	}
	// same as linkpearl: the map is cached by reference
	f.rooms[roomID][name] = data
	return nil
}

func newTestManager() (*Manager, *fakeAccountData) {
	log := zerolog.Nop()
	ad := newFakeAccountData()
	return New(ad, &log), ad
}

const testRoomID = id.RoomID("!room:example.com")

func TestManager_GetRoom_CreatesDefaults(t *testing.T) {
	ctx := context.Background()
	m, ad := newTestManager()

	cfg, err := m.GetRoom(ctx, testRoomID)
	if err != nil {
		t.Fatal(err)
	}
	if !maps.Equal(cfg, roomDefaults) {
		t.Error(roomDefaults, "!=", cfg)
	}
	if ad.setCalls != 1 {
		t.Error(1, "!=", ad.setCalls)
	}
	if !maps.Equal(ad.rooms[testRoomID][acRoomKey], map[string]string(roomDefaults)) {
		t.Error("defaults are not persisted:", ad.rooms[testRoomID][acRoomKey])
	}

	// second access does not write
	if _, err := m.GetRoom(ctx, testRoomID); err != nil {
		t.Fatal(err)
	}
	if ad.setCalls != 1 {
		t.Error(1, "!=", ad.setCalls)
	}
}

func TestManager_GetRoom_MergesDefaults(t *testing.T) {
	ctx := context.Background()
	m, ad := newTestManager()
	ad.rooms[testRoomID] = map[string]map[string]string{
		acRoomKey: {RoomEnabled: "true", RoomProbability: "0.3"},
	}

	cfg, err := m.GetRoom(ctx, testRoomID)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Enabled() || cfg.Probability() != 0.3 {
		t.Error("existing options are lost:", cfg)
	}
	if cfg.Get(RoomUsers) != "[]" || cfg.Get(RoomKeywords) != "[]" {
		t.Error("missing options are not added:", cfg)
	}
	if ad.setCalls != 1 {
		t.Error(1, "!=", ad.setCalls)
	}
}

func TestManager_GetRoom_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m, ad := newTestManager()
	stored := map[string]string{
		RoomEnabled:     "false",
		RoomProbability: "1",
		RoomUsers:       "[]",
		RoomKeywords:    "[]",
	}
	ad.rooms[testRoomID] = map[string]map[string]string{acRoomKey: stored}

	cfg, err := m.GetRoom(ctx, testRoomID)
	if err != nil {
		t.Fatal(err)
	}
	cfg.SetEnabled(true)
	if stored[RoomEnabled] != "false" {
		t.Error("stored map is mutated")
	}
}

func TestManager_GetRoom_ReadError(t *testing.T) {
	ctx := context.Background()
	m, ad := newTestManager()
	ad.getErr = errStore

	cfg, err := m.GetRoom(ctx, testRoomID)
	if !errors.Is(err, errStore) {
		t.Error(errStore, "!=", err)
	}
	if !maps.Equal(cfg, NewRoom()) {
		t.Error("defaults are not returned:", cfg)
	}
	if ad.setCalls != 0 {
		t.Error(0, "!=", ad.setCalls)
	}
}

func TestManager_GetRoom_WriteError(t *testing.T) {
	ctx := context.Background()
	m, ad := newTestManager()
	ad.setErr = errStore

	cfg, err := m.GetRoom(ctx, testRoomID)
	if err != nil {
		t.Error("write error is returned:", err)
	}
	if !maps.Equal(cfg, NewRoom()) {
		t.Error("defaults are not returned:", cfg)
	}
}

func TestManager_SetRoom(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	cfg := NewRoom()
	cfg.SetEnabled(true)
	cfg.AddKeyword("banana")
	if err := m.SetRoom(ctx, testRoomID, cfg); err != nil {
		t.Fatal(err)
	}
	// idempotent
	if err := m.SetRoom(ctx, testRoomID, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := m.GetRoom(ctx, testRoomID)
	if err != nil {
		t.Fatal(err)
	}
	if !maps.Equal(loaded, cfg) {
		t.Error(cfg, "!=", loaded)
	}
}

func TestManager_HasRoom(t *testing.T) {
	ctx := context.Background()
	m, ad := newTestManager()

	ok, err := m.HasRoom(ctx, testRoomID)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("room exists before creation")
	}
	if ad.setCalls != 0 {
		t.Error("check created the room")
	}

	if _, err := m.GetRoom(ctx, testRoomID); err != nil {
		t.Fatal(err)
	}
	ok, err = m.HasRoom(ctx, testRoomID)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("room does not exist after creation")
	}

	ad.getErr = errStore
	if _, err := m.HasRoom(ctx, testRoomID); !errors.Is(err, errStore) {
		t.Error(errStore, "!=", err)
	}
}

func TestManager_Bot(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	cfg := m.GetBot(ctx)
	if len(cfg.Users()) != 0 {
		t.Error("users are not empty:", cfg.Users())
	}

	cfg.Set(BotUsers, "@*:example.com  @admin:example.org")
	if err := m.SetBot(ctx, cfg); err != nil {
		t.Fatal(err)
	}
	users := m.GetBot(ctx).Users()
	if len(users) != 2 || users[0] != "@*:example.com" || users[1] != "@admin:example.org" {
		t.Error("unexpected users:", users)
	}
}

func TestManager_GetRoom_UnsavedChanges(t *testing.T) {
	ctx := context.Background()
	m, ad := newTestManager()

	cfg, err := m.GetRoom(ctx, testRoomID)
	if err != nil {
		t.Fatal(err)
	}
	cfg.SetEnabled(true)
	cfg.AddKeyword("unsaved")

	stored := Room(ad.rooms[testRoomID][acRoomKey])
	if stored.Enabled() {
		t.Error("unsaved global mode is visible in the storage")
	}
	if len(stored.Keywords()) != 0 {
		t.Error("unsaved keywords are visible in the storage:", stored.Keywords())
	}

	loaded, err := m.GetRoom(ctx, testRoomID)
	if err != nil {
		t.Fatal(err)
	}
	if !maps.Equal(loaded, NewRoom()) {
		t.Error(NewRoom(), "!=", loaded)
	}
}

func TestManager_SetRoom_UnsavedChanges(t *testing.T) {
	ctx := context.Background()
	m, ad := newTestManager()

	cfg := NewRoom()
	cfg.SetProbability(0.5)
	if err := m.SetRoom(ctx, testRoomID, cfg); err != nil {
		t.Fatal(err)
	}
	cfg.SetProbability(0.1)

	stored := Room(ad.rooms[testRoomID][acRoomKey])
	if stored.Probability() != 0.5 {
		t.Error(0.5, "!=", stored.Probability())
	}
}

func TestManager_GetRoom_ConcurrentChanges(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	if _, err := m.GetRoom(ctx, testRoomID); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 4 {
		cfg, err := m.GetRoom(ctx, testRoomID)
		if err != nil {
			t.Fatal(err)
		}
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := range 100 {
				cfg.SetEnabled(i%2 == 0)
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				m.GetRoom(ctx, testRoomID) //nolint:errcheck // only reads matter here
			}
		}()
	}
	wg.Wait()
}

func TestManager_CheckRoom(t *testing.T) {
	ctx := context.Background()
	m, ad := newTestManager()

	exists, missing, err := m.CheckRoom(ctx, testRoomID)
	if err != nil {
		t.Fatal(err)
	}
	if exists || len(missing) != len(roomDefaults) {
		t.Error("absent room:", exists, missing)
	}

	ad.rooms[testRoomID] = map[string]map[string]string{
		acRoomKey: {RoomEnabled: "true", RoomProbability: "0.3", RoomUsers: "[]"},
	}
	exists, missing, err = m.CheckRoom(ctx, testRoomID)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || !slices.Equal(missing, []string{RoomKeywords}) {
		t.Error("partial room:", exists, missing)
	}
	if ad.setCalls != 0 {
		t.Error("check changed the room")
	}
}
