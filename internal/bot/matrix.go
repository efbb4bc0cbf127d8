package bot

import (
	"context"

	"github.com/etkecc/go-linkpearl"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

// matrix is the part of the matrix client used by commands and reactions
type matrix interface {
	UserID() id.UserID
	JoinedRooms(ctx context.Context) ([]id.RoomID, error)
	GetPowerLevels(ctx context.Context, roomID id.RoomID) (*event.PowerLevelsEventContent, error)
	GetEventSender(ctx context.Context, roomID id.RoomID, eventID id.EventID) (id.UserID, error)
	SendNotice(ctx context.Context, roomID id.RoomID, message string, relatesTo *event.RelatesTo)
	SendReaction(ctx context.Context, roomID id.RoomID, eventID id.EventID, reaction string) error
}

// lpMatrix is the linkpearl implementation of matrix
type lpMatrix struct {
	lp *linkpearl.Linkpearl
}

func (m *lpMatrix) UserID() id.UserID {
	return m.lp.GetClient().UserID
}

func (m *lpMatrix) JoinedRooms(ctx context.Context) ([]id.RoomID, error) {
	resp, err := m.lp.GetClient().JoinedRooms(ctx)
	if err != nil {
		return nil, err
	}

	return resp.JoinedRooms, nil
}

// GetPowerLevels from the state store, falls back to the homeserver
func (m *lpMatrix) GetPowerLevels(ctx context.Context, roomID id.RoomID) (*event.PowerLevelsEventContent, error) {
	client := m.lp.GetClient()
	if client.StateStore != nil {
		pl, err := client.StateStore.GetPowerLevels(ctx, roomID)
		if err == nil && pl != nil {
			return pl, nil
		}
	}

	var pl event.PowerLevelsEventContent
	if err := client.StateEvent(ctx, roomID, event.StatePowerLevels, "", &pl); err != nil {
		return nil, err
	}

	return &pl, nil
}

func (m *lpMatrix) GetEventSender(ctx context.Context, roomID id.RoomID, eventID id.EventID) (id.UserID, error) {
	evt, err := m.lp.GetClient().GetEvent(ctx, roomID, eventID)
	if err != nil {
		return "", err
	}

	return evt.Sender, nil
}

func (m *lpMatrix) SendNotice(ctx context.Context, roomID id.RoomID, message string, relatesTo *event.RelatesTo) {
	m.lp.SendNotice(ctx, roomID, message, relatesTo)
}

func (m *lpMatrix) SendReaction(ctx context.Context, roomID id.RoomID, eventID id.EventID, reaction string) error {
	return m.lp.SendReaction(ctx, roomID, eventID, reaction)
}
