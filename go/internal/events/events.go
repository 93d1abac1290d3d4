package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope exchanged with realtime clients in both directions.
type Event struct {
	ID        string          `json:"id,omitempty"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// EventType names a realtime event
type EventType string

// Client → server
const (
	EventTypeRequestGameState EventType = "requestGameState"
	EventTypeSaveGameState    EventType = "saveGameState"
	EventTypeTakeFicha        EventType = "takeFicha"
	EventTypeTakeToken        EventType = "takeToken"
	EventTypeVerifyState      EventType = "verifyState"
	EventTypePlayerJoined     EventType = "playerJoined"
	EventTypeRegisterPlayer   EventType = "registerPlayer"
	EventTypeResetGame        EventType = "resetGame"
	EventTypePlaceBet         EventType = "placeBet"
)

// Server → client
const (
	EventTypeInitialState      EventType = "initialState"
	EventTypeStateChanged      EventType = "stateChanged"
	EventTypeFichaUpdated      EventType = "fichaUpdated"
	EventTypeGameReset         EventType = "gameReset"
	EventTypeUpdatePlayersList EventType = "updatePlayersList"
	EventTypeBetPlaced         EventType = "betPlaced"
	EventTypeMatchesUpdated    EventType = "matchesUpdated"
	EventTypeStateVerification EventType = "stateVerification"
)

// New builds an event with a fresh id, marshalling payload into Data.
func New(eventType EventType, payload interface{}, at time.Time) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: at.UTC(),
		Data:      data,
	}, nil
}

// Broadcaster delivers an event to every interested party without blocking.
type Broadcaster interface {
	Broadcast(event *Event)
}

// Fanout broadcasts to each of its members in order.
type Fanout []Broadcaster

func (f Fanout) Broadcast(event *Event) {
	for _, b := range f {
		if b != nil {
			b.Broadcast(event)
		}
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Broadcast(*Event) {}
