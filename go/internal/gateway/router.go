package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/tokenboard/go/internal/auth"
	"github.com/mcdev12/tokenboard/go/internal/events"
	"github.com/mcdev12/tokenboard/go/internal/game"
	"github.com/mcdev12/tokenboard/go/internal/models"
	"github.com/mcdev12/tokenboard/go/internal/wagering"
	"github.com/rs/zerolog/log"
)

// GameService is the part of the game manager the gateway drives.
type GameService interface {
	Snapshot() *models.GameState
	WithSnapshot(fn func(state *models.GameState))
	Verify(callerVersion uint64) (bool, uint64)
	Register(ctx context.Context, playerID string) (bool, error)
	TakeToken(ctx context.Context, req game.TakeRequest) (*game.TakeResult, error)
	PlaceBet(ctx context.Context, req wagering.PlaceBetRequest) (*models.Bet, int, error)
	SubmitState(ctx context.Context, state *models.GameState) (uint64, error)
	Restore(ctx context.Context, state *models.GameState) (uint64, error)
	ResetRound(ctx context.Context) uint64
}

type handlerFunc func(ctx context.Context, c *Connection, data json.RawMessage) error

// EventRouter dispatches each inbound event type to exactly one handler. Rejected
// requests change nothing and are not answered.
type EventRouter struct {
	game      GameService
	resetAuth auth.Authorizer
	clock     clockwork.Clock
	handlers  map[events.EventType]handlerFunc
}

func NewEventRouter(g GameService, resetAuth auth.Authorizer, clock clockwork.Clock) *EventRouter {
	if resetAuth == nil {
		resetAuth = auth.Deny{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	r := &EventRouter{game: g, resetAuth: resetAuth, clock: clock}
	r.handlers = map[events.EventType]handlerFunc{
		events.EventTypeRequestGameState: r.handleRequestGameState,
		events.EventTypeSaveGameState:    r.handleSaveGameState,
		events.EventTypeTakeFicha:        r.handleTakeToken,
		events.EventTypeTakeToken:        r.handleTakeToken,
		events.EventTypeVerifyState:      r.handleVerifyState,
		events.EventTypePlayerJoined:     r.handleRegisterPlayer,
		events.EventTypeRegisterPlayer:   r.handleRegisterPlayer,
		events.EventTypeResetGame:        r.handleResetGame,
		events.EventTypePlaceBet:         r.handlePlaceBet,
	}
	return r
}

// OnConnect sends the current state to a newly connected client.
func (r *EventRouter) OnConnect(c *Connection) {
	if err := r.sendState(c); err != nil {
		log.Warn().Err(err).Str("connection_id", c.ID).Msg("failed to send initial state")
	}
}

func (r *EventRouter) HandleMessage(ctx context.Context, c *Connection, event *events.Event) {
	handle, ok := r.handlers[event.Type]
	if !ok {
		log.Debug().
			Str("connection_id", c.ID).
			Str("event_type", string(event.Type)).
			Msg("ignoring unknown event type")
		return
	}

	if err := handle(ctx, c, event.Data); err != nil {
		log.Debug().
			Err(err).
			Str("connection_id", c.ID).
			Str("user_id", c.UserID).
			Str("event_type", string(event.Type)).
			Msg("client request rejected")
	}
}

func (r *EventRouter) reply(c *Connection, eventType events.EventType, payload interface{}) error {
	evt, err := events.New(eventType, payload, r.clock.Now())
	if err != nil {
		return err
	}
	return c.SendEvent(evt)
}

func (r *EventRouter) handleRequestGameState(ctx context.Context, c *Connection, _ json.RawMessage) error {
	return r.sendState(c)
}

// sendState queues the current state for c while the game is locked, so it lands
// after every change already broadcast and before any later one.
func (r *EventRouter) sendState(c *Connection) error {
	var err error
	r.game.WithSnapshot(func(state *models.GameState) {
		var evt *events.Event
		evt, err = events.New(events.EventTypeInitialState, state, r.clock.Now())
		if err != nil {
			return
		}
		err = c.Manager.SendOrdered(c, evt)
	})
	return err
}

func (r *EventRouter) handleSaveGameState(ctx context.Context, c *Connection, data json.RawMessage) error {
	var state models.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	_, err := r.game.SubmitState(ctx, &state)
	return err
}

func (r *EventRouter) handleTakeToken(ctx context.Context, c *Connection, data json.RawMessage) error {
	var p events.TakeTokenPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode take: %w", err)
	}
	player := p.Player
	if player == "" && c.UserID != anonymousUser {
		player = c.UserID
	}
	_, err := r.game.TakeToken(ctx, game.TakeRequest{Row: p.RowKey(), Index: p.Index, Player: player})
	return err
}

func (r *EventRouter) handleVerifyState(ctx context.Context, c *Connection, data json.RawMessage) error {
	var p events.VerifyStatePayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decode verify: %w", err)
		}
	}
	needsUpdate, version := r.game.Verify(p.Version)
	return r.reply(c, events.EventTypeStateVerification, events.StateVerificationPayload{
		NeedsUpdate: needsUpdate,
		Version:     version,
	})
}

func (r *EventRouter) handleRegisterPlayer(ctx context.Context, c *Connection, data json.RawMessage) error {
	var p events.RegisterPlayerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode register: %w", err)
	}
	_, err := r.game.Register(ctx, p.Username)
	return err
}

func (r *EventRouter) handleResetGame(ctx context.Context, c *Connection, data json.RawMessage) error {
	var p events.ResetGamePayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decode reset: %w", err)
		}
	}
	if err := r.resetAuth.Authorize(p.Credential()); err != nil {
		log.Warn().Str("connection_id", c.ID).Msg("unauthorized reset attempt")
		return err
	}
	version := r.game.ResetRound(ctx)
	log.Info().Str("connection_id", c.ID).Uint64("version", version).Msg("round reset by client")
	return nil
}

func (r *EventRouter) handlePlaceBet(ctx context.Context, c *Connection, data json.RawMessage) error {
	var p events.PlaceBetPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode bet: %w", err)
	}
	_, _, err := r.game.PlaceBet(ctx, betRequest(p))
	return err
}

func betRequest(p events.PlaceBetPayload) wagering.PlaceBetRequest {
	return wagering.PlaceBetRequest{
		PlayerID: p.Player(),
		MatchID:  p.MatchID,
		BetType:  p.BetType,
		Amount:   p.Amount,
	}
}

// isClientError reports whether err was caused by the request rather than the server.
func isClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
