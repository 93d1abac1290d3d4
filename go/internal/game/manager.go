package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/tokenboard/go/internal/board"
	"github.com/mcdev12/tokenboard/go/internal/events"
	"github.com/mcdev12/tokenboard/go/internal/ledger"
	"github.com/mcdev12/tokenboard/go/internal/models"
	"github.com/mcdev12/tokenboard/go/internal/store"
	"github.com/mcdev12/tokenboard/go/internal/wagering"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultCurrentPlayer is the turn holder a fresh or reset game starts with
	DefaultCurrentPlayer = "Ruperto"
	// RoundTimeLeft is the turn timer a round starts with
	RoundTimeLeft = 10
)

// DefaultPlayers are registered when no snapshot exists.
var DefaultPlayers = []string{"Ruperto", "Juan", "Mauricio"}

var (
	// ErrStaleVersion is returned when a full-state submission does not advance the version
	ErrStaleVersion = errors.New("stale state version")
	// ErrInvalidState is returned when a submitted state has a malformed board
	ErrInvalidState = errors.New("invalid game state")
	// ErrRoundComplete is returned for takes against a board that has not been reset yet
	ErrRoundComplete = errors.New("round complete")
)

// Options configures a Manager. Store and Broadcaster are required.
type Options struct {
	Store          store.Store
	Broadcaster    events.Broadcaster
	Clock          clockwork.Clock
	Rand           board.Rand
	NewBetID       wagering.IDGenerator
	DefaultPlayers []string
}

// Manager owns the authoritative game state. Every mutation runs under a single
// writer lock covering mutate, persist and broadcast, so clients observe changes
// in the same order they were applied.
type Manager struct {
	mu     sync.Mutex
	state  *models.GameState
	ledger *ledger.Ledger
	book   *wagering.Book

	store       store.Store
	broadcaster events.Broadcaster
	clock       clockwork.Clock
	rand        board.Rand
	newBetID    wagering.IDGenerator
}

// NewManager recovers the last snapshot from the store, or starts a fresh game and
// persists it immediately when none can be read.
func NewManager(ctx context.Context, opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("game manager requires a store")
	}
	if opts.Broadcaster == nil {
		opts.Broadcaster = events.Discard{}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Rand == nil {
		opts.Rand = board.DefaultRand
	}
	if opts.DefaultPlayers == nil {
		opts.DefaultPlayers = DefaultPlayers
	}

	m := &Manager{
		store:       opts.Store,
		broadcaster: opts.Broadcaster,
		clock:       opts.Clock,
		rand:        opts.Rand,
		newBetID:    opts.NewBetID,
	}

	state, err := m.recover(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("no usable snapshot, starting a fresh game")
		m.install(m.freshState(opts.DefaultPlayers))
		m.persistLocked(ctx)
		return m, nil
	}

	m.install(state)
	log.Info().
		Uint64("version", state.Version).
		Int("taken_count", state.TakenCount).
		Int("players", len(state.Score)).
		Msg("game state recovered")

	if board.IsComplete(&m.state.Board) {
		m.resetLocked(ctx)
	}
	return m, nil
}

func (m *Manager) recover(ctx context.Context) (*models.GameState, error) {
	state, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := board.Validate(&state.Board); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrCorrupt, err)
	}
	return state, nil
}

func (m *Manager) freshState(players []string) *models.GameState {
	state := &models.GameState{
		Board:             board.Initialize(m.rand),
		Score:             models.Scores{},
		TakenRowsByPlayer: models.TakenLog{},
		CurrentPlayer:     DefaultCurrentPlayer,
		TimeLeft:          RoundTimeLeft,
		Version:           1,
		Timestamp:         m.clock.Now().UnixMilli(),
	}
	l := ledger.New(state.Score, state.TakenRowsByPlayer)
	for _, p := range players {
		if _, err := l.Register(p); err != nil {
			log.Warn().Err(err).Str("player", p).Msg("skipping default player")
		}
	}
	return state
}

// install makes state authoritative, normalizing the maps and derived fields the
// manager relies on.
func (m *Manager) install(state *models.GameState) {
	if state.Score == nil {
		state.Score = models.Scores{}
	}
	if state.TakenRowsByPlayer == nil {
		state.TakenRowsByPlayer = models.TakenLog{}
	}
	if state.Bets == nil {
		state.Bets = map[string]*models.Bet{}
	}
	for id, bet := range state.Bets {
		if bet == nil {
			delete(state.Bets, id)
		}
	}
	for id, balance := range state.Score {
		if balance < 0 {
			state.Score[id] = 0
		}
		if _, ok := state.TakenRowsByPlayer[id]; !ok {
			state.TakenRowsByPlayer[id] = []models.TakenSlot{}
		}
	}
	state.TakenCount = board.CountTaken(&state.Board)

	m.state = state
	m.ledger = ledger.New(state.Score, state.TakenRowsByPlayer)
	m.book = wagering.NewBook(state.Bets, m.newBetID)
}

// bump records an accepted mutation.
func (m *Manager) bump() {
	m.state.Version++
	m.state.Timestamp = m.clock.Now().UnixMilli()
}

// persistLocked saves a copy of the current state. Failures are logged and
// never roll back the in-memory mutation.
func (m *Manager) persistLocked(ctx context.Context) {
	if err := m.store.Save(ctx, m.state.Clone()); err != nil {
		log.Error().
			Err(err).
			Uint64("version", m.state.Version).
			Msg("failed to persist game state")
	}
}

func (m *Manager) broadcast(eventType events.EventType, payload interface{}) {
	evt, err := events.New(eventType, payload, m.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to build event")
		return
	}
	m.broadcaster.Broadcast(evt)
}

func (m *Manager) broadcastState(eventType events.EventType) {
	m.broadcast(eventType, m.state.Clone())
}

// Snapshot returns a deep copy of the authoritative state.
func (m *Manager) Snapshot() *models.GameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// WithSnapshot calls fn with a copy of the state while holding the writer lock.
// fn must not block or call back into the manager.
func (m *Manager) WithSnapshot(fn func(state *models.GameState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.state.Clone())
}

// Version returns the current state version.
func (m *Manager) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Version
}

// Verify reports whether a client holding callerVersion is behind, along with the
// current version.
func (m *Manager) Verify(callerVersion uint64) (bool, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return callerVersion < m.state.Version, m.state.Version
}

// Players returns the registered player ids in sorted order.
func (m *Manager) Players() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Players()
}

// Balance returns a player's balance.
func (m *Manager) Balance(playerID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Balance(playerID)
}

// Persist saves the current state without changing it. Used by the periodic
// snapshot worker and at shutdown.
func (m *Manager) Persist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Save(ctx, m.state.Clone()); err != nil {
		return fmt.Errorf("failed to persist game state: %w", err)
	}
	return nil
}
