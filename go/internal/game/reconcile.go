package game

import (
	"context"
	"fmt"

	"github.com/mcdev12/tokenboard/go/internal/board"
	"github.com/mcdev12/tokenboard/go/internal/events"
	"github.com/mcdev12/tokenboard/go/internal/models"
	"github.com/rs/zerolog/log"
)

// SubmitState installs a full state sent by a client. It is accepted only when its
// version is ahead of the current one; the accepted state is assigned current+1.
// Bets are owned by the server and are never replaced by a submission.
func (m *Manager) SubmitState(ctx context.Context, submitted *models.GameState) (uint64, error) {
	if submitted == nil {
		return 0, fmt.Errorf("%w: empty state", ErrInvalidState)
	}
	if err := board.Validate(&submitted.Board); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.state.Version
	if submitted.Version <= current {
		log.Debug().
			Uint64("submitted", submitted.Version).
			Uint64("current", current).
			Msg("ignoring stale state submission")
		return current, fmt.Errorf("%w: submitted %d, current %d", ErrStaleVersion, submitted.Version, current)
	}

	shallow := *submitted
	shallow.Bets = nil
	next := shallow.Clone()
	next.Bets = m.state.Bets
	m.replaceLocked(ctx, next, current)

	log.Info().Uint64("version", m.state.Version).Msg("accepted client state")
	return m.state.Version, nil
}

// Restore installs an administrator-provided state regardless of its version.
// The restored state still gets the next version so clients detect the change.
// Active bets the server holds are kept, since their stakes are already debited.
func (m *Manager) Restore(ctx context.Context, state *models.GameState) (uint64, error) {
	if state == nil {
		return 0, fmt.Errorf("%w: empty state", ErrInvalidState)
	}
	if err := board.Validate(&state.Board); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := state.Clone()
	if next.Bets == nil {
		next.Bets = map[string]*models.Bet{}
	}
	for id, bet := range m.state.Bets {
		if _, ok := next.Bets[id]; !ok && bet.Status == models.BetStatusActive {
			next.Bets[id] = bet
		}
	}
	m.replaceLocked(ctx, next, m.state.Version)

	log.Warn().Uint64("version", m.state.Version).Msg("game state restored")
	return m.state.Version, nil
}

func (m *Manager) replaceLocked(ctx context.Context, next *models.GameState, current uint64) {
	if next.CurrentPlayer == "" {
		next.CurrentPlayer = m.state.CurrentPlayer
	}
	next.Version = current
	m.install(next)
	m.bump()
	m.persistLocked(ctx)
	m.broadcastState(events.EventTypeStateChanged)

	if board.IsComplete(&m.state.Board) {
		m.resetLocked(ctx)
	}
}
