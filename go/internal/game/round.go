package game

import (
	"context"

	"github.com/mcdev12/tokenboard/go/internal/board"
	"github.com/mcdev12/tokenboard/go/internal/events"
	"github.com/rs/zerolog/log"
)

// ResetRound deals a new board while keeping every player and balance. Callers gate
// who may trigger it.
func (m *Manager) ResetRound(ctx context.Context) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked(ctx)
	return m.state.Version
}

func (m *Manager) resetLocked(ctx context.Context) {
	m.state.Board = board.Initialize(m.rand)
	m.state.TakenCount = 0
	m.ledger.ClearTaken()
	m.state.TimeLeft = RoundTimeLeft
	if m.state.CurrentPlayer == "" {
		m.state.CurrentPlayer = DefaultCurrentPlayer
	}
	m.bump()
	m.persistLocked(ctx)

	log.Info().
		Uint64("version", m.state.Version).
		Int("players", len(m.state.Score)).
		Msg("round reset")

	m.broadcastState(events.EventTypeGameReset)
}
