package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcdev12/tokenboard/go/internal/board"
	"github.com/mcdev12/tokenboard/go/internal/events"
	"github.com/mcdev12/tokenboard/go/internal/ledger"
	"github.com/mcdev12/tokenboard/go/internal/models"
	"github.com/mcdev12/tokenboard/go/internal/wagering"
	"github.com/rs/zerolog/log"
)

// TakeRequest addresses one board slot on behalf of a player.
type TakeRequest struct {
	Row    models.RowKey
	Index  int
	Player string
}

// TakeResult describes an accepted take.
type TakeResult struct {
	Token   models.Token
	Balance int
	Version uint64
	// RoundReset is set when the take completed the board and a new round began.
	RoundReset bool
}

// Register adds a player with the starting balance, leaving known players untouched,
// and broadcasts the player list.
func (m *Manager) Register(ctx context.Context, playerID string) (bool, error) {
	playerID = strings.TrimSpace(playerID)

	m.mu.Lock()
	defer m.mu.Unlock()

	created, err := m.ledger.Register(playerID)
	if err != nil {
		return false, err
	}
	if created {
		m.bump()
		m.persistLocked(ctx)
		log.Info().Str("player", playerID).Uint64("version", m.state.Version).Msg("player registered")
		m.broadcastState(events.EventTypeStateChanged)
	}
	m.broadcast(events.EventTypeUpdatePlayersList, m.ledger.Players())
	return created, nil
}

// TakeToken claims a slot for a player and credits the token's points to their
// balance, clamped at zero. A rejected take changes nothing and broadcasts nothing.
// Completing the board starts a new round.
func (m *Manager) TakeToken(ctx context.Context, req TakeRequest) (*TakeResult, error) {
	player := strings.TrimSpace(req.Player)
	if player == "" {
		return nil, ledger.ErrInvalidPlayer
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if board.IsComplete(&m.state.Board) {
		return nil, ErrRoundComplete
	}

	token, err := board.TakeSlot(&m.state.Board, req.Row, req.Index)
	if err != nil {
		return nil, err
	}

	created, err := m.ledger.Register(player)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info().Str("player", player).Msg("registered player on first take")
	}

	balance, err := m.ledger.Credit(player, token.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to credit take: %w", err)
	}
	m.ledger.RecordTake(player, models.TakenSlot{Row: req.Row, Index: req.Index})
	m.state.TakenCount++
	m.bump()
	m.persistLocked(ctx)

	log.Debug().
		Str("player", player).
		Str("row", string(req.Row)).
		Int("index", req.Index).
		Int("points", token.Points).
		Int("balance", balance).
		Uint64("version", m.state.Version).
		Msg("token taken")

	m.broadcast(events.EventTypeFichaUpdated, events.FichaUpdatedPayload{
		Row:     req.Row,
		Index:   req.Index,
		Player:  player,
		Points:  token.Points,
		Balance: balance,
		Version: m.state.Version,
	})
	m.broadcastState(events.EventTypeStateChanged)

	result := &TakeResult{Token: token, Balance: balance, Version: m.state.Version}
	if board.IsComplete(&m.state.Board) {
		m.resetLocked(ctx)
		result.RoundReset = true
	}
	return result, nil
}

// PlaceBet debits the stake from the player's balance and records an active bet.
// Unknown players and stakes above the balance are rejected without any change.
func (m *Manager) PlaceBet(ctx context.Context, req wagering.PlaceBetRequest) (*models.Bet, int, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)

	m.mu.Lock()
	defer m.mu.Unlock()

	bet, balance, err := m.book.PlaceBet(m.ledger, req, m.clock.Now().UTC())
	if err != nil {
		return nil, balance, err
	}
	m.bump()
	m.persistLocked(ctx)

	log.Info().
		Str("bet_id", bet.ID).
		Str("player", bet.PlayerID).
		Str("match_id", bet.MatchID).
		Int("amount", bet.Amount).
		Int("balance", balance).
		Msg("bet placed")

	m.broadcast(events.EventTypeBetPlaced, events.BetPlacedPayload{
		BetID:          bet.ID,
		UserID:         bet.PlayerID,
		CurrentBalance: balance,
	})
	m.broadcastState(events.EventTypeStateChanged)

	out := *bet
	return &out, balance, nil
}
