package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mcdev12/tokenboard/go/internal/models"
)

// StartingBalance is credited to every newly registered player.
const StartingBalance = 60000

var (
	// ErrUnknownPlayer is returned for operations on players that never registered
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrInsufficientFunds is returned when a debit exceeds the player's balance
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount is returned for non-positive debit amounts
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidPlayer is returned for empty player identifiers
	ErrInvalidPlayer = errors.New("player id is required")
)

// Ledger performs balance accounting over the score and taken-log maps of a game state.
// It writes through to the maps it was built from.
type Ledger struct {
	scores models.Scores
	taken  models.TakenLog
}

// New wraps the given maps. Both must be non-nil.
func New(scores models.Scores, taken models.TakenLog) *Ledger {
	return &Ledger{scores: scores, taken: taken}
}

// Register adds a player with the starting balance. It reports whether the player was new;
// an existing player's balance is never reset.
func (l *Ledger) Register(playerID string) (bool, error) {
	if playerID == "" {
		return false, ErrInvalidPlayer
	}
	if _, ok := l.scores[playerID]; ok {
		if _, ok := l.taken[playerID]; !ok {
			l.taken[playerID] = []models.TakenSlot{}
		}
		return false, nil
	}
	l.scores[playerID] = StartingBalance
	l.taken[playerID] = []models.TakenSlot{}
	return true, nil
}

// Known reports whether the player is registered.
func (l *Ledger) Known(playerID string) bool {
	_, ok := l.scores[playerID]
	return ok
}

// Balance returns the player's balance.
func (l *Ledger) Balance(playerID string) (int, error) {
	balance, ok := l.scores[playerID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return balance, nil
}

// Credit applies delta, positive or negative, and clamps the result at zero.
func (l *Ledger) Credit(playerID string, delta int) (int, error) {
	balance, ok := l.scores[playerID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	balance += delta
	if balance < 0 {
		balance = 0
	}
	l.scores[playerID] = balance
	return balance, nil
}

// Debit subtracts amount only when it does not exceed the balance.
func (l *Ledger) Debit(playerID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	balance, ok := l.scores[playerID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if amount > balance {
		return balance, fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientFunds, balance, amount)
	}
	balance -= amount
	l.scores[playerID] = balance
	return balance, nil
}

// RecordTake appends a claimed slot to the player's taken log.
func (l *Ledger) RecordTake(playerID string, slot models.TakenSlot) {
	l.taken[playerID] = append(l.taken[playerID], slot)
}

// ClearTaken empties every registered player's taken log.
func (l *Ledger) ClearTaken() {
	for id := range l.taken {
		delete(l.taken, id)
	}
	for id := range l.scores {
		l.taken[id] = []models.TakenSlot{}
	}
}

// Players returns the registered player ids in sorted order.
func (l *Ledger) Players() []string {
	players := make([]string, 0, len(l.scores))
	for id := range l.scores {
		players = append(players, id)
	}
	sort.Strings(players)
	return players
}
