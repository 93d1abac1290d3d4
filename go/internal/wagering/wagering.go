package wagering

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/tokenboard/go/internal/ledger"
	"github.com/mcdev12/tokenboard/go/internal/models"
)

// ErrInvalidBet is returned when a bet request is missing required fields
var ErrInvalidBet = errors.New("invalid bet")

// PlaceBetRequest carries the fields a client supplies for a wager.
type PlaceBetRequest struct {
	PlayerID string `json:"userId"`
	MatchID  string `json:"matchId"`
	BetType  string `json:"betType"`
	Amount   int    `json:"amount"`
}

// IDGenerator returns a new unique bet identifier.
type IDGenerator func() string

// Book stores the wagers placed against a ledger.
type Book struct {
	bets  map[string]*models.Bet
	newID IDGenerator
}

// NewBook wraps the given bet map. A nil generator defaults to random UUIDs.
func NewBook(bets map[string]*models.Bet, newID IDGenerator) *Book {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Book{bets: bets, newID: newID}
}

// PlaceBet debits the player and records an active bet. Nothing is recorded when the
// debit is rejected.
func (b *Book) PlaceBet(l *ledger.Ledger, req PlaceBetRequest, now time.Time) (*models.Bet, int, error) {
	if err := validate(req); err != nil {
		return nil, 0, err
	}
	if !l.Known(req.PlayerID) {
		return nil, 0, fmt.Errorf("%w: %s", ledger.ErrUnknownPlayer, req.PlayerID)
	}

	balance, err := l.Debit(req.PlayerID, req.Amount)
	if err != nil {
		return nil, balance, err
	}

	id := b.newID()
	for {
		if _, exists := b.bets[id]; !exists {
			break
		}
		id = b.newID()
	}

	bet := &models.Bet{
		ID:       id,
		PlayerID: req.PlayerID,
		MatchID:  req.MatchID,
		BetType:  req.BetType,
		Amount:   req.Amount,
		PlacedAt: now,
		Status:   models.BetStatusActive,
	}
	b.bets[id] = bet
	return bet, balance, nil
}

// Get returns the bet with the given id.
func (b *Book) Get(id string) (*models.Bet, bool) {
	bet, ok := b.bets[id]
	return bet, ok
}

// Active returns the bets still awaiting settlement for a player.
func (b *Book) Active(playerID string) []*models.Bet {
	var out []*models.Bet
	for _, bet := range b.bets {
		if bet.PlayerID == playerID && bet.Status == models.BetStatusActive {
			out = append(out, bet)
		}
	}
	return out
}

func validate(req PlaceBetRequest) error {
	if req.PlayerID == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidBet)
	}
	if req.MatchID == "" {
		return fmt.Errorf("%w: matchId is required", ErrInvalidBet)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidBet)
	}
	return nil
}
