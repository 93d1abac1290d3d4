package models

import "time"

// BetStatus defines the lifecycle state of a wager.
type BetStatus string

const (
	BetStatusActive  BetStatus = "active"
	BetStatusSettled BetStatus = "settled"
	BetStatusVoid    BetStatus = "void"
)

// Bet is a wager recorded against a player's balance, pending external settlement.
type Bet struct {
	ID       string    `json:"id"`
	PlayerID string    `json:"userId"`
	MatchID  string    `json:"matchId"`
	BetType  string    `json:"betType"`
	Amount   int       `json:"amount"`
	PlacedAt time.Time `json:"timestamp"`
	Status   BetStatus `json:"status"`
}
