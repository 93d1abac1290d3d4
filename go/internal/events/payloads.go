package events

import (
	"encoding/json"
	"strings"

	"github.com/mcdev12/tokenboard/go/internal/models"
)

// Payload types shared between the game manager and the gateway

// TakeTokenPayload is the payload for takeFicha / takeToken. Older clients send the row
// under "rowId", newer ones under "row".
type TakeTokenPayload struct {
	Row    models.RowKey `json:"row,omitempty"`
	RowID  models.RowKey `json:"rowId,omitempty"`
	Index  int           `json:"index"`
	Player string        `json:"player"`
}

// RowKey returns the row the client addressed.
func (p TakeTokenPayload) RowKey() models.RowKey {
	if p.Row != "" {
		return p.Row
	}
	return p.RowID
}

// RegisterPlayerPayload is the payload for playerJoined / registerPlayer.
type RegisterPlayerPayload struct {
	Username string `json:"username"`
}

// UnmarshalJSON accepts either {"username": "..."} or a bare JSON string.
func (p *RegisterPlayerPayload) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		p.Username = strings.TrimSpace(name)
		return nil
	}
	type plain RegisterPlayerPayload
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.Username = strings.TrimSpace(v.Username)
	return nil
}

// VerifyStatePayload carries the caller's last known version.
type VerifyStatePayload struct {
	Version uint64 `json:"version"`
}

// ResetGamePayload carries the shared secret gating a manual reset.
type ResetGamePayload struct {
	Secret string `json:"secret"`
	Pin    string `json:"pin,omitempty"`
}

// Credential returns whichever secret field the client filled in.
func (p ResetGamePayload) Credential() string {
	if p.Secret != "" {
		return p.Secret
	}
	return p.Pin
}

// PlaceBetPayload is the payload for placeBet and POST /api/bet.
type PlaceBetPayload struct {
	PlayerID string `json:"playerId,omitempty"`
	UserID   string `json:"userId,omitempty"`
	MatchID  string `json:"matchId"`
	BetType  string `json:"betType"`
	Amount   int    `json:"amount"`
}

// Player returns the bettor id from either field.
func (p PlaceBetPayload) Player() string {
	if p.PlayerID != "" {
		return p.PlayerID
	}
	return p.UserID
}

// FichaUpdatedPayload is broadcast after an accepted take.
type FichaUpdatedPayload struct {
	Row     models.RowKey `json:"rowId"`
	Index   int           `json:"index"`
	Player  string        `json:"player"`
	Points  int           `json:"points"`
	Balance int           `json:"balance"`
	Version uint64        `json:"version"`
}

// BetPlacedPayload is broadcast after an accepted bet.
type BetPlacedPayload struct {
	BetID          string `json:"betId"`
	UserID         string `json:"userId"`
	CurrentBalance int    `json:"currentBalance"`
}

// MatchesUpdatedPayload is broadcast after each successful feed poll for a league.
type MatchesUpdatedPayload struct {
	LeagueCode string            `json:"leagueCode"`
	Matches    []json.RawMessage `json:"matches"`
}

// StateVerificationPayload answers a verifyState request.
type StateVerificationPayload struct {
	NeedsUpdate bool   `json:"needsUpdate"`
	Version     uint64 `json:"version"`
}
