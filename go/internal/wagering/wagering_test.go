package wagering

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mcdev12/tokenboard/go/internal/ledger"
	"github.com/mcdev12/tokenboard/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Book, *ledger.Ledger, models.Scores, map[string]*models.Bet) {
	t.Helper()
	scores := models.Scores{}
	l := ledger.New(scores, models.TakenLog{})
	_, err := l.Register("A")
	require.NoError(t, err)
	bets := map[string]*models.Bet{}
	return NewBook(bets, nil), l, scores, bets
}

func TestPlaceBet(t *testing.T) {
	book, l, scores, bets := setup(t)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	bet, balance, err := book.PlaceBet(l, PlaceBetRequest{PlayerID: "A", MatchID: "m1", BetType: "home", Amount: 30000}, now)
	require.NoError(t, err)
	assert.Equal(t, 30000, balance)
	assert.Equal(t, 30000, scores["A"])
	assert.Equal(t, models.BetStatusActive, bet.Status)
	assert.Equal(t, now, bet.PlacedAt)
	assert.NotEmpty(t, bet.ID)
	assert.Same(t, bet, bets[bet.ID])
	assert.Len(t, book.Active("A"), 1)
}

func TestPlaceBetRejected(t *testing.T) {
	tests := []struct {
		name    string
		req     PlaceBetRequest
		wantErr error
	}{
		{name: "unknown player", req: PlaceBetRequest{PlayerID: "B", MatchID: "m1", Amount: 10}, wantErr: ledger.ErrUnknownPlayer},
		{name: "insufficient funds", req: PlaceBetRequest{PlayerID: "A", MatchID: "m1", Amount: 60001}, wantErr: ledger.ErrInsufficientFunds},
		{name: "non-positive amount", req: PlaceBetRequest{PlayerID: "A", MatchID: "m1", Amount: 0}, wantErr: ErrInvalidBet},
		{name: "missing match", req: PlaceBetRequest{PlayerID: "A", Amount: 10}, wantErr: ErrInvalidBet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, l, scores, bets := setup(t)
			bet, _, err := book.PlaceBet(l, tt.req, time.Now())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, bet)
			assert.Empty(t, bets)
			assert.Equal(t, ledger.StartingBalance, scores["A"])
		})
	}
}

func TestPlaceBetRegeneratesCollidingIDs(t *testing.T) {
	ids := []string{"dup", "dup", "fresh"}
	var mu sync.Mutex
	gen := func() string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[0]
		ids = ids[1:]
		return id
	}
	scores := models.Scores{}
	l := ledger.New(scores, models.TakenLog{})
	_, _ = l.Register("A")
	book := NewBook(map[string]*models.Bet{}, gen)

	first, _, err := book.PlaceBet(l, PlaceBetRequest{PlayerID: "A", MatchID: "m", Amount: 1}, time.Now())
	require.NoError(t, err)
	second, _, err := book.PlaceBet(l, PlaceBetRequest{PlayerID: "A", MatchID: "m", Amount: 1}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestDefaultIDsAreUnique(t *testing.T) {
	book, l, _, bets := setup(t)
	for i := 0; i < 100; i++ {
		_, _, err := book.PlaceBet(l, PlaceBetRequest{PlayerID: "A", MatchID: fmt.Sprint(i), Amount: 1}, time.Unix(0, 0))
		require.NoError(t, err)
	}
	assert.Len(t, bets, 100)
}
