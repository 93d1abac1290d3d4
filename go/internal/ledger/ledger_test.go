package ledger

import (
	"testing"

	"github.com/mcdev12/tokenboard/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger() (*Ledger, models.Scores, models.TakenLog) {
	scores := models.Scores{}
	taken := models.TakenLog{}
	return New(scores, taken), scores, taken
}

func TestRegister(t *testing.T) {
	l, scores, taken := newLedger()

	created, err := l.Register("A")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, StartingBalance, scores["A"])
	assert.Empty(t, taken["A"])
	assert.NotNil(t, taken["A"])

	scores["A"] = 1234
	created, err = l.Register("A")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1234, scores["A"], "re-registering must not reset the balance")

	_, err = l.Register("")
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestCredit(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta int
		want  int
	}{
		{name: "win token", start: 60000, delta: 20000, want: 80000},
		{name: "lose token", start: 60000, delta: -23000, want: 37000},
		{name: "penalty clamps at zero", start: 10000, delta: -23000, want: 0},
		{name: "zero stays zero", start: 0, delta: -23000, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, scores, _ := newLedger()
			scores["p"] = tt.start
			got, err := l.Credit("p", tt.delta)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, scores["p"])
		})
	}

	l, _, _ := newLedger()
	_, err := l.Credit("ghost", 10)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestDebit(t *testing.T) {
	l, scores, _ := newLedger()
	_, err := l.Register("A")
	require.NoError(t, err)

	balance, err := l.Debit("A", 30000)
	require.NoError(t, err)
	assert.Equal(t, 30000, balance)

	balance, err = l.Debit("A", 30001)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 30000, balance)
	assert.Equal(t, 30000, scores["A"], "rejected debit must not mutate")

	balance, err = l.Debit("A", 30000)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	_, err = l.Debit("A", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = l.Debit("B", 1)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestClearTakenKeepsPlayers(t *testing.T) {
	l, scores, taken := newLedger()
	_, _ = l.Register("A")
	_, _ = l.Register("B")
	l.RecordTake("A", models.TakenSlot{Row: models.RowRuby, Index: 1})
	taken["stale"] = []models.TakenSlot{{Row: models.RowRuby, Index: 2}}

	l.ClearTaken()

	assert.Len(t, taken, 2)
	assert.Empty(t, taken["A"])
	assert.Empty(t, taken["B"])
	assert.Equal(t, StartingBalance, scores["A"])
	assert.Equal(t, []string{"A", "B"}, l.Players())
}
