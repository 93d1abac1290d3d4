package board

import (
	"math/rand/v2"
	"testing"

	"github.com/mcdev12/tokenboard/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct{ calls []int }

// IntN always picks the top index, which leaves the input order untouched.
func (f *fixedRand) IntN(n int) int {
	f.calls = append(f.calls, n)
	return n - 1
}

func TestInitialize(t *testing.T) {
	b := Initialize(rand.New(rand.NewPCG(1, 2)))

	require.NoError(t, Validate(&b))

	wins, loses, total := 0, 0, 0
	for _, key := range models.RowKeys {
		for _, tok := range *b.Row(key) {
			assert.True(t, tok.Available)
			assert.Equal(t, models.RowSymbols[key], tok.Symbol)
			switch tok.Kind {
			case models.TokenKindWin:
				wins++
				assert.Equal(t, WinPoints, tok.Points)
			case models.TokenKindLose:
				loses++
				assert.Equal(t, LosePoints, tok.Points)
			}
			total += tok.Points
		}
	}
	assert.Equal(t, WinTokens, wins)
	assert.Equal(t, LoseTokens, loses)
	assert.Equal(t, -24000, total)
	assert.Equal(t, RoundPoints, total)
	assert.Equal(t, 0, CountTaken(&b))
}

func TestShuffleVisitsEveryIndexOnce(t *testing.T) {
	r := &fixedRand{}
	tokens := make([]models.Token, SlotCount)
	for i := range tokens {
		tokens[i].Points = i
	}

	Shuffle(tokens, r)

	// Fisher–Yates draws from [0, i] for i = 15 down to 1.
	want := make([]int, 0, SlotCount-1)
	for i := SlotCount - 1; i > 0; i-- {
		want = append(want, i+1)
	}
	assert.Equal(t, want, r.calls)
	for i := range tokens {
		assert.Equal(t, i, tokens[i].Points)
	}
}

func TestShuffleIsRoughlyUniform(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	const trials = 20000
	winsAtSlot := make([]int, SlotCount)
	for n := 0; n < trials; n++ {
		b := Initialize(r)
		for i, key := range models.RowKeys {
			for j, tok := range *b.Row(key) {
				if tok.Kind == models.TokenKindWin {
					winsAtSlot[i*RowSize+j]++
				}
			}
		}
	}
	for slot, count := range winsAtSlot {
		ratio := float64(count) / trials
		assert.InDelta(t, 0.5, ratio, 0.03, "slot %d", slot)
	}
}

func TestTakeSlot(t *testing.T) {
	tests := []struct {
		name    string
		row     models.RowKey
		index   int
		prepare func(b *models.Board)
		wantErr error
	}{
		{name: "available slot", row: models.RowRuby, index: 2},
		{name: "unknown row", row: "emerald-row", index: 0, wantErr: ErrUnknownRow},
		{name: "negative index", row: models.RowDiamond, index: -1, wantErr: ErrSlotOutOfRange},
		{name: "index past row", row: models.RowTrophy, index: RowSize, wantErr: ErrSlotOutOfRange},
		{
			name:  "already taken",
			row:   models.RowGoldBar,
			index: 1,
			prepare: func(b *models.Board) {
				(*b.Row(models.RowGoldBar))[1].Available = false
			},
			wantErr: ErrSlotTaken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Initialize(rand.New(rand.NewPCG(3, 4)))
			if tt.prepare != nil {
				tt.prepare(&b)
			}
			before := b.Clone()
			beforeTaken := CountTaken(&b)

			tok, err := TakeSlot(&b, tt.row, tt.index)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, b)
				assert.Equal(t, beforeTaken, CountTaken(&b))
				return
			}
			require.NoError(t, err)
			assert.False(t, tok.Available)
			assert.Equal(t, (*before.Row(tt.row))[tt.index].Points, tok.Points)
			assert.Equal(t, beforeTaken+1, CountTaken(&b))
		})
	}
}

func TestFullRoundSum(t *testing.T) {
	b := Initialize(nil)
	sum := 0
	for _, key := range models.RowKeys {
		for i := 0; i < RowSize; i++ {
			tok, err := TakeSlot(&b, key, i)
			require.NoError(t, err)
			sum += tok.Points
		}
	}
	assert.Equal(t, RoundPoints, sum)
	assert.True(t, IsComplete(&b))
}

func TestValidate(t *testing.T) {
	b := Initialize(nil)
	require.NoError(t, Validate(&b))

	missing := b.Clone()
	missing.Trophy = nil
	assert.ErrorIs(t, Validate(&missing), ErrMalformedBoard)

	short := b.Clone()
	short.Ruby = short.Ruby[:3]
	assert.ErrorIs(t, Validate(&short), ErrMalformedBoard)
}
