package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneSkipsNilBets(t *testing.T) {
	state := &GameState{
		Bets: map[string]*Bet{
			"x":  nil,
			"b1": {ID: "b1", Amount: 100, Status: BetStatusActive},
		},
	}

	var out *GameState
	require.NotPanics(t, func() { out = state.Clone() })
	assert.Len(t, out.Bets, 1)

	out.Bets["b1"].Amount = 1
	assert.Equal(t, 100, state.Bets["b1"].Amount, "clone must not share bets")
}
