package board

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/mcdev12/tokenboard/go/internal/models"
)

const (
	RowCount    = 4
	RowSize     = 4
	SlotCount   = RowCount * RowSize
	WinTokens   = 8
	LoseTokens  = 8
	WinPoints   = 20000
	LosePoints  = -23000
	RoundPoints = WinTokens*WinPoints + LoseTokens*LosePoints
)

var (
	// ErrUnknownRow is returned when a row key does not name a board row
	ErrUnknownRow = errors.New("unknown row")
	// ErrSlotOutOfRange is returned when a slot index falls outside its row
	ErrSlotOutOfRange = errors.New("slot index out of range")
	// ErrSlotTaken is returned when a slot has already been claimed this round
	ErrSlotTaken = errors.New("slot already taken")
	// ErrMalformedBoard is returned when a board does not have four rows of four tokens
	ErrMalformedBoard = errors.New("malformed board")
)

// Rand is the source of randomness used by the shuffle.
type Rand interface {
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from the process-wide math/rand/v2 generator.
var DefaultRand Rand = globalRand{}

// Initialize builds a freshly shuffled board with every slot available.
func Initialize(r Rand) models.Board {
	if r == nil {
		r = DefaultRand
	}

	tokens := make([]models.Token, 0, SlotCount)
	for i := 0; i < WinTokens; i++ {
		tokens = append(tokens, models.Token{Kind: models.TokenKindWin, Points: WinPoints})
	}
	for i := 0; i < LoseTokens; i++ {
		tokens = append(tokens, models.Token{Kind: models.TokenKindLose, Points: LosePoints})
	}
	Shuffle(tokens, r)

	var b models.Board
	for i, key := range models.RowKeys {
		row := make(models.Row, RowSize)
		for j := range row {
			t := tokens[i*RowSize+j]
			t.Symbol = models.RowSymbols[key]
			t.Available = true
			row[j] = t
		}
		*b.Row(key) = row
	}
	return b
}

// Shuffle permutes tokens in place with Fisher–Yates.
func Shuffle(tokens []models.Token, r Rand) {
	for i := len(tokens) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
}

// TakeSlot marks a slot unavailable and returns the token it held.
// A rejected take leaves the board untouched.
func TakeSlot(b *models.Board, key models.RowKey, index int) (models.Token, error) {
	row := b.Row(key)
	if row == nil {
		return models.Token{}, fmt.Errorf("%w: %q", ErrUnknownRow, key)
	}
	if index < 0 || index >= len(*row) {
		return models.Token{}, fmt.Errorf("%w: %s[%d]", ErrSlotOutOfRange, key, index)
	}
	slot := &(*row)[index]
	if !slot.Available {
		return models.Token{}, fmt.Errorf("%w: %s[%d]", ErrSlotTaken, key, index)
	}
	slot.Available = false
	return *slot, nil
}

// CountTaken returns the number of unavailable slots on the board.
func CountTaken(b *models.Board) int {
	taken := 0
	for _, key := range models.RowKeys {
		for _, t := range *b.Row(key) {
			if !t.Available {
				taken++
			}
		}
	}
	return taken
}

// IsComplete reports whether every slot has been claimed.
func IsComplete(b *models.Board) bool {
	return CountTaken(b) >= SlotCount
}

// Validate checks that all four rows are present with exactly four tokens each.
func Validate(b *models.Board) error {
	for _, key := range models.RowKeys {
		row := b.Row(key)
		if *row == nil {
			return fmt.Errorf("%w: missing %s", ErrMalformedBoard, key)
		}
		if len(*row) != RowSize {
			return fmt.Errorf("%w: %s has %d tokens", ErrMalformedBoard, key, len(*row))
		}
	}
	return nil
}
