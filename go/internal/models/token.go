package models

// TokenKind defines whether a token rewards or penalizes the player taking it.
type TokenKind string

const (
	TokenKindWin  TokenKind = "win"
	TokenKindLose TokenKind = "lose"
)

// Token is a single slot on the board.
type Token struct {
	Kind      TokenKind `json:"type"`
	Points    int       `json:"points"`
	Symbol    string    `json:"emoji"`
	Available bool      `json:"available"`
}

// RowKey identifies one of the four board rows.
type RowKey string

const (
	RowDiamond RowKey = "diamond-row"
	RowGoldBar RowKey = "gold-row"
	RowRuby    RowKey = "ruby-row"
	RowTrophy  RowKey = "trophy-row"
)

// RowKeys lists the rows in board order.
var RowKeys = []RowKey{RowDiamond, RowGoldBar, RowRuby, RowTrophy}

// RowSymbols maps each row to the glyph its tokens carry.
var RowSymbols = map[RowKey]string{
	RowDiamond: "💎",
	RowGoldBar: "💰",
	RowRuby:    "🔴",
	RowTrophy:  "🏆",
}

// Row is an ordered group of tokens under one row key.
type Row []Token

// Board holds the four rows of a round. The JSON field names match the
// snapshot format the web client reads.
type Board struct {
	Diamond Row `json:"diamondStates"`
	GoldBar Row `json:"goldBarStates"`
	Ruby    Row `json:"rubyStates"`
	Trophy  Row `json:"trophyStates"`
}

// Row returns a pointer to the row stored under key, or nil for an unknown key.
func (b *Board) Row(key RowKey) *Row {
	switch key {
	case RowDiamond:
		return &b.Diamond
	case RowGoldBar:
		return &b.GoldBar
	case RowRuby:
		return &b.Ruby
	case RowTrophy:
		return &b.Trophy
	default:
		return nil
	}
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	return Board{
		Diamond: cloneRow(b.Diamond),
		GoldBar: cloneRow(b.GoldBar),
		Ruby:    cloneRow(b.Ruby),
		Trophy:  cloneRow(b.Trophy),
	}
}

func cloneRow(r Row) Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	copy(out, r)
	return out
}
