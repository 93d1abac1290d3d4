package models

// TakenSlot records one claimed board slot.
type TakenSlot struct {
	Row   RowKey `json:"rowId"`
	Index int    `json:"index"`
}

// Scores maps player identifiers to balances.
type Scores map[string]int

// TakenLog maps player identifiers to the slots they claimed this round.
type TakenLog map[string][]TakenSlot

// GameState is the aggregate persisted as a single snapshot and sent to clients.
// The board rows are embedded so they serialize at the top level of the document.
type GameState struct {
	Board
	Score             Scores          `json:"score"`
	TakenRowsByPlayer TakenLog        `json:"takenRowsByPlayer"`
	TakenCount        int             `json:"takenCount"`
	CurrentPlayer     string          `json:"currentPlayer"`
	TimeLeft          int             `json:"timeLeft"`
	Version           uint64          `json:"version"`
	Timestamp         int64           `json:"timestamp"` // unix millis of the last accepted mutation
	Bets              map[string]*Bet `json:"bets,omitempty"`
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := &GameState{
		Board:         s.Board.Clone(),
		TakenCount:    s.TakenCount,
		CurrentPlayer: s.CurrentPlayer,
		TimeLeft:      s.TimeLeft,
		Version:       s.Version,
		Timestamp:     s.Timestamp,
	}
	if s.Score != nil {
		out.Score = make(Scores, len(s.Score))
		for k, v := range s.Score {
			out.Score[k] = v
		}
	}
	if s.TakenRowsByPlayer != nil {
		out.TakenRowsByPlayer = make(TakenLog, len(s.TakenRowsByPlayer))
		for k, v := range s.TakenRowsByPlayer {
			slots := make([]TakenSlot, len(v))
			copy(slots, v)
			out.TakenRowsByPlayer[k] = slots
		}
	}
	if s.Bets != nil {
		out.Bets = make(map[string]*Bet, len(s.Bets))
		for k, v := range s.Bets {
			if v == nil {
				continue
			}
			b := *v
			out.Bets[k] = &b
		}
	}
	return out
}
