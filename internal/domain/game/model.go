package game

import "time"

const (
	StatusPregame    = "PREGAME"
	StatusInProgress = "IN_PROGRESS"
	StatusFinal      = "FINAL"
	StatusInvalid    = "INVALID"
)

// TieTeamID is the sentinel winner recorded when a game ends level. Survivor
// elimination treats a tie as a loss for both sides.
const TieTeamID = "TIE"

// Game is one scheduled matchup. Within a week, Sequence values form a
// contiguous 1..count permutation; games are never deleted, only moved to a
// different week/sequence by schedule healing.
type Game struct {
	ID            string
	Week          int
	Sequence      int
	HomeTeamID    string
	VisitorTeamID string
	KickoffAt     time.Time
	Status        string
	Quarter       int
	HomeScore     *int
	VisitorScore  *int
	WinnerTeamID  string
}

func (g Game) IsFinal() bool {
	return g.Status == StatusFinal
}

// HasDecision reports whether a final game produced a winner or the tie
// sentinel.
func (g Game) HasDecision() bool {
	return g.IsFinal() && g.WinnerTeamID != ""
}

// LosingTeamIDs returns the sides eliminated by this game's result. A tie
// returns both teams; an undecided game returns nothing.
func (g Game) LosingTeamIDs() []string {
	if !g.HasDecision() {
		return nil
	}
	if g.WinnerTeamID == TieTeamID {
		return []string{g.HomeTeamID, g.VisitorTeamID}
	}
	if g.WinnerTeamID == g.HomeTeamID {
		return []string{g.VisitorTeamID}
	}
	return []string{g.HomeTeamID}
}

// PairKey identifies a matchup by its teams, ignoring kickoff. Schedule
// healing matches on team pair because kickoff is exactly the field the feed
// rewrites.
func (g Game) PairKey() string {
	return g.HomeTeamID + "@" + g.VisitorTeamID
}

func PairKeyFor(homeTeamID, visitorTeamID string) string {
	return homeTeamID + "@" + visitorTeamID
}
