package linker

import (
	"golfboard/lib/scrapers/leaderboard"
)

type Player struct {
	Name  string
	Score string
}

// Players returns every distinct player of rows with its score, in the order
// the players first appear.
func Players(rows []leaderboard.FlattenedRow) []Player {
	seen := make(map[string]struct{})
	var players []Player
	for _, r := range rows {
		_, ok := seen[r.PlayerName]
		if ok {
			continue
		}
		seen[r.PlayerName] = struct{}{}
		players = append(players, Player{Name: r.PlayerName, Score: r.Score})
	}
	return players
}

type ScoreChange struct {
	Before      Player
	After       Player
	Correlation float64
}

func (c ScoreChange) Changed() bool {
	return c.Before.Score != c.After.Score
}

type Diff struct {
	// Linked is in the order of the players after.
	Linked     []ScoreChange
	OnlyBefore []Player
	OnlyAfter  []Player
}

// DiffPlayers links the players of two runs by name and reports how their
// scores moved.
func DiffPlayers(before, after []Player, minCorrelation float64) Diff {
	beforeByName := make(map[string]Player, len(before))
	beforeNames := make([]string, len(before))
	for i, p := range before {
		beforeByName[p.Name] = p
		beforeNames[i] = p.Name
	}
	afterNames := make([]string, len(after))
	for i, p := range after {
		afterNames[i] = p.Name
	}

	linkedBefore := make(map[string]ImplicitLink)
	linkedAfter := make(map[string]ImplicitLink)
	for _, l := range CreateImplicitLinks(beforeNames, afterNames, minCorrelation) {
		linkedBefore[l.Left] = l
		linkedAfter[l.Right] = l
	}

	var diff Diff
	for _, p := range after {
		l, ok := linkedAfter[p.Name]
		if !ok {
			diff.OnlyAfter = append(diff.OnlyAfter, p)
			continue
		}
		diff.Linked = append(diff.Linked, ScoreChange{
			Before:      beforeByName[l.Left],
			After:       p,
			Correlation: l.Correlation,
		})
	}
	for _, p := range before {
		_, ok := linkedBefore[p.Name]
		if !ok {
			diff.OnlyBefore = append(diff.OnlyBefore, p)
		}
	}
	return diff
}
