package leaderboard

import "strings"

// NoAdditionalData fills the detail columns of a player without a detail control.
const NoAdditionalData = "No additional data"

const valueSeparator = ", "

// Flatten expands every player into one row per detail option, or a single
// sentinel row if the player has none. Player order and option order are kept.
func Flatten(players []PlayerRecord) []FlattenedRow {
	var rows []FlattenedRow
	for _, p := range players {
		if len(p.DetailOptions) == 0 {
			rows = append(rows, FlattenedRow{
				PlayerName:   p.PlayerName,
				Score:        p.Score,
				DetailOption: NoAdditionalData,
				Pars:         NoAdditionalData,
				Scores:       NoAdditionalData,
			})
			continue
		}
		for i, option := range p.DetailOptions {
			rows = append(rows, FlattenedRow{
				PlayerName:   p.PlayerName,
				Score:        p.Score,
				DetailOption: option,
				Pars:         strings.Join(p.Pars[i], valueSeparator),
				Scores:       strings.Join(p.Scores[i], valueSeparator),
			})
		}
	}
	return rows
}
