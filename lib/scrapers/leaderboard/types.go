package leaderboard

type EventMetadata struct {
	Title string
	Date  string
}

// PlayerRecord is one leaderboard row with the scorecard revealed for each
// option of its detail control.
//
// len(DetailOptions) == len(Pars) == len(Scores), Pars[i] and Scores[i] are the
// par and score lines rendered while DetailOptions[i] was selected.
type PlayerRecord struct {
	PlayerName    string
	Score         string
	DetailOptions []string
	Pars          [][]string
	Scores        [][]string
}

type Leaderboard struct {
	URL     string
	Event   EventMetadata
	Players []PlayerRecord
}

// FlattenedRow is one output row of the scores table.
type FlattenedRow struct {
	PlayerName   string
	Score        string
	DetailOption string
	Pars         string
	Scores       string
}

// Header is the header row of the scores table, in the order of FlattenedRow.Cells.
var Header = []string{"Player Name", "Score", "Dropdown Value", "Pars", "Scores"}

func (r FlattenedRow) Cells() []string {
	return []string{r.PlayerName, r.Score, r.DetailOption, r.Pars, r.Scores}
}
