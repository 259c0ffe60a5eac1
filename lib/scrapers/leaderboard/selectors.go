package leaderboard

// Selectors describes the structure of a leaderboard page. They are kept in one
// place because the page markup changes without notice, update these when
// scraping breaks.
type Selectors struct {
	EventTitle string `json:"event_title"`
	EventDate  string `json:"event_date"`

	// ExpandableRow matches every player row whose scorecard is hidden until clicked.
	ExpandableRow string `json:"expandable_row"`
	// PlayerName and Score are scoped to the expandable row.
	PlayerName string `json:"player_name"`
	Score      string `json:"score"`

	// DetailControl is the round dropdown, looked up on the whole page since only
	// the expanded row renders one.
	DetailControl string `json:"detail_control"`
	ParCells      string `json:"par_cells"`
	ScoreCells    string `json:"score_cells"`

	// ExpandedRow optionally matches a row that is currently expanded, when set
	// it is used to verify the page is collapsed before and after every row.
	ExpandedRow string `json:"expanded_row"`
	// DetailReady optionally matches an element that only exists once the
	// scorecard has rendered for the selected option.
	DetailReady string `json:"detail_ready"`
}

var DefaultSelectors = Selectors{
	EventTitle: ".Leaderboard__Event__Title",
	EventDate:  ".Leaderboard__Event__Date",

	ExpandableRow: ".PlayerRow__Overview--expandable",
	PlayerName:    ".AnchorLink.leaderboard_player_name",
	Score:         ".Table__TD:nth-child(4)",

	DetailControl: ".Scorecards__Dropdown .dropdown__select",
	ParCells:      `.Table__TR--sm.Table__even[data-idx="0"] .Table__TD .Scorecard__Score`,
	ScoreCells:    `.Table__TR--sm.Table__even[data-idx="1"] .Table__TD .Scorecard__Score`,
}

// DetailOptions matches the options of the detail control.
func (s Selectors) DetailOptions() string {
	return s.DetailControl + " option"
}
