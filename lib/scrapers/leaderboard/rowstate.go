package leaderboard

import (
	"errors"
	"fmt"
)

// ErrRowStillExpanded is returned when a row is found expanded where the page
// is required to be fully collapsed.
var ErrRowStillExpanded = errors.New("row still expanded")

const collapsed = -1

// rowState tracks which row the scraper has expanded. The detail control is
// looked up on the whole page, so reading it is only correct while at most one
// row is expanded.
type rowState struct {
	expanded int
}

func newRowState() *rowState {
	return &rowState{expanded: collapsed}
}

func (s *rowState) isExpanded() bool {
	return s.expanded != collapsed
}

func (s *rowState) expand(row int) error {
	if s.isExpanded() {
		return fmt.Errorf("expand row %d: %w: row %d", row, ErrRowStillExpanded, s.expanded)
	}
	s.expanded = row
	return nil
}

func (s *rowState) collapse(row int) error {
	if s.expanded != row {
		return fmt.Errorf("collapse row %d: state is %s", row, s)
	}
	s.expanded = collapsed
	return nil
}

func (s *rowState) String() string {
	if !s.isExpanded() {
		return "Collapsed"
	}
	return fmt.Sprintf("Expanded(%d)", s.expanded)
}
