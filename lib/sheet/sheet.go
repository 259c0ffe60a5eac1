// Package sheet writes flattened leaderboards into a spreadsheet.
package sheet

import (
	"fmt"
	"golfboard/lib/scrapers/leaderboard"
)

// Name is the name of the only sheet in a written workbook.
const Name = "Golf Scores"

// Sink receives rows in order and persists them once every row is known.
type Sink interface {
	AppendRow(cells ...string) error
	Save(path string) error
}

// WriteError is returned when a sink fails to persist its rows.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %s", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteLeaderboard emits the event metadata, a blank separator row, the header
// and then every row.
func WriteLeaderboard(sink Sink, event leaderboard.EventMetadata, rows []leaderboard.FlattenedRow) error {
	err := sink.AppendRow("Event Title", event.Title)
	if err != nil {
		return err
	}
	err = sink.AppendRow("Event Date", event.Date)
	if err != nil {
		return err
	}
	err = sink.AppendRow()
	if err != nil {
		return err
	}
	err = sink.AppendRow(leaderboard.Header...)
	if err != nil {
		return err
	}
	for _, r := range rows {
		err = sink.AppendRow(r.Cells()...)
		if err != nil {
			return err
		}
	}
	return nil
}

// MemorySink keeps rows in memory, Save only records the path.
type MemorySink struct {
	Rows  [][]string
	Saved []string
}

func (m *MemorySink) AppendRow(cells ...string) error {
	m.Rows = append(m.Rows, append([]string{}, cells...))
	return nil
}

func (m *MemorySink) Save(path string) error {
	m.Saved = append(m.Saved, path)
	return nil
}
