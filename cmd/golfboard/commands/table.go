package commands

import (
	"fmt"
	"golfboard/lib/linker"
	"golfboard/lib/runstore"
	"golfboard/lib/scrapers/leaderboard"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func headerRow() table.Row {
	row := make(table.Row, len(leaderboard.Header))
	for i, h := range leaderboard.Header {
		row[i] = h
	}
	return row
}

func renderRows(out io.Writer, event leaderboard.EventMetadata, rows []leaderboard.FlattenedRow) {
	t := NewTable(out)
	t.SetTitle(fmt.Sprintf("%s (%s)", event.Title, event.Date))
	t.AppendHeader(headerRow())
	for _, r := range rows {
		t.AppendRow(table.Row{r.PlayerName, r.Score, r.DetailOption, r.Pars, r.Scores})
	}
	t.Render()
}

func renderRuns(out io.Writer, runs []runstore.Run) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"ID", "Started", "Event", "Date", "Rows", "URL"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Format(time.DateTime),
			r.Event.Title,
			r.Event.Date,
			r.RowCount,
			r.URL,
		})
	}
	t.Render()
}

func renderDiff(out io.Writer, before, after runstore.Run, diff linker.Diff) {
	t := NewTable(out)
	t.SetTitle(fmt.Sprintf("%s: run %d -> run %d", after.Event.Title, before.ID, after.ID))
	t.AppendHeader(table.Row{"Player", fmt.Sprintf("Score (%d)", before.ID), fmt.Sprintf("Score (%d)", after.ID), "Changed"})
	for _, c := range diff.Linked {
		name := c.After.Name
		if c.Before.Name != c.After.Name {
			name = fmt.Sprintf("%s (was %s, %.2f)", c.After.Name, c.Before.Name, c.Correlation)
		}
		changed := ""
		if c.Changed() {
			changed = "*"
		}
		t.AppendRow(table.Row{name, c.Before.Score, c.After.Score, changed})
	}
	for _, p := range diff.OnlyBefore {
		t.AppendRow(table.Row{p.Name, p.Score, "-", "removed"})
	}
	for _, p := range diff.OnlyAfter {
		t.AppendRow(table.Row{p.Name, "-", p.Score, "added"})
	}
	t.Render()
}
