// Package runstore keeps the flattened rows of every successful run so runs of
// the same leaderboard can be compared later.
package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"golfboard/lib/runstore/db"
	"golfboard/lib/scrapers/leaderboard"
	"time"
)

var ErrRunNotFound = errors.New("run not found")

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// Run is a single extraction of a leaderboard page.
type Run struct {
	ID        int64
	URL       string
	Event     leaderboard.EventMetadata
	StartedAt time.Time
	RowCount  int
	Rows      []leaderboard.FlattenedRow
}

// Push saves run and its rows in one transaction and returns its id.
func (s Store) Push(ctx context.Context, run Run) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	id, err := txqry.CreateRun(ctx, db.CreateRunParams{
		Url:       run.URL,
		Title:     run.Event.Title,
		Date:      run.Event.Date,
		StartedAt: run.StartedAt.Unix(),
		RowCount:  int64(len(run.Rows)),
	})
	if err != nil {
		return 0, fmt.Errorf("create run: %w", err)
	}

	for i, r := range run.Rows {
		err = txqry.CreateRunRow(ctx, db.RunRow{
			RunID:        id,
			Idx:          int64(i),
			PlayerName:   r.PlayerName,
			Score:        r.Score,
			DetailOption: r.DetailOption,
			Pars:         r.Pars,
			Scores:       r.Scores,
		})
		if err != nil {
			return 0, fmt.Errorf("create row %d: %w", i, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return id, nil
}

func runFromDB(r db.Run) Run {
	return Run{
		ID:  r.ID,
		URL: r.Url,
		Event: leaderboard.EventMetadata{
			Title: r.Title,
			Date:  r.Date,
		},
		StartedAt: time.Unix(r.StartedAt, 0),
		RowCount:  int(r.RowCount),
	}
}

// List returns the runs of url without their rows, newest first. An empty url
// lists every run.
func (s Store) List(ctx context.Context, url string) ([]Run, error) {
	rows, err := s.qry.ListRuns(ctx, url)
	if err != nil {
		return nil, err
	}
	runs := make([]Run, len(rows))
	for i, r := range rows {
		runs[i] = runFromDB(r)
	}
	return runs, nil
}

// Get returns the run with the given id and its rows in their original order.
func (s Store) Get(ctx context.Context, id int64) (Run, error) {
	r, err := s.qry.GetRun(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}
	run := runFromDB(r)

	rows, err := s.qry.GetRunRows(ctx, id)
	if err != nil {
		return Run{}, err
	}
	run.Rows = make([]leaderboard.FlattenedRow, len(rows))
	for i, row := range rows {
		run.Rows[i] = leaderboard.FlattenedRow{
			PlayerName:   row.PlayerName,
			Score:        row.Score,
			DetailOption: row.DetailOption,
			Pars:         row.Pars,
			Scores:       row.Scores,
		}
	}
	return run, nil
}
