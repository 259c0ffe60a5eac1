package db

import (
	"context"
)

type Run struct {
	ID        int64
	Url       string
	Title     string
	Date      string
	StartedAt int64
	RowCount  int64
}

type RunRow struct {
	RunID        int64
	Idx          int64
	PlayerName   string
	Score        string
	DetailOption string
	Pars         string
	Scores       string
}

const createRun = `
insert into runs (url, title, date, started_at, row_count)
values (?, ?, ?, ?, ?)
returning id
`

type CreateRunParams struct {
	Url       string
	Title     string
	Date      string
	StartedAt int64
	RowCount  int64
}

func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createRun,
		arg.Url,
		arg.Title,
		arg.Date,
		arg.StartedAt,
		arg.RowCount,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createRunRow = `
insert into run_rows (run_id, idx, player_name, score, detail_option, pars, scores)
values (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateRunRow(ctx context.Context, arg RunRow) error {
	_, err := q.db.ExecContext(ctx, createRunRow,
		arg.RunID,
		arg.Idx,
		arg.PlayerName,
		arg.Score,
		arg.DetailOption,
		arg.Pars,
		arg.Scores,
	)
	return err
}

const getRun = `
select id, url, title, date, started_at, row_count from runs
where id = ?
`

func (q *Queries) GetRun(ctx context.Context, id int64) (Run, error) {
	row := q.db.QueryRowContext(ctx, getRun, id)
	var i Run
	err := row.Scan(
		&i.ID,
		&i.Url,
		&i.Title,
		&i.Date,
		&i.StartedAt,
		&i.RowCount,
	)
	return i, err
}

const listRuns = `
select id, url, title, date, started_at, row_count from runs
where (?1 = '' or url = ?1)
order by started_at desc, id desc
`

func (q *Queries) ListRuns(ctx context.Context, url string) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, url)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var i Run
		if err := rows.Scan(
			&i.ID,
			&i.Url,
			&i.Title,
			&i.Date,
			&i.StartedAt,
			&i.RowCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRunRows = `
select run_id, idx, player_name, score, detail_option, pars, scores from run_rows
where run_id = ?
order by idx asc
`

func (q *Queries) GetRunRows(ctx context.Context, runID int64) ([]RunRow, error) {
	rows, err := q.db.QueryContext(ctx, getRunRows, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RunRow
	for rows.Next() {
		var i RunRow
		if err := rows.Scan(
			&i.RunID,
			&i.Idx,
			&i.PlayerName,
			&i.Score,
			&i.DetailOption,
			&i.Pars,
			&i.Scores,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
