package sqlite

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type SwitcherState struct {
	LastTime    float64
	Layouts     string
	CurFreq     int64
	CurAll      int64
	SumTime     float64
	Counter     int64
	MaxDuration float64
}

const getState = `-- name: GetState :one
select last_time, layouts, cur_freq, cur_all, sum_time, counter, max_duration
from switcher_state
where id = 1
`

func (q *Queries) GetState(ctx context.Context) (SwitcherState, error) {
	row := q.db.QueryRowContext(ctx, getState)
	var i SwitcherState
	err := row.Scan(
		&i.LastTime,
		&i.Layouts,
		&i.CurFreq,
		&i.CurAll,
		&i.SumTime,
		&i.Counter,
		&i.MaxDuration,
	)
	return i, err
}

const setState = `-- name: SetState :exec
insert into switcher_state (id, last_time, layouts, cur_freq, cur_all, sum_time, counter, max_duration)
values (1, ?, ?, ?, ?, ?, ?, ?)
on conflict (id) do update set
    last_time    = excluded.last_time,
    layouts      = excluded.layouts,
    cur_freq     = excluded.cur_freq,
    cur_all      = excluded.cur_all,
    sum_time     = excluded.sum_time,
    counter      = excluded.counter,
    max_duration = excluded.max_duration
`

type SetStateParams struct {
	LastTime    float64
	Layouts     string
	CurFreq     int64
	CurAll      int64
	SumTime     float64
	Counter     int64
	MaxDuration float64
}

func (q *Queries) SetState(ctx context.Context, arg SetStateParams) error {
	_, err := q.db.ExecContext(ctx, setState,
		arg.LastTime,
		arg.Layouts,
		arg.CurFreq,
		arg.CurAll,
		arg.SumTime,
		arg.Counter,
		arg.MaxDuration,
	)
	return err
}
