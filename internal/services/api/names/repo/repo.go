// Package repo persists the name lookup journal in postgres and mirrors
// compact events to clickhouse
package repo

import (
	"context"

	"ensnorm/internal/platform/store"
)

// LookupRow is one journal row
type LookupRow struct {
	ID         string
	Input      string
	Normalized string
	ErrorCode  string
	CreatedAt  string
}

// Event is the compact analytics row mirrored to clickhouse
type Event struct {
	ID       string
	InputLen int32
	Outcome  string // "ok" | "error"
	Code     string
}

// Repo defines the journal contract for names
type Repo interface {
	RecordLookup(ctx context.Context, row LookupRow) error
	RecordEvent(ctx context.Context, ev Event) error
	Recent(ctx context.Context, limit int) ([]LookupRow, error)
}

// New binds a Repo over the store seams; nil seams degrade to no-ops so the
// API keeps answering without its journal
func New(db store.TxRunner, ch store.Clickhouse) Repo {
	return &queries{db: db, ch: ch}
}

type queries struct {
	db store.TxRunner
	ch store.Clickhouse
}

func (r *queries) RecordLookup(ctx context.Context, row LookupRow) error {
	if r.db == nil {
		return nil
	}
	const sql = `
insert into name_lookups (id, input, normalized, error_code)
values ($1, $2, nullif($3, ''), nullif($4, ''))
`
	_, err := r.db.Exec(ctx, sql, row.ID, row.Input, row.Normalized, row.ErrorCode)
	return err
}

func (r *queries) RecordEvent(ctx context.Context, ev Event) error {
	if r.ch == nil {
		return nil
	}
	return r.ch.Insert(ctx, "name_events",
		[]string{"id", "input_len", "outcome", "code"},
		[][]any{{ev.ID, ev.InputLen, ev.Outcome, ev.Code}},
	)
}

func (r *queries) Recent(ctx context.Context, limit int) ([]LookupRow, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const sql = `
select id::text, input, coalesce(normalized, ''), coalesce(error_code, ''), created_at::text
from name_lookups
order by created_at desc
limit $1
`
	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LookupRow
	for rows.Next() {
		var lr LookupRow
		if err := rows.Scan(&lr.ID, &lr.Input, &lr.Normalized, &lr.ErrorCode, &lr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}
