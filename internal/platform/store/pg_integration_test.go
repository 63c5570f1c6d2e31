//go:build integration_pg

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("start postgres: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		cancel()
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		cancel()
		t.Fatalf("mapped port: %v", err)
	}
	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
}

func TestStoreAgainstPostgres(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx := context.Background()
	st, err := Open(ctx, Config{
		PG: PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = st.Close(ctx) }()

	if err := st.Guard(ctx); err != nil {
		t.Fatalf("Guard: %v", err)
	}

	const schema = `
create table name_lookups (
  id uuid primary key,
  input text not null,
  normalized text,
  error_code text,
  created_at timestamptz not null default now()
)`
	if _, err := st.PG.Exec(ctx, schema); err != nil {
		t.Fatalf("create table: %v", err)
	}

	const insert = `
insert into name_lookups (id, input, normalized, error_code)
values ($1, $2, nullif($3, ''), nullif($4, ''))`
	if _, err := st.PG.Exec(ctx, insert,
		"3e2cf1a6-18a1-4f74-b4f6-000000000001", "Nick.ETH", "nick.eth", ""); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.PG.Exec(ctx, insert,
		"3e2cf1a6-18a1-4f74-b4f6-000000000002", "a_b.eth", "", "UNDERSCORE"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := st.PG.Query(ctx,
		`select input, coalesce(normalized, ''), coalesce(error_code, '') from name_lookups order by input`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	type row struct{ input, normalized, code string }
	var got []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.input, &r.normalized, &r.code); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, r)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %+v", got)
	}
	if got[0] != (row{"Nick.ETH", "nick.eth", ""}) || got[1] != (row{"a_b.eth", "", "UNDERSCORE"}) {
		t.Fatalf("rows = %+v", got)
	}

	// transactions roll back on error
	sentinel := fmt.Errorf("abort")
	err = st.PG.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, insert,
			"3e2cf1a6-18a1-4f74-b4f6-000000000003", "x.eth", "x.eth", ""); err != nil {
			return err
		}
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("Tx err = %v", err)
	}
	var n int
	if err := st.PG.QueryRow(ctx, `select count(*) from name_lookups`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("rollback failed, count = %d", n)
	}
}
