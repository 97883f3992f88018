// Package store persists fetched flood data: a Postgres store for
// normalized STN records and a SQLite read-through cache for data
// dictionary CSVs.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/waterscope/floodwatch/pkg/stn"
)

// Pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresStore writes normalized STN records to Postgres.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore over an existing pool.
func NewPostgres(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Connect opens a pgx pool for the given database URL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "store: connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "store: ping postgres")
	}
	return pool, nil
}

const postgresMigration = `
CREATE SCHEMA IF NOT EXISTS flood;

CREATE TABLE IF NOT EXISTS flood.stn_records (
	id         BIGSERIAL PRIMARY KEY,
	data_type  TEXT NOT NULL,
	fetched_at TIMESTAMPTZ NOT NULL,
	payload    JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stn_records_data_type ON flood.stn_records(data_type);
CREATE INDEX IF NOT EXISTS idx_stn_records_fetched_at ON flood.stn_records(fetched_at);
`

// Migrate creates the flood schema and tables.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "store: migrate")
	}
	return nil
}

// SaveRecords bulk-loads a fetched batch via the COPY protocol, one row
// per record with a shared fetch timestamp. Returns rows written.
func (s *PostgresStore) SaveRecords(ctx context.Context, dt stn.DataType, records []stn.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	fetchedAt := time.Now().UTC()
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return 0, eris.Wrap(err, "store: marshal record")
		}
		rows = append(rows, []any{dt.String(), fetchedAt, payload})
	}

	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"flood", "stn_records"},
		[]string{"data_type", "fetched_at", "payload"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, eris.Wrap(err, "store: COPY INTO flood.stn_records")
	}
	return n, nil
}
