package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mcdev12/tokenboard/go/internal/models"
	"github.com/mcdev12/tokenboard/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"
)

// Dialect selects the driver and DDL used by SQLStore.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// snapshotRowID is the key of the only row in game_state; saves overwrite it in place.
const snapshotRowID = 1

var schema = map[Dialect][]string{
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS game_state (
			id        INTEGER PRIMARY KEY,
			version   BIGINT  NOT NULL,
			snapshot  JSONB   NOT NULL,
			saved_at  BIGINT  NOT NULL
		)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS game_state (
			id        INTEGER PRIMARY KEY,
			version   INTEGER NOT NULL,
			snapshot  BLOB    NOT NULL,
			saved_at  INTEGER NOT NULL
		)`,
	},
}

// Both drivers accept $n placeholders.
const (
	upsertSnapshotQuery = `
		INSERT INTO game_state (id, version, snapshot, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET version = excluded.version, snapshot = excluded.snapshot, saved_at = excluded.saved_at`
	selectSnapshotQuery = `SELECT snapshot FROM game_state WHERE id = $1`
)

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type queries struct {
	db dbtx
}

func newQueries(tx *sql.Tx) *queries {
	return &queries{db: tx}
}

func (q *queries) upsertSnapshot(ctx context.Context, version uint64, snapshot pqtype.NullRawMessage, savedAt int64) error {
	_, err := q.db.ExecContext(ctx, upsertSnapshotQuery, snapshotRowID, int64(version), snapshot, savedAt)
	return err
}

func (q *queries) getSnapshot(ctx context.Context) (pqtype.NullRawMessage, error) {
	var snapshot pqtype.NullRawMessage
	err := q.db.QueryRowContext(ctx, selectSnapshotQuery, snapshotRowID).Scan(&snapshot)
	return snapshot, err
}

// SQLStore keeps the snapshot as a single row in a Postgres or SQLite database.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	q       *queries
}

// NewSQLStore opens the database, verifies the connection and ensures the schema exists.
func NewSQLStore(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	ddl, ok := schema[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == DialectSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	err = sqlutil.Run(ctx, db, newQueries, func(q *queries) error {
		for _, stmt := range ddl {
			if _, err := q.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("dialect", string(dialect)).Msg("snapshot database ready")

	return &SQLStore{
		db:      db,
		dialect: dialect,
		q:       &queries{db: db},
	}, nil
}

func (s *SQLStore) Save(ctx context.Context, state *models.GameState) error {
	now := time.Now()
	stamp(state, now)

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return sqlutil.Run(ctx, s.db, newQueries, func(q *queries) error {
		if err := q.upsertSnapshot(ctx, state.Version, sqlutil.ToNullRawMessage(data), now.UnixMilli()); err != nil {
			return fmt.Errorf("failed to upsert snapshot: %w", err)
		}
		return nil
	})
}

func (s *SQLStore) Load(ctx context.Context) (*models.GameState, error) {
	snapshot, err := s.q.getSnapshot(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	data := sqlutil.FromNullRawMessage(snapshot)
	if data == nil {
		return nil, ErrNotFound
	}

	var state models.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &state, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
