package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/tokenboard/go/internal/board"
	"github.com/mcdev12/tokenboard/go/internal/dbconfig"
	"github.com/mcdev12/tokenboard/go/internal/models"
)

// Imports a file store snapshot (game-state.json) into the Postgres game_state table.
// Usage: go run ./go/internal/tools/import_snapshot [path]
func main() {
	path := "game-state.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load and check the JSON snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var state models.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}
	if err := board.Validate(&state.Board); err != nil {
		fmt.Fprintf(os.Stderr, "invalid board: %v\n", err)
		os.Exit(1)
	}
	if state.Version == 0 {
		state.Version = 1
	}
	snapshot, err := json.Marshal(&state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal snapshot: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	ctx := context.Background()
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Ensure the table, then upsert unless the database already holds a newer version
	if _, err := pool.Exec(ctx, `
            CREATE TABLE IF NOT EXISTS game_state (
              id       INTEGER PRIMARY KEY,
              version  BIGINT  NOT NULL,
              snapshot JSONB   NOT NULL,
              saved_at BIGINT  NOT NULL
            )
        `); err != nil {
		fmt.Fprintf(os.Stderr, "create table: %v\n", err)
		os.Exit(1)
	}

	cmdTag, err := pool.Exec(ctx, `
            INSERT INTO game_state (id, version, snapshot, saved_at)
            VALUES (1, $1, $2, $3)
            ON CONFLICT (id) DO UPDATE
            SET version = excluded.version, snapshot = excluded.snapshot, saved_at = excluded.saved_at
            WHERE game_state.version < excluded.version
        `,
		int64(state.Version), snapshot, time.Now().UnixMilli(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error upserting snapshot: %v\n", err)
		os.Exit(1)
	}

	if cmdTag.RowsAffected() == 1 {
		fmt.Printf("Imported snapshot version %d (%d players, %d tokens taken)\n",
			state.Version, len(state.Score), board.CountTaken(&state.Board))
	} else {
		fmt.Printf("Skipped: database already holds version %d or newer\n", state.Version)
	}
}
