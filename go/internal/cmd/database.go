package main

import (
	"context"
	"fmt"

	"github.com/mcdev12/tokenboard/go/internal/dbconfig"
	"github.com/mcdev12/tokenboard/go/internal/store"
	"github.com/rs/zerolog/log"
)

// storeURL resolves the configured store location. The bare value "postgres" selects
// the database described by the DB_* variables.
func storeURL(raw string) string {
	if raw == "postgres" {
		return dbconfig.NewConfigFromEnv().DSN()
	}
	return raw
}

func setupStore(ctx context.Context, config *Config) (store.Store, error) {
	url := storeURL(config.Store.URL)
	s, err := store.Open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	log.Info().Str("store", fmt.Sprintf("%T", s)).Msg("state store ready")
	return s, nil
}
