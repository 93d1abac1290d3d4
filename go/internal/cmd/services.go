package main

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/tokenboard/go/clients/football_data_client"
	"github.com/mcdev12/tokenboard/go/internal/auth"
	"github.com/mcdev12/tokenboard/go/internal/events"
	"github.com/mcdev12/tokenboard/go/internal/game"
	"github.com/mcdev12/tokenboard/go/internal/gateway"
	"github.com/mcdev12/tokenboard/go/internal/matches"
	"github.com/mcdev12/tokenboard/go/internal/store"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Store     store.Store
	Game      *game.Manager
	Gateway   *gateway.Service
	Matches   *matches.Service
	Snapshots *game.SnapshotWorker
	Mirror    *events.JetStreamPublisher // nil unless NATS_URL is set

	pollMatches bool
}

func setupServices(ctx context.Context, config *Config) (*Services, error) {
	// Store → broadcasters → game manager → gateway and match feed
	clock := clockwork.NewRealClock()

	st, err := setupStore(ctx, config)
	if err != nil {
		return nil, err
	}

	connections := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	fanout := events.Fanout{connections}

	var mirror *events.JetStreamPublisher
	if config.NATS.URL != "" {
		jsConfig := events.DefaultJetStreamConfig()
		jsConfig.URL = config.NATS.URL
		mirror, err = events.NewJetStreamPublisher(ctx, jsConfig)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to create event mirror: %w", err)
		}
		fanout = append(fanout, mirror)
		log.Info().Str("nats_url", config.NATS.URL).Msg("mirroring events to JetStream")
	}

	manager, err := game.NewManager(ctx, game.Options{
		Store:          st,
		Broadcaster:    fanout,
		Clock:          clock,
		DefaultPlayers: config.Game.DefaultPlayers,
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to start game manager: %w", err)
	}

	if config.AdminKey == "" {
		log.Warn().Msg("ADMIN_KEY not set, admin endpoints are disabled")
	}
	if config.ResetSecret == "" {
		log.Warn().Msg("RESET_SECRET not set, client resets are disabled")
	}

	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.AdminAuth = auth.NewSharedSecret(config.AdminKey)
	gatewayConfig.ResetAuth = auth.NewSharedSecret(config.ResetSecret)
	gatewayConfig.Clock = clock
	gw := gateway.NewService(gatewayConfig, connections, manager)

	feed := football_data_client.NewFootballDataClient(config.Matches.APIURL, config.FootballAPIToken)
	feed.SetTimeout(config.Matches.FetchTimeout)
	matchService := matches.NewService(matches.Options{
		Feed:         feed,
		Broadcaster:  fanout,
		Clock:        clock,
		Competitions: config.Matches.Competitions,
		PollInterval: config.Matches.PollInterval,
		FetchTimeout: config.Matches.FetchTimeout,
	})
	if config.FootballAPIToken == "" {
		log.Warn().Msg("FOOTBALL_API_TOKEN not set, match polling is disabled")
	}

	snapshots := game.NewSnapshotWorker(game.SnapshotWorkerOptions{
		Persister: manager,
		Clock:     clock,
		Interval:  config.Game.SnapshotInterval,
	})

	return &Services{
		Store:       st,
		Game:        manager,
		Gateway:     gw,
		Matches:     matchService,
		Snapshots:   snapshots,
		Mirror:      mirror,
		pollMatches: config.FootballAPIToken != "",
	}, nil
}

// start launches the background workers. They stop when ctx is cancelled.
func (s *Services) start(ctx context.Context) {
	go func() {
		if err := s.Gateway.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway service failed")
		}
	}()
	go s.Snapshots.Start(ctx)
	if s.pollMatches {
		go s.Matches.Start(ctx)
	}
	if s.Mirror != nil {
		go s.Mirror.Start(ctx)
	}
}

// close persists the final state and releases the store and NATS connection.
func (s *Services) close(ctx context.Context) {
	if err := s.Game.Persist(ctx); err != nil {
		log.Error().Err(err).Msg("failed to persist final game state")
	}
	if err := s.Store.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close state store")
	}
	if s.Mirror != nil {
		s.Mirror.Close()
	}
}
