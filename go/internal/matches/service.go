package matches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/tokenboard/go/clients/football_data_client"
	"github.com/mcdev12/tokenboard/go/internal/events"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPollInterval = time.Minute
	DefaultFetchTimeout = 10 * time.Second
	// FinishedWindow is how far back the proxy looks for finished matches
	FinishedWindow = 7 * 24 * time.Hour
)

// ErrInvalidLeague is returned for an empty or malformed league code
var ErrInvalidLeague = errors.New("invalid league code")

// Feed is the upstream match data provider.
type Feed interface {
	GetLiveMatches(ctx context.Context, competition string) ([]json.RawMessage, error)
	GetFinishedMatches(ctx context.Context, competition string, from, to time.Time) ([]json.RawMessage, error)
}

// LeagueMatches is the body returned by the matches proxy.
type LeagueMatches struct {
	Live     []json.RawMessage `json:"live"`
	Finished []json.RawMessage `json:"finished"`
}

type Options struct {
	Feed         Feed
	Broadcaster  events.Broadcaster
	Clock        clockwork.Clock
	Competitions []string
	PollInterval time.Duration
	FetchTimeout time.Duration
}

// Service proxies the match feed and keeps the in-play matches of the followed
// competitions fresh. It never touches game state.
type Service struct {
	feed         Feed
	broadcaster  events.Broadcaster
	clock        clockwork.Clock
	competitions []string
	pollInterval time.Duration
	fetchTimeout time.Duration

	mu     sync.RWMutex
	inPlay map[string][]json.RawMessage
}

func NewService(opts Options) *Service {
	if opts.Broadcaster == nil {
		opts.Broadcaster = events.Discard{}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if len(opts.Competitions) == 0 {
		opts.Competitions = football_data_client.DefaultCompetitions
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	return &Service{
		feed:         opts.Feed,
		broadcaster:  opts.Broadcaster,
		clock:        opts.Clock,
		competitions: opts.Competitions,
		pollInterval: opts.PollInterval,
		fetchTimeout: opts.FetchTimeout,
		inPlay:       make(map[string][]json.RawMessage),
	}
}

// Matches fetches the live matches and those finished in the last week for a league,
// concurrently and within the fetch timeout.
func (s *Service) Matches(ctx context.Context, league string) (*LeagueMatches, error) {
	if !validLeague(league) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLeague, league)
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	now := s.clock.Now()
	out := &LeagueMatches{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		live, err := s.feed.GetLiveMatches(gctx, league)
		if err != nil {
			return fmt.Errorf("live matches: %w", err)
		}
		out.Live = live
		return nil
	})
	g.Go(func() error {
		finished, err := s.feed.GetFinishedMatches(gctx, league, now.Add(-FinishedWindow), now)
		if err != nil {
			return fmt.Errorf("finished matches: %w", err)
		}
		out.Finished = finished
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if out.Live == nil {
		out.Live = []json.RawMessage{}
	}
	if out.Finished == nil {
		out.Finished = []json.RawMessage{}
	}
	s.setInPlay(league, out.Live)
	return out, nil
}

// InPlay returns the last known live matches for a league.
func (s *Service) InPlay(league string) []json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inPlay[league]
}

func (s *Service) setInPlay(league string, matches []json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inPlay[league] = matches
}

// Start polls the live matches of every followed competition until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	ticker := s.clock.NewTicker(s.pollInterval)
	defer ticker.Stop()

	log.Info().
		Strs("competitions", s.competitions).
		Dur("interval", s.pollInterval).
		Msg("match poller started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("match poller stopped")
			return
		case <-ticker.Chan():
			s.Poll(ctx)
		}
	}
}

// Poll runs one refresh cycle. A failing competition is skipped; the others still
// refresh.
func (s *Service) Poll(ctx context.Context) {
	for _, league := range s.competitions {
		if ctx.Err() != nil {
			return
		}
		if err := s.pollLeague(ctx, league); err != nil {
			log.Warn().Err(err).Str("league", league).Msg("match feed fetch failed, skipping")
		}
	}
}

func (s *Service) pollLeague(ctx context.Context, league string) error {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	live, err := s.feed.GetLiveMatches(ctx, league)
	if err != nil {
		return err
	}
	if live == nil {
		live = []json.RawMessage{}
	}
	s.setInPlay(league, live)

	evt, err := events.New(events.EventTypeMatchesUpdated, events.MatchesUpdatedPayload{
		LeagueCode: league,
		Matches:    live,
	}, s.clock.Now())
	if err != nil {
		return err
	}
	s.broadcaster.Broadcast(evt)
	return nil
}

func validLeague(code string) bool {
	if code == "" || len(code) > 16 {
		return false
	}
	for _, r := range code {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
