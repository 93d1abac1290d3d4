package matches

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/tokenboard/go/clients/football_data_client"
	"github.com/mcdev12/tokenboard/go/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	mu       sync.Mutex
	live     map[string][]json.RawMessage
	finished []json.RawMessage
	failLive map[string]error
	from, to time.Time
}

func (f *fakeFeed) GetLiveMatches(ctx context.Context, competition string) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failLive[competition]; err != nil {
		return nil, err
	}
	return f.live[competition], nil
}

func (f *fakeFeed) GetFinishedMatches(ctx context.Context, competition string, from, to time.Time) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.from, f.to = from, to
	return f.finished, nil
}

type recorder struct {
	mu     sync.Mutex
	events []*events.Event
}

func (r *recorder) Broadcast(e *events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

var now = time.Date(2026, 3, 8, 20, 0, 0, 0, time.UTC)

func TestMatchesCombinesLiveAndFinished(t *testing.T) {
	feed := &fakeFeed{
		live:     map[string][]json.RawMessage{"PL": {json.RawMessage(`{"id":1}`)}},
		finished: []json.RawMessage{json.RawMessage(`{"id":2}`), json.RawMessage(`{"id":3}`)},
	}
	s := NewService(Options{Feed: feed, Clock: clockwork.NewFakeClockAt(now)})

	got, err := s.Matches(context.Background(), "PL")
	require.NoError(t, err)
	assert.Len(t, got.Live, 1)
	assert.Len(t, got.Finished, 2)
	assert.Equal(t, now.Add(-7*24*time.Hour), feed.from)
	assert.Equal(t, now, feed.to)
	assert.Equal(t, got.Live, s.InPlay("PL"))

	_, err = s.Matches(context.Background(), "../PL")
	assert.ErrorIs(t, err, ErrInvalidLeague)
}

func TestMatchesFailsWhenEitherFetchFails(t *testing.T) {
	feed := &fakeFeed{failLive: map[string]error{"SA": assert.AnError}}
	s := NewService(Options{Feed: feed, Clock: clockwork.NewFakeClockAt(now)})

	_, err := s.Matches(context.Background(), "SA")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, s.InPlay("SA"))
}

func TestPollSkipsFailingLeague(t *testing.T) {
	feed := &fakeFeed{
		live: map[string][]json.RawMessage{
			"CL": {json.RawMessage(`{"id":10}`)},
		},
		failLive: map[string]error{"PL": assert.AnError},
	}
	rec := &recorder{}
	s := NewService(Options{
		Feed:         feed,
		Broadcaster:  rec,
		Clock:        clockwork.NewFakeClockAt(now),
		Competitions: []string{"CL", "PL", "PD"},
	})

	s.Poll(context.Background())

	require.Equal(t, 2, rec.len())
	var first events.MatchesUpdatedPayload
	require.NoError(t, json.Unmarshal(rec.events[0].Data, &first))
	assert.Equal(t, "CL", first.LeagueCode)
	assert.Len(t, first.Matches, 1)

	var second events.MatchesUpdatedPayload
	require.NoError(t, json.Unmarshal(rec.events[1].Data, &second))
	assert.Equal(t, "PD", second.LeagueCode)
	assert.NotNil(t, second.Matches)
	assert.Empty(t, second.Matches)
}

func TestPollerRunsOnInterval(t *testing.T) {
	clock := clockwork.NewFakeClockAt(now)
	rec := &recorder{}
	s := NewService(Options{
		Feed:         &fakeFeed{},
		Broadcaster:  rec,
		Clock:        clock,
		Competitions: []string{"BL1"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	clock.Advance(DefaultPollInterval)
	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestHandleGetMatchesAgainstUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(football_data_client.AuthTokenHeader) != "tok" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Query().Get("status") {
		case football_data_client.StatusLive:
			w.Write([]byte(`{"matches":[{"id":1,"status":"IN_PLAY"}]}`))
		case football_data_client.StatusFinished:
			w.Write([]byte(`{"matches":[]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer upstream.Close()

	s := NewService(Options{
		Feed:  football_data_client.NewFootballDataClient(upstream.URL, "tok"),
		Clock: clockwork.NewFakeClockAt(now),
	})
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/matches/CL", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"matches":{"live":[{"id":1,"status":"IN_PLAY"}],"finished":[]}}`, rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/matches/", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	bad := NewService(Options{
		Feed:  football_data_client.NewFootballDataClient(upstream.URL, "wrong"),
		Clock: clockwork.NewFakeClockAt(now),
	})
	rr = httptest.NewRecorder()
	bad.HandleGetMatches(rr, httptest.NewRequest(http.MethodGet, "/api/matches/CL", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
