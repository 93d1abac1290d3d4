package football_data_client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mcdev12/tokenboard/go/clients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFinishedMatches(t *testing.T) {
	var gotPath, gotQuery, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotToken = r.Header.Get(AuthTokenHeader)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"resultSet":{"count":2},"matches":[{"id":1,"status":"FINISHED"},{"id":2,"status":"FINISHED"}]}`))
	}))
	defer srv.Close()

	c := NewFootballDataClient(srv.URL, "tok")
	to := time.Date(2026, 3, 8, 22, 0, 0, 0, time.UTC)
	matches, err := c.GetFinishedMatches(context.Background(), "PL", to.AddDate(0, 0, -7), to)
	require.NoError(t, err)

	assert.Equal(t, "/competitions/PL/matches", gotPath)
	assert.Equal(t, "dateFrom=2026-03-01&dateTo=2026-03-08&status=FINISHED", gotQuery)
	assert.Equal(t, "tok", gotToken)
	require.Len(t, matches, 2)
	assert.JSONEq(t, `{"id":1,"status":"FINISHED"}`, string(matches[0]))
}

func TestGetLiveMatchesEmptyAndErrors(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c := NewFootballDataClient(srv.URL, "tok")
	matches, err := c.GetLiveMatches(context.Background(), "CL")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)

	status.Store(http.StatusTooManyRequests)
	_, err = c.GetLiveMatches(context.Background(), "CL")
	var statusErr *clients.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}
