package football_data_client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// MatchesQuery filters a competition's matches.
type MatchesQuery struct {
	Status   string
	DateFrom time.Time
	DateTo   time.Time
}

func (q MatchesQuery) encode() string {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if !q.DateFrom.IsZero() {
		v.Set("dateFrom", q.DateFrom.UTC().Format(DateLayout))
	}
	if !q.DateTo.IsZero() {
		v.Set("dateTo", q.DateTo.UTC().Format(DateLayout))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// MatchesResponse keeps each match as the raw upstream document so clients receive
// every field the feed provides.
type MatchesResponse struct {
	Filters     map[string]interface{} `json:"filters"`
	ResultSet   ResultSet              `json:"resultSet"`
	Competition *Competition           `json:"competition,omitempty"`
	Matches     []json.RawMessage      `json:"matches"`
}

type ResultSet struct {
	Count  int    `json:"count"`
	First  string `json:"first"`
	Last   string `json:"last"`
	Played int    `json:"played"`
}

type Competition struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Type string `json:"type"`
}

// GetCompetitionMatches lists the matches of one competition.
func (c *FootballDataClient) GetCompetitionMatches(ctx context.Context, competition string, q MatchesQuery) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf(CompetitionMatchesEndpoint, url.PathEscape(competition)) + q.encode()
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s matches: %w", competition, err)
	}

	var response MatchesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if response.Matches == nil {
		return []json.RawMessage{}, nil
	}
	return response.Matches, nil
}

// GetLiveMatches lists matches currently in play.
func (c *FootballDataClient) GetLiveMatches(ctx context.Context, competition string) ([]json.RawMessage, error) {
	return c.GetCompetitionMatches(ctx, competition, MatchesQuery{Status: StatusLive})
}

// GetFinishedMatches lists matches finished between from and to, inclusive by date.
func (c *FootballDataClient) GetFinishedMatches(ctx context.Context, competition string, from, to time.Time) ([]json.RawMessage, error) {
	return c.GetCompetitionMatches(ctx, competition, MatchesQuery{Status: StatusFinished, DateFrom: from, DateTo: to})
}
