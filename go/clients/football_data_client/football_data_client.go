package football_data_client

import (
	"github.com/mcdev12/tokenboard/go/clients"
)

type FootballDataClient struct {
	*clients.BaseClient
}

// NewFootballDataClient builds a client against baseURL, or the public API when empty.
func NewFootballDataClient(baseURL, token string) *FootballDataClient {
	if baseURL == "" {
		baseURL = BaseURL
	}
	client := &FootballDataClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(AuthTokenHeader, token)

	return client
}
