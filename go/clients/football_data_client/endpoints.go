package football_data_client

const (
	// Base URL of the football-data.org v4 API
	BaseURL = "https://api.football-data.org/v4"

	// API Endpoints
	CompetitionMatchesEndpoint = "/competitions/%s/matches"

	// Match statuses
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusScheduled = "SCHEDULED"

	// Competition codes polled by default
	ChampionsLeague = "CL"
	PremierLeague   = "PL"
	LaLiga          = "PD"
	SerieA          = "SA"
	Bundesliga      = "BL1"
	Ligue1          = "FL1"

	// Headers
	AuthTokenHeader = "X-Auth-Token"

	// DateLayout is the format of the dateFrom / dateTo query parameters
	DateLayout = "2006-01-02"
)

// DefaultCompetitions lists the competitions the live poller follows.
var DefaultCompetitions = []string{ChampionsLeague, PremierLeague, LaLiga, SerieA, Bundesliga, Ligue1}
