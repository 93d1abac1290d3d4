package matches

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type matchesResponse struct {
	Matches *LeagueMatches `json:"matches"`
}

// HandleGetMatches handles GET /api/matches/{leagueCode}
func (s *Service) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	league := extractLeagueCodeFromPath(r.URL.Path)
	result, err := s.Matches(r.Context(), league)
	if err != nil {
		if errors.Is(err, ErrInvalidLeague) {
			writeError(w, http.StatusBadRequest, "invalid league code")
			return
		}
		log.Error().Err(err).Str("league", league).Msg("failed to fetch matches")
		writeError(w, http.StatusInternalServerError, "failed to fetch matches")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(matchesResponse{Matches: result}); err != nil {
		log.Error().Err(err).Msg("failed to encode matches response")
	}
}

// RegisterRoutes registers the matches proxy route
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/matches/", s.HandleGetMatches)
}

// extractLeagueCodeFromPath extracts the league code from a path like /api/matches/{leagueCode}
func extractLeagueCodeFromPath(path string) string {
	const prefix = "/api/matches/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.Trim(path[len(prefix):], "/")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
