package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcdev12/tokenboard/go/internal/auth"
	"github.com/mcdev12/tokenboard/go/internal/events"
	"github.com/mcdev12/tokenboard/go/internal/game"
	"github.com/mcdev12/tokenboard/go/internal/ledger"
	"github.com/mcdev12/tokenboard/go/internal/models"
	"github.com/mcdev12/tokenboard/go/internal/wagering"
	"github.com/rs/zerolog/log"
)

var clientErrors = []error{
	game.ErrInvalidState,
	game.ErrStaleVersion,
	ledger.ErrUnknownPlayer,
	ledger.ErrInsufficientFunds,
	ledger.ErrInvalidAmount,
	ledger.ErrInvalidPlayer,
	wagering.ErrInvalidBet,
}

// maxBodyBytes bounds REST request bodies.
const maxBodyBytes = 1 << 20

// RestoreRequest is the body of POST /api/restore-game-state
type RestoreRequest struct {
	Key    string            `json:"key"`
	APIKey string            `json:"apiKey"`
	State  *models.GameState `json:"state"`
}

func (r RestoreRequest) credential() string {
	if r.Key != "" {
		return r.Key
	}
	return r.APIKey
}

// RestoreResponse is returned after a successful restore
type RestoreResponse struct {
	Success bool   `json:"success"`
	Version uint64 `json:"version"`
}

// BetResponse is returned by POST /api/bet
type BetResponse struct {
	BetID          string `json:"betId"`
	CurrentBalance int    `json:"currentBalance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// StateHandler handles the administrative and wagering REST endpoints
type StateHandler struct {
	game      GameService
	adminAuth auth.Authorizer
}

// NewStateHandler creates a new state handler
func NewStateHandler(g GameService, adminAuth auth.Authorizer) *StateHandler {
	if adminAuth == nil {
		adminAuth = auth.Deny{}
	}
	return &StateHandler{
		game:      g,
		adminAuth: adminAuth,
	}
}

// HandleGetGameState handles GET /api/game-state?key=...
func (h *StateHandler) HandleGetGameState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		key = r.URL.Query().Get("apiKey")
	}
	if err := h.adminAuth.Authorize(key); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	writeJSON(w, http.StatusOK, h.game.Snapshot())
}

// HandleRestoreGameState handles POST /api/restore-game-state
func (h *StateHandler) HandleRestoreGameState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RestoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.adminAuth.Authorize(req.credential()); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	version, err := h.game.Restore(r.Context(), req.State)
	if err != nil {
		if errors.Is(err, game.ErrInvalidState) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid game state"})
			return
		}
		log.Error().Err(err).Msg("failed to restore game state")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to restore game state"})
		return
	}

	writeJSON(w, http.StatusOK, RestoreResponse{Success: true, Version: version})
}

// HandlePlaceBet handles POST /api/bet
func (h *StateHandler) HandlePlaceBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var p events.PlaceBetPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	bet, balance, err := h.game.PlaceBet(r.Context(), betRequest(p))
	if err != nil {
		if isClientError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		log.Error().Err(err).Msg("failed to place bet")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to place bet"})
		return
	}

	writeJSON(w, http.StatusOK, BetResponse{BetID: bet.ID, CurrentBalance: balance})
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/game-state", h.HandleGetGameState)
	mux.HandleFunc("/api/restore-game-state", h.HandleRestoreGameState)
	mux.HandleFunc("/api/bet", h.HandlePlaceBet)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
