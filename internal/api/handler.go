package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tictacarena/internal/presence"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handler serves the HTTP identity endpoints: issuing tokens at login
// and validating them on page load. Tokens are opaque uuids; the
// websocket core only ever sees them as keys.
type Handler struct {
	presence presence.Store
}

// NewHandler creates a new handler backed by the presence store.
func NewHandler(store presence.Store) *Handler {
	return &Handler{presence: store}
}

// RegisterRoutes sets up the identity routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/login", h.handleLogin)
	r.Post("/api/validateToken", h.handleValidateToken)
}

type loginRequest struct {
	Username string `json:"username"`
}

type validateRequest struct {
	Token string `json:"token"`
}

type identityResponse struct {
	UserToken string `json:"userToken"`
	Username  string `json:"username"`
	Success   bool   `json:"success"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		respondError(w, http.StatusBadRequest, "Username is required")
		return
	}

	token := uuid.NewString()
	if err := h.presence.Upsert(r.Context(), username, token, false); err != nil {
		log.Error().Err(err).Msg("login upsert failed")
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// read the record back so the response reflects what was stored
	rec, err := h.presence.GetByUsername(r.Context(), username)
	if err != nil {
		log.Error().Err(err).Msg("login readback failed")
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondJSON(w, identityResponse{UserToken: rec.Token, Username: rec.Username, Success: true})
}

func (h *Handler) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondError(w, http.StatusBadRequest, "Token is required")
		return
	}

	rec, err := h.presence.GetByToken(r.Context(), req.Token)
	if errors.Is(err, presence.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("token validation failed")
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondJSON(w, identityResponse{UserToken: rec.Token, Username: rec.Username, Success: true})
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
