// Package handler exposes the token exchangers over HTTP.
package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/crosslink-labs/crm-oauth/internal/logger"
	"github.com/crosslink-labs/crm-oauth/internal/oauth"
	"github.com/crosslink-labs/crm-oauth/internal/utils"
	"go.uber.org/zap"
)

// Handler handles the exchange API requests
type Handler struct {
	registry *oauth.Registry
}

// NewHandler creates a new Handler instance
func NewHandler(registry *oauth.Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes registers all exchange API routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("POST /v1/oauth/{provider}/token", h.HandleTokenExchange)
	mux.HandleFunc("GET /v1/oauth/{provider}/authorize-url", h.HandleAuthorizeURL)
}

// HandleHealth handles /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]any{
		"status":    "ok",
		"providers": h.registry.Names(),
	})
}

// HandleTokenExchange handles the code-for-token exchange endpoint
func (h *Handler) HandleTokenExchange(w http.ResponseWriter, r *http.Request) {
	exchanger, ok := h.registry.Get(r.PathValue("provider"))
	if !ok {
		utils.WriteError(w, "unknown_provider", fmt.Sprintf("no such provider: %s", r.PathValue("provider")), http.StatusNotFound)
		return
	}

	var input oauth.ConnectionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := exchanger.Exchange(r.Context(), input)
	if err != nil {
		logger.Error("Failed to exchange code",
			zap.String("provider", exchanger.Name()),
			zap.Error(err),
		)
		utils.WriteError(w, "exchange_failed", err.Error(), http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, record)
}

// HandleAuthorizeURL handles the consent-screen URL endpoint
func (h *Handler) HandleAuthorizeURL(w http.ResponseWriter, r *http.Request) {
	exchanger, ok := h.registry.Get(r.PathValue("provider"))
	if !ok {
		utils.WriteError(w, "unknown_provider", fmt.Sprintf("no such provider: %s", r.PathValue("provider")), http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	clientID := q.Get("client_id")
	redirectURI := q.Get("redirect_uri")
	if clientID == "" || redirectURI == "" {
		utils.WriteError(w, "invalid_request", "client_id and redirect_uri are required", http.StatusBadRequest)
		return
	}

	var scopes []string
	if raw := q.Get("scopes"); raw != "" {
		scopes = strings.Fields(raw)
	}

	utils.WriteJSON(w, map[string]string{
		"url": exchanger.AuthorizeURL(clientID, redirectURI, q.Get("state"), scopes),
	})
}
