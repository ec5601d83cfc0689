package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/psn-tools/psnemu/internal/api/request"
	"github.com/psn-tools/psnemu/internal/api/response"
	"github.com/psn-tools/psnemu/internal/metrics"
	"github.com/psn-tools/psnemu/internal/model"
	"github.com/psn-tools/psnemu/internal/services/account"
)

// PlayerHandler handles player-account endpoints
type PlayerHandler struct {
	accountService *account.Service
	metrics        *metrics.Collector
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(accountService *account.Service, collector *metrics.Collector) *PlayerHandler {
	return &PlayerHandler{
		accountService: accountService,
		metrics:        collector,
	}
}

// Create handles POST /players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	displayName := ""
	if req.DisplayName != nil {
		displayName = *req.DisplayName
	}

	player, err := h.accountService.CreatePlayer(r.Context(), req.Username, req.Email, displayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.metrics.RecordPlayerCreated()
	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// List handles GET /players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.accountService.ListPlayers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerListFromModels(players))
}

// Get handles GET /players/{player_id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	player, err := h.accountService.GetPlayer(r.Context(), playerID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Update handles PUT /players/{player_id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	fields := account.UpdateFields{
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}
	if req.Status != nil {
		status := model.PlayerStatus(*req.Status)
		fields.Status = &status
	}

	player, err := h.accountService.UpdatePlayer(r.Context(), playerID(r), fields)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Delete handles DELETE /players/{player_id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.accountService.DeletePlayer(r.Context(), playerID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Stats handles GET /players/{player_id}/stats
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.accountService.GetPlayerStats(r.Context(), playerID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerStatsFromModel(stats))
}

// playerID extracts the path variable set by the router
func playerID(r *http.Request) model.PlayerID {
	return model.PlayerID(mux.Vars(r)["player_id"])
}
