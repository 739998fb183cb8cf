// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/ranker/internal/adapters/repository"
)

// RankDependencies defines the interface for single-entry read operations.
type RankDependencies interface {
	Top(ctx context.Context) (Entry, error)
	Bottom(ctx context.Context) (Entry, error)
	PlayerBest(ctx context.Context, playerID string) (Entry, error)
}

// RankHandler handles top, bottom and per-player rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetTop handles GET /top requests.
func (h *RankHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entry, err := h.deps.Top(r.Context())
	if err != nil {
		if repository.IsEmpty(err) {
			writeError(w, http.StatusNotFound, "empty_board", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleGetBottom handles GET /bottom requests.
func (h *RankHandler) HandleGetBottom(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_bottom"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entry, err := h.deps.Bottom(r.Context())
	if err != nil {
		if repository.IsEmpty(err) {
			writeError(w, http.StatusNotFound, "empty_board", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleGetPlayerBest handles GET /players/{player_id} requests.
func (h *RankHandler) HandleGetPlayerBest(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player_best"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /players/
	playerID := strings.TrimPrefix(r.URL.Path, "/players/")
	if playerID == "" || strings.Contains(playerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.PlayerBest(r.Context(), playerID)
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
