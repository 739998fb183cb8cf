// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// Stats is the read shape returned by GET /stats. Fields mirror the moving
// parts of the ingestion pipeline: the bounded board, the submission queue,
// the worker pool, and the idempotency cache.
type Stats struct {
	Started bool `json:"started"`

	BoardSize     int `json:"board_size"`
	BoardCapacity int `json:"board_capacity"`

	QueueLength   int `json:"queue_length"`
	QueueCapacity int `json:"queue_capacity"`

	Workers int `json:"workers"`

	DedupeEntries  int64 `json:"dedupe_entries"`
	DedupeCapacity int   `json:"dedupe_capacity"`
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() Stats
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
