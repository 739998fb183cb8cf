// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/ranker/internal/adapters/repository"
	"github.com/okian/ranker/internal/domain/dedupe"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a submission for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, sub SubmissionInput) bool

	// Read operations expose leaderboard data.
	List(ctx context.Context, n int) ([]Entry, error)
	Top(ctx context.Context) (Entry, error)
	Bottom(ctx context.Context) (Entry, error)
	PlayerBest(ctx context.Context, playerID string) (Entry, error)

	// Remove takes a submission off the board by its ID.
	Remove(ctx context.Context, submissionID string) error
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = repository.Entry

// SubmissionInput is the validated submission passed to the async pipeline.
type SubmissionInput struct {
	ID        string
	PlayerID  string
	RawMetric float64
	Skill     string
	TS        time.Time
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	submissionsHandler *SubmissionsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		submissionsHandler: NewSubmissionsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", instrument("healthz", s.healthHandler.HandleHealth))
	mux.HandleFunc("/stats", instrument("stats", s.statsHandler.HandleStats))
	mux.HandleFunc("/submissions", instrument("submissions", s.submissionsHandler.HandlePostSubmission))
	mux.HandleFunc("/submissions/", instrument("submissions", s.submissionsHandler.HandleDeleteSubmission))
	mux.HandleFunc("/leaderboard", instrument("leaderboard", s.leaderboardHandler.HandleGetLeaderboard))
	mux.HandleFunc("/top", instrument("top", s.rankHandler.HandleGetTop))
	mux.HandleFunc("/bottom", instrument("bottom", s.rankHandler.HandleGetBottom))
	mux.HandleFunc("/players/", instrument("players", s.rankHandler.HandleGetPlayerBest))
}

// submissionRequest mirrors the wire schema for POST /submissions.
type submissionRequest struct {
	SubmissionID string  `json:"submission_id"`
	PlayerID     string  `json:"player_id"`
	RawMetric    float64 `json:"raw_metric"`
	Skill        string  `json:"skill"`
	TS           string  `json:"ts"`
}

func (s submissionRequest) validate() error {
	switch {
	case strings.TrimSpace(s.PlayerID) == "":
		return errors.New("missing player_id")
	case strings.TrimSpace(s.Skill) == "":
		return errors.New("missing skill")
	case strings.TrimSpace(s.TS) == "":
		return errors.New("missing ts")
	}
	if _, err := time.Parse(time.RFC3339, s.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

type ackResponse struct {
	Status       string `json:"status"`
	SubmissionID string `json:"submission_id"`
	Duplicate    bool   `json:"duplicate"`
}

type removedResponse struct {
	Status       string `json:"status"`
	SubmissionID string `json:"submission_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
