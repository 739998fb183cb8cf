// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ranker/internal/adapters/repository"
	"github.com/okian/ranker/internal/domain/dedupe"
	"github.com/okian/ranker/pkg/metrics"
)

// SubmissionDependencies defines the interface for submission processing dependencies.
type SubmissionDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, sub SubmissionInput) bool
	Remove(ctx context.Context, submissionID string) error
}

// SubmissionsHandler handles submission requests.
type SubmissionsHandler struct {
	deps SubmissionDependencies
}

// NewSubmissionsHandler creates a new submissions handler.
func NewSubmissionsHandler(deps SubmissionDependencies) *SubmissionsHandler {
	return &SubmissionsHandler{deps: deps}
}

// HandlePostSubmission handles POST /submissions requests.
func (h *SubmissionsHandler) HandlePostSubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_submission"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Clients may omit the ID; the server assigns one.
	if strings.TrimSpace(req.SubmissionID) == "" {
		req.SubmissionID = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.SubmissionID) {
		metrics.RecordSubmissionDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{
			Status:       "duplicate",
			SubmissionID: req.SubmissionID,
			Duplicate:    true,
		})
		return
	}

	ts, _ := time.Parse(time.RFC3339, req.TS)
	sub := SubmissionInput{
		ID:        req.SubmissionID,
		PlayerID:  req.PlayerID,
		RawMetric: req.RawMetric,
		Skill:     req.Skill,
		TS:        ts,
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), sub); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.SubmissionID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	metrics.RecordSubmissionAccepted()
	writeJSON(w, http.StatusAccepted, ackResponse{
		Status:       "accepted",
		SubmissionID: req.SubmissionID,
		Duplicate:    false,
	})
}

// HandleDeleteSubmission handles DELETE /submissions/{submission_id} requests.
func (h *SubmissionsHandler) HandleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_submission"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /submissions/
	id := strings.TrimPrefix(r.URL.Path, "/submissions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.Remove(r.Context(), id); err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, removedResponse{Status: "removed", SubmissionID: id})
}
