// Package repository defines the leaderboard store interface and errors.
package repository

import (
	"context"

	"github.com/okian/ranker/internal/domain/model"
)

// Entry represents a leaderboard row.
type Entry struct {
	Rank         int     `json:"rank"`
	SubmissionID string  `json:"submission_id"`
	PlayerID     string  `json:"player_id"`
	Skill        string  `json:"skill"`
	Score        float64 `json:"score"`
	RawMetric    float64 `json:"raw_metric"`
}

// Store provides read/write access to the bounded leaderboard.
type Store interface {
	// Submit places a scored submission on the board. Returns true if the
	// submission is retained, false if the board was full and the submission
	// ranked at or below the current bottom.
	Submit(ctx context.Context, sub model.Submission) (bool, error)

	// Top returns the highest-ranked entry. Returns ErrEmpty on an empty board.
	Top(ctx context.Context) (Entry, error)

	// Bottom returns the lowest-ranked entry currently retained.
	// Returns ErrEmpty on an empty board.
	Bottom(ctx context.Context) (Entry, error)

	// List returns up to n entries in rank order with tie-aware ranks.
	List(ctx context.Context, n int) ([]Entry, error)

	// PlayerBest returns the best-ranked entry for a player.
	// Returns ErrNotFound if the player has no entry on the board.
	PlayerBest(ctx context.Context, playerID string) (Entry, error)

	// Remove takes a submission off the board by its ID.
	// Returns ErrNotFound if no such submission is on the board.
	Remove(ctx context.Context, submissionID string) error

	// RemoveAllByPlayer takes every submission of a player off the board and
	// returns the number removed.
	RemoveAllByPlayer(ctx context.Context, playerID string) (int, error)

	// Count returns the number of submissions currently on the board.
	Count(ctx context.Context) int

	// Clear empties the board, disposing every retained submission.
	Clear(ctx context.Context)

	// Close releases the board and everything on it.
	Close() error
}
