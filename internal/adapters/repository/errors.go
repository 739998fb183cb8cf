package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrEmpty        = errors.New("leaderboard is empty")
	ErrNotFound     = errors.New("submission not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
