// Package repository defines the leaderboard store interface and errors.
package repository

import (
	"github.com/okian/ranker/internal/domain/model"
	"github.com/okian/ranker/pkg/ranker"
)

// Option applies a configuration option to the RankerStore.
type Option func(*RankerStore)

// WithCapacity sets the maximum number of submissions the board retains.
func WithCapacity(capacity int) Option {
	return func(s *RankerStore) {
		if capacity >= 0 {
			s.capacity = capacity
		}
	}
}

// WithTieBreak sets the placement rule for equal-scored submissions.
func WithTieBreak(tb ranker.TieBreak) Option {
	return func(s *RankerStore) {
		s.tieBreak = tb
	}
}

// WithEvictionHook registers a callback invoked for every submission that
// leaves the board (eviction, removal, or clear). Useful for releasing
// resources tied to a submission or for audit logging.
func WithEvictionHook(hook func(model.Submission)) Option {
	return func(s *RankerStore) {
		s.onEvict = hook
	}
}
