// Package repository defines the leaderboard store interface and errors.
package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/ranker/internal/domain/model"
	"github.com/okian/ranker/pkg/metrics"
	"github.com/okian/ranker/pkg/ranker"
)

// Bounded, in-memory Store implementation backed by a ranker.
//
// Ordering: score DESC, so in-rank traversal produces the leaderboard from
// best to worst. Equal scores fall to the ranker's tie-break policy; with the
// default InsertAfterEqual, earlier submissions keep the better position.
//
// The ranker itself is single-threaded; a store-level RWMutex serializes all
// access to it.

// Default store configuration constants.
const (
	defaultCapacity = 1000
)

// RankerStore implements Store on top of a bounded ranker.
type RankerStore struct {
	mu       sync.RWMutex
	board    *ranker.Ranker[model.Submission]
	capacity int
	tieBreak ranker.TieBreak
	onEvict  func(model.Submission)
}

// NewRankerStore constructs a store with configuration options.
func NewRankerStore(ctx context.Context, opts ...Option) *RankerStore {
	s := &RankerStore{
		capacity: defaultCapacity,
		tieBreak: ranker.InsertAfterEqual,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.board = ranker.New(
		s.capacity,
		func(a, b model.Submission) bool { return a.Score > b.Score },
		ranker.WithTieBreak[model.Submission](s.tieBreak),
		ranker.WithDisposal[model.Submission](s.dispose),
	)

	metrics.UpdateBoardCapacity(s.capacity)
	metrics.UpdateBoardSize(0)

	return s
}

// dispose is the ranker disposal hook: every submission leaving the board
// passes through here exactly once.
func (s *RankerStore) dispose(sub model.Submission) {
	metrics.RecordBoardDisposal()
	if s.onEvict != nil {
		s.onEvict(sub)
	}
}

// Submit implements Store.Submit.
func (s *RankerStore) Submit(ctx context.Context, sub model.Submission) (bool, error) {
	s.mu.Lock()
	wasFull := s.board.Len() >= s.capacity
	retained := s.board.Insert(sub)
	size := s.board.Len()
	s.mu.Unlock()

	metrics.RecordBoardInsertion()
	if wasFull {
		metrics.RecordBoardEviction()
	}
	metrics.UpdateBoardSize(size)

	return retained, nil
}

// Top implements Store.Top.
func (s *RankerStore) Top(ctx context.Context) (Entry, error) {
	s.mu.RLock()
	sub, err := s.board.Top()
	s.mu.RUnlock()

	if err != nil {
		metrics.RecordErrorByComponent("repository", "empty")
		return Entry{}, ErrEmpty
	}
	return Entry{Rank: 1, SubmissionID: sub.ID, PlayerID: sub.PlayerID, Skill: sub.Skill, Score: sub.Score, RawMetric: sub.RawMetric}, nil
}

// Bottom implements Store.Bottom.
func (s *RankerStore) Bottom(ctx context.Context) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.board.Bottom(); err != nil {
		metrics.RecordErrorByComponent("repository", "empty")
		return Entry{}, ErrEmpty
	}

	// The bottom entry carries the last rank, which requires counting ties
	// across the whole board.
	entries := s.collect(s.board.Len())
	return entries[len(entries)-1], nil
}

// List implements Store.List.
func (s *RankerStore) List(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(n), nil
}

// PlayerBest implements Store.PlayerBest.
func (s *RankerStore) PlayerBest(ctx context.Context, playerID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.collect(s.board.Len()) {
		if entry.PlayerID == playerID {
			return entry, nil
		}
	}
	metrics.RecordErrorByComponent("repository", "not_found")
	return Entry{}, ErrNotFound
}

// Remove implements Store.Remove.
func (s *RankerStore) Remove(ctx context.Context, submissionID string) error {
	s.mu.Lock()
	removed := s.board.RemoveFirstFunc(func(sub model.Submission) bool {
		return sub.ID == submissionID
	})
	size := s.board.Len()
	s.mu.Unlock()

	if !removed {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrNotFound
	}
	metrics.RecordBoardRemoval()
	metrics.UpdateBoardSize(size)
	return nil
}

// RemoveAllByPlayer implements Store.RemoveAllByPlayer.
func (s *RankerStore) RemoveAllByPlayer(ctx context.Context, playerID string) (int, error) {
	s.mu.Lock()
	removed := s.board.RemoveAllFunc(func(sub model.Submission) bool {
		return sub.PlayerID == playerID
	})
	size := s.board.Len()
	s.mu.Unlock()

	for i := 0; i < removed; i++ {
		metrics.RecordBoardRemoval()
	}
	metrics.UpdateBoardSize(size)
	return removed, nil
}

// Count implements Store.Count.
func (s *RankerStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Len()
}

// Clear implements Store.Clear.
func (s *RankerStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.board.Clear()
	s.mu.Unlock()

	metrics.UpdateBoardSize(0)
}

// Close disposes everything still on the board.
func (s *RankerStore) Close() error {
	s.Clear(context.Background())
	return nil
}

// IsEmpty reports whether the board holds no submissions.
func (s *RankerStore) IsEmpty(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Empty()
}

// collect builds up to n entries in rank order. Must be called with at least
// a read lock held.
func (s *RankerStore) collect(n int) []Entry {
	out := make([]Entry, 0, min(n, s.board.Len()))
	for sub := range s.board.All() {
		if len(out) >= n {
			break
		}
		out = append(out, Entry{
			SubmissionID: sub.ID,
			PlayerID:     sub.PlayerID,
			Skill:        sub.Skill,
			Score:        sub.Score,
			RawMetric:    sub.RawMetric,
		})
	}
	assignRanksWithTies(out)
	return out
}

// assignRanksWithTies assigns dense ranks: entries with the same score share
// a rank and the next distinct score takes the next consecutive rank.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}
}

// IsNotFound reports whether err is the store's not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsEmpty reports whether err is the store's empty-board condition.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmpty)
}
