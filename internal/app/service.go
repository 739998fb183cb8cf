// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"

	"github.com/okian/ranker/internal/adapters/http/api"
	subqueue "github.com/okian/ranker/internal/adapters/mq/queue"
	workerpool "github.com/okian/ranker/internal/adapters/mq/worker"
	repository "github.com/okian/ranker/internal/adapters/repository"
	"github.com/okian/ranker/internal/domain/dedupe"
	"github.com/okian/ranker/internal/domain/model"
	"github.com/okian/ranker/internal/domain/scoring"
	"github.com/okian/ranker/pkg/logger"
	"github.com/okian/ranker/pkg/metrics"
	"github.com/okian/ranker/pkg/ranker"
)

// Service implements the API dependencies for the leaderboard system.
type Service struct {
	mu sync.RWMutex

	// Core components
	board      repository.Store
	deduper    dedupe.Deduper
	queue      subqueue.Queue
	scorer     scoring.Scorer
	workerPool *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	boardCapacity int
	tieBreak      ranker.TieBreak
	skillWeights  map[string]float64
	defaultWeight float64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithBoardCapacity sets the maximum number of retained submissions.
func WithBoardCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.boardCapacity = capacity
		}
	}
}

// WithTieBreak sets how equal scores are ordered on the board.
func WithTieBreak(tb ranker.TieBreak) Option {
	return func(s *Service) {
		s.tieBreak = tb
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSkillWeights sets the skill weights for scoring.
func WithSkillWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.skillWeights = weights
	}
}

// WithDefaultSkillWeight sets the default weight for unknown skills.
func WithDefaultSkillWeight(weight float64) Option {
	return func(s *Service) {
		s.defaultWeight = weight
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:     100000,               // Default queue size
		dedupeSize:    50000,                // Default dedupe cache size
		boardCapacity: 1000,                 // Default board capacity
		tieBreak:      ranker.InsertAfterEqual,
		skillWeights: map[string]float64{
			"sprint": 1.0,
		},
		defaultWeight: 0.5,
		stopCh:        make(chan struct{}),
		logger:        nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	// Initialize components
	s.board = repository.NewRankerStore(ctx,
		repository.WithCapacity(s.boardCapacity),
		repository.WithTieBreak(s.tieBreak),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = subqueue.NewInMemoryQueue(
		subqueue.WithCapacity(s.queueSize),
	)
	s.scorer = scoring.NewWeightedScorer(
		scoring.WithSkillWeights(s.skillWeights, s.defaultWeight),
	)

	// Create and start worker pool
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.scorer, s.board)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("boardCapacity", s.boardCapacity),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping leaderboard service...")

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Close the queue
	if s.queue != nil {
		_ = s.queue.Close()
	}

	// Close the board, disposing everything on it
	if s.board != nil {
		_ = s.board.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// SeenAndRecord atomically checks if a submission id was seen and records it
// if not. Returns true if the submission was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a submission ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a submission for asynchronous scoring and board placement.
func (s *Service) Enqueue(ctx context.Context, in api.SubmissionInput) bool {
	sub := model.Submission{
		ID:        in.ID,
		PlayerID:  in.PlayerID,
		RawMetric: in.RawMetric,
		Skill:     in.Skill,
		TS:        in.TS,
	}
	ok := s.queue.Enqueue(ctx, sub)
	if !ok {
		s.logger.Warn(ctx, "queue rejected submission",
			logger.String("submissionID", in.ID),
		)
	}
	return ok
}

// List returns up to n leaderboard entries in rank order.
func (s *Service) List(ctx context.Context, n int) ([]api.Entry, error) {
	return s.board.List(ctx, n)
}

// Top returns the highest-ranked entry.
func (s *Service) Top(ctx context.Context) (api.Entry, error) {
	return s.board.Top(ctx)
}

// Bottom returns the lowest-ranked retained entry.
func (s *Service) Bottom(ctx context.Context) (api.Entry, error) {
	return s.board.Bottom(ctx)
}

// PlayerBest returns the best-ranked entry for a player.
func (s *Service) PlayerBest(ctx context.Context, playerID string) (api.Entry, error) {
	return s.board.PlayerBest(ctx, playerID)
}

// Remove takes a submission off the board by its ID.
func (s *Service) Remove(ctx context.Context, submissionID string) error {
	return s.board.Remove(ctx, submissionID)
}

// RemoveAllByPlayer takes every submission of a player off the board.
func (s *Service) RemoveAllByPlayer(ctx context.Context, playerID string) (int, error) {
	return s.board.RemoveAllByPlayer(ctx, playerID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() api.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := api.Stats{
		Started:        s.started,
		Workers:        s.workerCount,
		QueueCapacity:  s.queueSize,
		DedupeCapacity: s.dedupeSize,
		BoardCapacity:  s.boardCapacity,
	}

	if s.started {
		ctx := context.Background()
		stats.QueueLength = s.queue.Len(ctx)
		stats.BoardSize = s.board.Count(ctx)
		stats.DedupeEntries = s.deduper.Size()

		// Update metrics
		metrics.UpdateQueueSize(stats.QueueLength)
		metrics.UpdateBoardSize(stats.BoardSize)
		metrics.UpdateWorkerActiveCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
