// Package scoring defines the contract for computing ranking scores from raw metrics.
package scoring

import (
	"context"
	"math"
)

// Default scoring configuration constants.
const (
	defaultWeight = 1.0
	maxScoreValue = 100
)

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithSkillWeights sets skill weights from a configuration map.
func WithSkillWeights(weights map[string]float64, fallback float64) Option {
	return func(s *WeightedScorer) {
		// Copy the weights map to avoid external modifications
		s.skillWeights = make(map[string]float64, len(weights))
		for skill, weight := range weights {
			if weight > 0 {
				s.skillWeights[skill] = weight
			}
		}
		if fallback > 0 {
			s.defaultWeight = fallback
		}
	}
}

// Input abstracts the submission fields needed for scoring.
type Input struct {
	PlayerID  string
	RawMetric float64
	Skill     string
}

// Result contains the computed score for a player.
type Result struct {
	PlayerID string
	Score    float64
}

// Scorer computes a score from an input.
type Scorer interface {
	// Score computes a score, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (Result, error)
}

// WeightedScorer implements Scorer with per-skill weight normalization.
type WeightedScorer struct {
	skillWeights  map[string]float64
	defaultWeight float64
}

// NewWeightedScorer creates a new weighted scorer with configuration options.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{
		skillWeights:  make(map[string]float64),
		defaultWeight: defaultWeight,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes a score for the given input.
func (s *WeightedScorer) Score(ctx context.Context, in Input) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	weight, ok := s.skillWeights[in.Skill]
	if !ok {
		weight = s.defaultWeight
	}

	score := in.RawMetric * weight

	// Clamp to the 0-100 leaderboard range.
	score = math.Max(0, math.Min(maxScoreValue, score))

	return Result{
		PlayerID: in.PlayerID,
		Score:    score,
	}, nil
}
