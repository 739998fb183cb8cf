// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Tie-break policy names accepted in configuration.
const (
	TieBreakAfterEqual  = "after_equal"
	TieBreakBeforeEqual = "before_equal"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// BoardCapacity bounds the number of submissions retained on the board.
	BoardCapacity int `koanf:"board_capacity"`

	// TieBreak orders equal scores: "after_equal" or "before_equal".
	TieBreak string `koanf:"tie_break"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// SkillWeights maps skill names to their scoring weights.
	SkillWeights map[string]float64 `koanf:"skill_weights"`

	// DefaultSkillWeight is used for unknown skills.
	DefaultSkillWeight float64 `koanf:"default_skill_weight"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QueueSize:           100_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		BoardCapacity:       1000,
		TieBreak:            TieBreakAfterEqual,
		MaxLeaderboardLimit: 100,
		SkillWeights: map[string]float64{
			"sprint": 1.0,
		},
		DefaultSkillWeight: 0.5,
	}
	return c
}
