// Package model contains domain models passed between layers.
package model

import "time"

// Submission represents a scored attempt submitted by clients.
// Fields mirror the JSON schema for POST /submissions.
type Submission struct {
	ID        string    // unique id for idempotency and removal
	PlayerID  string    // subject/player identifier
	Skill     string    // skill category, e.g., "sprint", "dribble"
	RawMetric float64   // raw metric value (normalized to float64)
	Score     float64   // ranking score, assigned by the scorer
	TS        time.Time // submission timestamp
}
