package ranker

import "errors"

// Sentinel kinds for ranker errors.
var (
	// ErrEmpty reports Top or Bottom on a ranker with no elements.
	ErrEmpty = errors.New("ranker is empty")
)
