// Package ranker provides a bounded-capacity ordered collection that keeps
// only the top-K elements under a caller-supplied ordering.
package ranker

// TieBreak selects where an element is placed relative to the run of
// elements it compares equal to.
type TieBreak int

const (
	// InsertAfterEqual places new elements after the whole equal run,
	// preserving insertion order among equals. This is the default.
	InsertAfterEqual TieBreak = iota

	// InsertBeforeEqual places new elements before the first equal element,
	// reversing insertion order among equals.
	InsertBeforeEqual
)

// Option applies a configuration option to the Ranker. Options are consumed
// by New; policies cannot change after construction.
type Option[T comparable] func(*Ranker[T])

// WithTieBreak sets the placement rule for equal-ranked elements.
func WithTieBreak[T comparable](tb TieBreak) Option[T] {
	return func(r *Ranker[T]) {
		if tb == InsertBeforeEqual || tb == InsertAfterEqual {
			r.tieBreak = tb
		}
	}
}

// WithDisposal sets the hook invoked on every element that leaves the ranker
// by eviction, removal, or Clear. The hook is called exactly once per
// departing element; ownership transfers to it at the point of removal.
func WithDisposal[T comparable](dispose func(T)) Option[T] {
	return func(r *Ranker[T]) {
		if dispose != nil {
			r.dispose = dispose
		}
	}
}
