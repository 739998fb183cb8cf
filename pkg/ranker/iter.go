package ranker

import (
	"cmp"
	"iter"
)

// NewOrdered creates a ranker over an ordered element type using the natural
// ascending order, so the smallest element is the top. Wrap cmp.Less to rank
// descending instead.
func NewOrdered[T cmp.Ordered](capacity int, opts ...Option[T]) *Ranker[T] {
	return New(capacity, func(a, b T) bool { return cmp.Less(a, b) }, opts...)
}

// All returns a read-only traversal of the elements in rank order, top to
// bottom. The sequence is restartable and remains valid until the next
// mutating operation.
func (r *Ranker[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := r.head; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}

// Slice copies the elements into a new slice in rank order, top first.
func (r *Ranker[T]) Slice() []T {
	out := make([]T, 0, r.size)
	for n := r.head; n != nil; n = n.next {
		out = append(out, n.value)
	}
	return out
}
