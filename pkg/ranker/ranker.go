// Package ranker provides a bounded-capacity ordered collection that keeps
// only the top-K elements under a caller-supplied ordering.
//
// Inserting into a full ranker evicts the current bottom element. Every
// element that leaves the collection (eviction, removal, or Clear) is handed
// to the configured disposal hook exactly once, which makes the ranker
// suitable for holding owned resources.
//
// The ranker is not safe for concurrent use; callers that share one across
// goroutines must provide their own synchronization.
package ranker

// node is a doubly linked list entry. A linked representation keeps interior
// insertion and tail eviction O(1) once the position is known.
type node[T comparable] struct {
	value T
	prev  *node[T]
	next  *node[T]
}

// Ranker maintains at most capacity elements in rank order, top first.
type Ranker[T comparable] struct {
	head     *node[T]
	tail     *node[T]
	size     int
	capacity int

	// Policies, fixed at construction.
	less     func(a, b T) bool
	tieBreak TieBreak
	dispose  func(T)
}

// New creates an empty ranker holding at most capacity elements, ordered by
// less (the element for which less reports true against the other ranks
// earlier). A capacity of zero is legal: every insertion is immediately
// evicted and disposed. Negative capacities are treated as zero.
func New[T comparable](capacity int, less func(a, b T) bool, opts ...Option[T]) *Ranker[T] {
	if capacity < 0 {
		capacity = 0
	}
	r := &Ranker[T]{
		capacity: capacity,
		less:     less,
		tieBreak: InsertAfterEqual,
		dispose:  func(T) {},
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Insert places v at its rank position and reports whether v survived.
//
// The position is the boundary of the run of elements comparing equal to v:
// before the run for InsertBeforeEqual, after it for InsertAfterEqual. When
// the insertion pushes the ranker over capacity the bottom element is
// unlinked and disposed; Insert returns false only if that element is v
// itself, i.e. the ranker was full and v ranked at or below the bottom.
func (r *Ranker[T]) Insert(v T) bool {
	at := r.head
	if r.tieBreak == InsertBeforeEqual {
		// lower bound: first element not ranking before v
		for at != nil && r.less(at.value, v) {
			at = at.next
		}
	} else {
		// upper bound: first element ranking after v
		for at != nil && !r.less(v, at.value) {
			at = at.next
		}
	}

	n := &node[T]{value: v}
	r.insertBefore(n, at)

	if r.size <= r.capacity {
		return true
	}

	evicted := r.tail
	r.unlink(evicted)
	r.dispose(evicted.value)
	return evicted != n
}

// RemoveFirst removes and disposes the first element equal to v, top to
// bottom. It reports whether an element was removed. Equality is ==, so for
// pointer element types this removes by identity.
func (r *Ranker[T]) RemoveFirst(v T) bool {
	for n := r.head; n != nil; n = n.next {
		if n.value == v {
			r.unlink(n)
			r.dispose(n.value)
			return true
		}
	}
	return false
}

// RemoveAll removes and disposes every element equal to v and returns the
// number removed. Relative order of the remaining elements is preserved.
func (r *Ranker[T]) RemoveAll(v T) int {
	removed := 0
	for n := r.head; n != nil; {
		next := n.next
		if n.value == v {
			r.unlink(n)
			r.dispose(n.value)
			removed++
		}
		n = next
	}
	return removed
}

// RemoveFirstFunc removes and disposes the first element matched by the
// predicate. It reports whether an element was removed.
func (r *Ranker[T]) RemoveFirstFunc(match func(T) bool) bool {
	for n := r.head; n != nil; n = n.next {
		if match(n.value) {
			r.unlink(n)
			r.dispose(n.value)
			return true
		}
	}
	return false
}

// RemoveAllFunc removes and disposes every element matched by the predicate
// and returns the number removed.
func (r *Ranker[T]) RemoveAllFunc(match func(T) bool) int {
	removed := 0
	for n := r.head; n != nil; {
		next := n.next
		if match(n.value) {
			r.unlink(n)
			r.dispose(n.value)
			removed++
		}
		n = next
	}
	return removed
}

// Clear disposes every remaining element exactly once and empties the ranker.
func (r *Ranker[T]) Clear() {
	for n := r.head; n != nil; n = n.next {
		r.dispose(n.value)
	}
	r.head = nil
	r.tail = nil
	r.size = 0
}

// Len returns the number of elements currently held.
func (r *Ranker[T]) Len() int {
	return r.size
}

// Empty reports whether the ranker holds no elements.
func (r *Ranker[T]) Empty() bool {
	return r.size == 0
}

// Capacity returns the maximum number of elements the ranker may hold.
func (r *Ranker[T]) Capacity() int {
	return r.capacity
}

// Top returns the highest-ranked element, or ErrEmpty if there is none.
func (r *Ranker[T]) Top() (T, error) {
	if r.head == nil {
		var zero T
		return zero, ErrEmpty
	}
	return r.head.value, nil
}

// Bottom returns the lowest-ranked element currently retained, or ErrEmpty
// if there is none.
func (r *Ranker[T]) Bottom() (T, error) {
	if r.tail == nil {
		var zero T
		return zero, ErrEmpty
	}
	return r.tail.value, nil
}

// insertBefore links n immediately before at; a nil at appends at the tail.
func (r *Ranker[T]) insertBefore(n, at *node[T]) {
	if at == nil {
		n.prev = r.tail
		if r.tail != nil {
			r.tail.next = n
		} else {
			r.head = n
		}
		r.tail = n
	} else {
		n.prev = at.prev
		n.next = at
		if at.prev != nil {
			at.prev.next = n
		} else {
			r.head = n
		}
		at.prev = n
	}
	r.size++
}

// unlink detaches n from the list. n must be an element of the list.
func (r *Ranker[T]) unlink(n *node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		r.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		r.tail = n.prev
	}
	n.prev = nil
	n.next = nil
	r.size--
}
