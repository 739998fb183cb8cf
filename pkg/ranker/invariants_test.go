package ranker_test

import (
	"math/rand"
	"testing"

	"github.com/okian/ranker/pkg/ranker"
)

// sortedAscending checks invariant I2 over a top-to-bottom traversal.
func sortedAscending(r *ranker.Ranker[int]) bool {
	prev, first := 0, true
	for v := range r.All() {
		if !first && v < prev {
			return false
		}
		prev, first = v, false
	}
	return true
}

func TestRanker_CapacityInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, capacity := range []int{0, 1, 3, 16, 100} {
		r := ranker.NewOrdered[int](capacity)

		for i := 0; i < 1000; i++ {
			r.Insert(rng.Intn(500))

			if r.Len() > capacity {
				t.Fatalf("capacity %d exceeded: len=%d after insert %d", capacity, r.Len(), i)
			}
			if !sortedAscending(r) {
				t.Fatalf("capacity %d: sequence out of order after insert %d", capacity, i)
			}
		}
	}
}

func TestRanker_DisposalCompleteness(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	disposed := 0
	r := ranker.NewOrdered(8, ranker.WithDisposal[int](func(int) { disposed++ }))

	inserted := 0
	for i := 0; i < 200; i++ {
		r.Insert(rng.Intn(50))
		inserted++
	}

	// Some explicit removals in the middle of the run.
	removedByValue := r.RemoveAll(rng.Intn(50))
	r.Clear()

	if want := inserted; disposed != want {
		t.Fatalf("disposal count mismatch: disposed=%d inserted=%d removedByValue=%d", disposed, want, removedByValue)
	}
	if !r.Empty() {
		t.Fatalf("ranker not empty after clear: len=%d", r.Len())
	}
}

func TestRanker_InsertReturnReflectsSurvival(t *testing.T) {
	r := ranker.NewOrdered[int](4)

	// Below capacity the insert must always survive.
	for _, v := range []int{9, 7, 8, 7} {
		if !r.Insert(v) {
			t.Fatalf("insert %d reported eviction before capacity was reached", v)
		}
	}

	tests := []struct {
		name string
		v    int
		want bool
	}{
		{name: "outranks the bottom", v: 1, want: true},
		{name: "equals the bottom with after-equal tie-break", v: 8, want: false},
		{name: "ranks below the bottom", v: 100, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Insert(tt.v); got != tt.want {
				t.Errorf("Insert(%d) = %v, want %v (state %v)", tt.v, got, tt.want, r.Slice())
			}
			if r.Len() != 4 {
				t.Errorf("len = %d, want 4", r.Len())
			}
		})
	}
}

func BenchmarkRankerInsert(b *testing.B) {
	rng := rand.New(rand.NewSource(3))
	r := ranker.NewOrdered[int](100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Insert(rng.Int())
	}
}
