package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/ranker/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		ctx := context.Background()

		Convey("When recording submission IDs", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the ID is new", func() {
				seen := d.SeenAndRecord(ctx, "sub-1")

				Convey("Then it should return false and record the ID", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the ID was already seen", func() {
				d.SeenAndRecord(ctx, "sub-1")
				seen := d.SeenAndRecord(ctx, "sub-1")

				Convey("Then it should return true without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When unrecording submission IDs", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the ID exists", func() {
				d.SeenAndRecord(ctx, "sub-1")
				d.Unrecord(ctx, "sub-1")

				Convey("Then it should be retryable again", func() {
					So(d.Size(), ShouldEqual, 0)
					So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
				})
			})

			Convey("And the ID doesn't exist", func() {
				d.Unrecord(ctx, "nonexistent")

				Convey("Then it should not affect the size", func() {
					So(d.Size(), ShouldEqual, 0)
				})
			})
		})

		Convey("When the bounded cache overflows", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			for i := 0; i < 3; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i)), ShouldBeFalse)
			}
			So(d.SeenAndRecord(ctx, "sub-3"), ShouldBeFalse)

			Convey("Then the oldest ID is evicted and can be re-recorded", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "sub-0"), ShouldBeFalse)

				Convey("And the newest IDs remain recorded", func() {
					So(d.SeenAndRecord(ctx, "sub-3"), ShouldBeTrue)
				})
			})
		})

		Convey("When running in unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
				So(d.SeenAndRecord(ctx, "sub-0"), ShouldBeTrue)
			})
		})
	})
}

func TestInMemoryDeduper_Concurrent(t *testing.T) {
	d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(10000))
	ctx := context.Background()

	const goroutines = 8
	const perGoroutine = 500

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("g%d-sub-%d", g, i))
			}
		}(g)
	}
	wg.Wait()

	if got := d.Size(); got != goroutines*perGoroutine {
		t.Fatalf("size = %d, want %d", got, goroutines*perGoroutine)
	}
}
