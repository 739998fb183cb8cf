package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ranker/internal/domain/model"
	"github.com/okian/ranker/internal/domain/scoring"
	"github.com/okian/ranker/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubQueue delivers a fixed set of submissions then closes the channel.
type stubQueue struct {
	subs []model.Submission
}

func (q *stubQueue) Dequeue(ctx context.Context) <-chan Submission {
	out := make(chan Submission, len(q.subs))
	for _, s := range q.subs {
		out <- s
	}
	close(out)
	return out
}

// recordingSubmitter captures everything submitted to the board.
type recordingSubmitter struct {
	mu   sync.Mutex
	subs []model.Submission
	err  error
}

func (s *recordingSubmitter) Submit(ctx context.Context, sub model.Submission) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	s.subs = append(s.subs, sub)
	return true, nil
}

func (s *recordingSubmitter) submitted() []model.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Submission, len(s.subs))
	copy(out, s.subs)
	return out
}

// failingScorer always returns an error.
type failingScorer struct{}

func (failingScorer) Score(ctx context.Context, in scoring.Input) (scoring.Result, error) {
	return scoring.Result{}, errors.New("scoring backend unavailable")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestScoringWorker_ProcessesSubmissions(t *testing.T) {
	Convey("Given a worker over a queue with two submissions", t, func() {
		q := &stubQueue{subs: []model.Submission{
			{ID: "s1", PlayerID: "alice", RawMetric: 50, Skill: "sprint"},
			{ID: "s2", PlayerID: "bob", RawMetric: 30, Skill: "sprint"},
		}}
		submitter := &recordingSubmitter{}
		scorer := scoring.NewWeightedScorer(scoring.WithSkillWeights(map[string]float64{"sprint": 1.5}, 1.0))
		w := NewScoringWorker(q, scorer, submitter, WithName("test-worker"))

		Convey("When the worker runs until the queue drains", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			w.Run(ctx)

			Convey("Then both submissions are scored and submitted", func() {
				got := submitter.submitted()
				So(got, ShouldHaveLength, 2)
				So(got[0].ID, ShouldEqual, "s1")
				So(got[0].Score, ShouldEqual, 75.0)
				So(got[1].Score, ShouldEqual, 45.0)
			})
		})
	})
}

func TestScoringWorker_ScoringFailure(t *testing.T) {
	Convey("Given a worker whose scorer always fails", t, func() {
		q := &stubQueue{subs: []model.Submission{
			{ID: "s1", PlayerID: "alice", RawMetric: 50, Skill: "sprint"},
		}}
		submitter := &recordingSubmitter{}
		w := NewScoringWorker(q, failingScorer{}, submitter)

		Convey("When the worker runs", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			w.Run(ctx)

			Convey("Then nothing reaches the board", func() {
				So(submitter.submitted(), ShouldBeEmpty)
			})
		})
	})
}

func TestScoringWorker_Shutdown(t *testing.T) {
	Convey("Given a running worker on an empty open channel", t, func() {
		blocking := make(chan Submission)
		q := queueFunc(func(ctx context.Context) <-chan Submission { return blocking })
		submitter := &recordingSubmitter{}
		scorer := scoring.NewWeightedScorer()
		w := NewScoringWorker(q, scorer, submitter)

		go w.Run(context.Background())

		Convey("When Shutdown is called", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			err := w.Shutdown(ctx)

			Convey("Then the worker stops cleanly", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

type queueFunc func(ctx context.Context) <-chan Submission

func (f queueFunc) Dequeue(ctx context.Context) <-chan Submission { return f(ctx) }

func TestPool_ProcessesAcrossWorkers(t *testing.T) {
	subs := make([]model.Submission, 20)
	for i := range subs {
		subs[i] = model.Submission{
			ID:        "s" + string(rune('a'+i)),
			PlayerID:  "p",
			RawMetric: float64(i),
			Skill:     "sprint",
		}
	}

	shared := make(chan Submission, len(subs))
	for _, s := range subs {
		shared <- s
	}
	close(shared)
	q := queueFunc(func(ctx context.Context) <-chan Submission { return shared })

	submitter := &recordingSubmitter{}
	pool := NewPool(4, q, scoring.NewWeightedScorer(), submitter)
	if pool.Size() != 4 {
		t.Fatalf("expected 4 workers, got %d", pool.Size())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	waitFor(t, func() bool { return len(submitter.submitted()) == len(subs) })

	if err := pool.Shutdown(ctx); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}

func TestNewPool_DefaultsWorkerCount(t *testing.T) {
	q := queueFunc(func(ctx context.Context) <-chan Submission {
		out := make(chan Submission)
		close(out)
		return out
	})
	pool := NewPool(0, q, scoring.NewWeightedScorer(), &recordingSubmitter{})
	if pool.Size() < 1 {
		t.Fatalf("expected at least one worker, got %d", pool.Size())
	}
}
