package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ranker/internal/adapters/http/api"
	"github.com/okian/ranker/internal/adapters/repository"
)

// Mock implementations for testing
type mockDeps struct {
	seen     map[string]bool
	enqueued []api.SubmissionInput
	accept   bool

	entries   []api.Entry
	listErr   error
	topErr    error
	bottomErr error
	bestErr   error
	removeErr error
	removed   []string
}

func newMockDeps() *mockDeps {
	return &mockDeps{seen: make(map[string]bool), accept: true}
}

func (m *mockDeps) SeenAndRecord(ctx context.Context, id string) bool {
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func (m *mockDeps) Unrecord(ctx context.Context, id string) {
	delete(m.seen, id)
}

func (m *mockDeps) Size() int64 {
	return int64(len(m.seen))
}

func (m *mockDeps) Enqueue(ctx context.Context, sub api.SubmissionInput) bool {
	if !m.accept {
		return false
	}
	m.enqueued = append(m.enqueued, sub)
	return true
}

func (m *mockDeps) List(ctx context.Context, n int) ([]api.Entry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if n > len(m.entries) {
		return m.entries, nil
	}
	return m.entries[:n], nil
}

func (m *mockDeps) Top(ctx context.Context) (api.Entry, error) {
	if m.topErr != nil {
		return api.Entry{}, m.topErr
	}
	return m.entries[0], nil
}

func (m *mockDeps) Bottom(ctx context.Context) (api.Entry, error) {
	if m.bottomErr != nil {
		return api.Entry{}, m.bottomErr
	}
	return m.entries[len(m.entries)-1], nil
}

func (m *mockDeps) PlayerBest(ctx context.Context, playerID string) (api.Entry, error) {
	if m.bestErr != nil {
		return api.Entry{}, m.bestErr
	}
	for _, e := range m.entries {
		if e.PlayerID == playerID {
			return e, nil
		}
	}
	return api.Entry{}, repository.ErrNotFound
}

func (m *mockDeps) Remove(ctx context.Context, submissionID string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, submissionID)
	return nil
}

type mockStatsProvider struct {
	stats api.Stats
}

func (m *mockStatsProvider) GetStats() api.Stats {
	return m.stats
}

func newTestMux(deps *mockDeps) *http.ServeMux {
	provider := &mockStatsProvider{stats: api.Stats{
		Started:       true,
		BoardSize:     3,
		BoardCapacity: 100,
		Workers:       2,
	}}
	server := api.NewServer(deps, provider, 100)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDeps()
		deps.entries = []api.Entry{
			{Rank: 1, SubmissionID: "s1", PlayerID: "alice", Skill: "sprint", Score: 90},
		}
		mux := newTestMux(deps)

		Convey("Then the health endpoint serves the metrics exposition", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint returns the pipeline snapshot", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

			var stats api.Stats
			So(json.NewDecoder(w.Body).Decode(&stats), ShouldBeNil)
			So(stats.Started, ShouldBeTrue)
			So(stats.BoardSize, ShouldEqual, 3)
			So(stats.BoardCapacity, ShouldEqual, 100)
			So(stats.Workers, ShouldEqual, 2)
		})
	})
}

func TestSubmissionsHandler_Post(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)

		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("POST", "/submissions", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When posting a valid submission", func() {
			w := post(`{"submission_id":"s1","player_id":"alice","raw_metric":42.5,"skill":"sprint","ts":"2026-08-28T10:00:00Z"}`)

			Convey("Then it is accepted and enqueued", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				var ack map[string]any
				So(json.NewDecoder(w.Body).Decode(&ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "accepted")
				So(ack["duplicate"], ShouldEqual, false)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].ID, ShouldEqual, "s1")
				So(deps.enqueued[0].RawMetric, ShouldEqual, 42.5)
			})

			Convey("And posting the same submission again reports a duplicate", func() {
				w2 := post(`{"submission_id":"s1","player_id":"alice","raw_metric":42.5,"skill":"sprint","ts":"2026-08-28T10:00:00Z"}`)
				So(w2.Code, ShouldEqual, http.StatusOK)
				var ack map[string]any
				So(json.NewDecoder(w2.Body).Decode(&ack), ShouldBeNil)
				So(ack["duplicate"], ShouldEqual, true)
				So(deps.enqueued, ShouldHaveLength, 1)
			})
		})

		Convey("When posting without a submission ID", func() {
			w := post(`{"player_id":"bob","raw_metric":10,"skill":"sprint","ts":"2026-08-28T10:00:00Z"}`)

			Convey("Then the server assigns one", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				var ack map[string]any
				So(json.NewDecoder(w.Body).Decode(&ack), ShouldBeNil)
				So(ack["submission_id"], ShouldNotBeEmpty)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].ID, ShouldNotBeEmpty)
			})
		})

		Convey("When posting malformed JSON", func() {
			w := post(`{not json`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting with a missing player_id", func() {
			w := post(`{"submission_id":"s2","raw_metric":10,"skill":"sprint","ts":"2026-08-28T10:00:00Z"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting with a bad timestamp", func() {
			w := post(`{"submission_id":"s3","player_id":"bob","raw_metric":10,"skill":"sprint","ts":"yesterday"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the queue reports backpressure", func() {
			deps.accept = false
			w := post(`{"submission_id":"s4","player_id":"bob","raw_metric":10,"skill":"sprint","ts":"2026-08-28T10:00:00Z"}`)

			Convey("Then the request is rejected and the seen mark rolled back", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.seen["s4"], ShouldBeFalse)
			})
		})
	})
}

func TestSubmissionsHandler_Delete(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)

		Convey("When deleting an existing submission", func() {
			req := httptest.NewRequest("DELETE", "/submissions/s1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the removal is confirmed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.removed, ShouldResemble, []string{"s1"})
			})
		})

		Convey("When deleting an unknown submission", func() {
			deps.removeErr = repository.ErrNotFound
			req := httptest.NewRequest("DELETE", "/submissions/missing", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the path has no submission ID", func() {
			req := httptest.NewRequest("DELETE", "/submissions/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestLeaderboardHandler(t *testing.T) {
	Convey("Given a board with three entries", t, func() {
		deps := newMockDeps()
		deps.entries = []api.Entry{
			{Rank: 1, SubmissionID: "s1", PlayerID: "alice", Skill: "sprint", Score: 90},
			{Rank: 2, SubmissionID: "s2", PlayerID: "bob", Skill: "sprint", Score: 80},
			{Rank: 3, SubmissionID: "s3", PlayerID: "carol", Skill: "jump", Score: 70},
		}
		mux := newTestMux(deps)

		get := func(path string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When requesting the leaderboard with a valid limit", func() {
			w := get("/leaderboard?limit=2")

			Convey("Then the top entries come back in rank order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var entries []api.Entry
				So(json.NewDecoder(w.Body).Decode(&entries), ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].PlayerID, ShouldEqual, "alice")
				So(entries[1].PlayerID, ShouldEqual, "bob")
			})
		})

		Convey("When the limit is missing or invalid", func() {
			So(get("/leaderboard").Code, ShouldEqual, http.StatusBadRequest)
			So(get("/leaderboard?limit=0").Code, ShouldEqual, http.StatusBadRequest)
			So(get("/leaderboard?limit=abc").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit exceeds the maximum", func() {
			So(get("/leaderboard?limit=101").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting the top entry", func() {
			w := get("/top")
			So(w.Code, ShouldEqual, http.StatusOK)
			var entry api.Entry
			So(json.NewDecoder(w.Body).Decode(&entry), ShouldBeNil)
			So(entry.PlayerID, ShouldEqual, "alice")
		})

		Convey("When requesting the bottom entry", func() {
			w := get("/bottom")
			So(w.Code, ShouldEqual, http.StatusOK)
			var entry api.Entry
			So(json.NewDecoder(w.Body).Decode(&entry), ShouldBeNil)
			So(entry.PlayerID, ShouldEqual, "carol")
		})

		Convey("When the board is empty", func() {
			deps.topErr = repository.ErrEmpty
			deps.bottomErr = repository.ErrEmpty
			So(get("/top").Code, ShouldEqual, http.StatusNotFound)
			So(get("/bottom").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When requesting a player's best entry", func() {
			w := get("/players/bob")
			So(w.Code, ShouldEqual, http.StatusOK)
			var entry api.Entry
			So(json.NewDecoder(w.Body).Decode(&entry), ShouldBeNil)
			So(entry.SubmissionID, ShouldEqual, "s2")
		})

		Convey("When requesting an unknown player", func() {
			So(get("/players/nobody").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the store fails", func() {
			deps.listErr = fmt.Errorf("store exploded")
			So(get("/leaderboard?limit=2").Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestMethodNotAllowed(t *testing.T) {
	deps := newMockDeps()
	mux := newTestMux(deps)

	cases := []struct {
		method string
		path   string
	}{
		{"GET", "/submissions"},
		{"POST", "/leaderboard"},
		{"POST", "/top"},
		{"POST", "/bottom"},
		{"GET", "/submissions/s1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s %s: got %d, want %d", tc.method, tc.path, w.Code, http.StatusNotFound)
		}
	}
}
