// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/ranker/pkg/metrics"
)

// instrument wraps a handler so every request lands in the request counter
// and duration histogram under the given endpoint label. Error responses are
// additionally classified per component for the error-rate vec.
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		defer func() {
			elapsed := float64(time.Since(start).Milliseconds())
			code := strconv.Itoa(rec.status)
			metrics.RecordHTTPRequest(endpoint, r.Method, code)
			metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, elapsed)
			if class := errorClass(rec.status); class != "" {
				metrics.RecordErrorByComponent("http_"+endpoint, class)
			}
		}()

		next.ServeHTTP(rec, r)
	}
}

// errorClass buckets an HTTP status for the error-rate vec. Success statuses
// map to the empty string and are not recorded.
func errorClass(status int) string {
	switch {
	case status < http.StatusBadRequest:
		return ""
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusTooManyRequests:
		return "rate_limit"
	case status < http.StatusInternalServerError:
		return "client_error"
	default:
		return "server_error"
	}
}

// statusRecorder remembers the status code written by the wrapped handler.
// WriteHeader may never be called; the zero response is a 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
