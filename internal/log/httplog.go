package log

import (
	"context"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequestIDHeader carries the per-request identifier back to the client
const RequestIDHeader = "X-Request-ID"

// UnmatchedRoute is reported for requests that no route matched
const UnmatchedRoute = "unmatched"

type requestInfoKey struct{}

// requestInfo is shared between the outer access-log middleware and the
// router-level RouteTagger; the tagger fills in the route once mux has matched.
type requestInfo struct {
	id    string
	route string
}

// HTTPLogEntry represents an HTTP request/response log entry
type HTTPLogEntry struct {
	RequestID  string
	Method     string
	Path       string
	Route      string
	Status     int
	Duration   time.Duration
	Size       int64
	RemoteAddr string
	UserAgent  string
}

// HTTPObserver receives every completed request, e.g. for metrics.
type HTTPObserver func(entry HTTPLogEntry)

// RequestID returns the request identifier assigned by HTTPMiddleware.
func RequestID(ctx context.Context) string {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		return info.id
	}
	return ""
}

// HTTPMiddleware wraps the whole router: it assigns a request id, logs each
// request after it completes and hands the entry to the observers.
func HTTPMiddleware(next http.Handler, observers ...HTTPObserver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		info := &requestInfo{
			id:    req.Header.Get(RequestIDHeader),
			route: UnmatchedRoute,
		}
		if info.id == "" {
			info.id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, info.id)
		req = req.WithContext(context.WithValue(req.Context(), requestInfoKey{}, info))

		m := httpsnoop.CaptureMetrics(next, w, req)

		entry := HTTPLogEntry{
			RequestID:  info.id,
			Method:     req.Method,
			Path:       req.URL.Path,
			Route:      info.route,
			Status:     m.Code,
			Duration:   m.Duration,
			Size:       m.Written,
			RemoteAddr: req.RemoteAddr,
			UserAgent:  req.UserAgent(),
		}
		LogHTTPRequest(entry)

		for _, observe := range observers {
			observe(entry)
		}
	})
}

// RouteTagger is a mux middleware that records the matched route template
// for HTTPMiddleware.
func RouteTagger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if info, ok := req.Context().Value(requestInfoKey{}).(*requestInfo); ok {
			if route := mux.CurrentRoute(req); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					info.route = tmpl
				}
			}
		}
		next.ServeHTTP(w, req)
	})
}

// LogHTTPRequest writes a structured access log line for a completed request
func LogHTTPRequest(e HTTPLogEntry) {
	fields := []interface{}{
		"request_id", e.RequestID,
		"method", e.Method,
		"path", e.Path,
		"route", e.Route,
		"status", e.Status,
		"duration_ms", e.Duration.Milliseconds(),
		"size", e.Size,
		"remote_addr", e.RemoteAddr,
		"user_agent", e.UserAgent,
	}

	switch {
	case e.Status >= http.StatusInternalServerError:
		Errorw("http request", fields...)
	case e.Status >= http.StatusBadRequest:
		Warnw("http request", fields...)
	default:
		Infow("http request", fields...)
	}
}
