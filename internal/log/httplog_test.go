package log

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(RouteTagger)

	var seenID string
	router.HandleFunc("/state/{state}", func(w http.ResponseWriter, req *http.Request) {
		seenID = RequestID(req.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hello"))
	})

	tests := []struct {
		name       string
		path       string
		header     string
		wantRoute  string
		wantStatus int
	}{
		{
			name:       "matched route records template",
			path:       "/state/iowa",
			wantRoute:  "/state/{state}",
			wantStatus: http.StatusTeapot,
		},
		{
			name:       "unmatched route",
			path:       "/nope",
			wantRoute:  UnmatchedRoute,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "incoming request id is kept",
			path:       "/state/texas",
			header:     "abc-123",
			wantRoute:  "/state/{state}",
			wantStatus: http.StatusTeapot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got HTTPLogEntry
			h := HTTPMiddleware(router, func(e HTTPLogEntry) { got = e })

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantRoute, got.Route)
			require.Equal(t, tt.wantStatus, got.Status)
			require.NotEmpty(t, got.RequestID)
			require.Equal(t, got.RequestID, rec.Header().Get(RequestIDHeader))
			if tt.header != "" {
				require.Equal(t, tt.header, got.RequestID)
			}
			if tt.wantStatus == http.StatusTeapot {
				require.Equal(t, got.RequestID, seenID)
				require.EqualValues(t, len("hello"), got.Size)
			}
		})
	}
}
