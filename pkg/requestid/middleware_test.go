package requestid_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/siteadmin/pkg/logger"
	"github.com/dmitrymomot/siteadmin/pkg/requestid"
)

// serve runs Middleware with the given X-Request-ID header and returns the id
// seen by the handler and the one echoed in the response.
func serve(t *testing.T, header string) (seen, echoed string) {
	t.Helper()
	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin/auth/session", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"missing", "", false},
		{"uuid from proxy", "550e8400-e29b-41d4-a716-446655440000", true},
		{"short token", "edge_7F-2", true},
		{"whitespace", "req 1", false},
		{"markup", "<b>id</b>", false},
		{"too long", strings.Repeat("a", 129), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			seen, echoed := serve(t, tt.header)

			assert.Equal(t, seen, echoed)
			if tt.keep {
				assert.Equal(t, tt.header, seen)
				return
			}
			_, err := uuid.Parse(seen)
			assert.NoError(t, err, "replacement id should be a uuid")
		})
	}

	t.Run("fresh id per request", func(t *testing.T) {
		t.Parallel()
		first, _ := serve(t, "")
		second, _ := serve(t, "")
		assert.NotEqual(t, first, second)
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()
	assert.Empty(t, requestid.FromContext(context.Background()))
	assert.Equal(t, "r-1", requestid.FromContext(requestid.WithContext(context.Background(), "r-1")))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithContextExtractors(requestid.LoggerExtractor()))

	log.InfoContext(requestid.WithContext(context.Background(), "req-1"), "tagged")
	log.InfoContext(context.Background(), "untagged")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"request_id":"req-1"`)
	assert.NotContains(t, string(lines[1]), "request_id")
}

func TestAccessLog(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelDebug))

	handler := requestid.Middleware(requestid.AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/pages/home", nil)
	req.Header.Set(requestid.Header, "abc-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/boom", nil))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"path":"/pages/home"`)
	assert.Contains(t, string(lines[0]), `"status":200`)
	assert.Contains(t, string(lines[0]), `"request_id":"abc-1"`)
	assert.Contains(t, string(lines[1]), `"level":"ERROR"`)
	assert.Contains(t, string(lines[1]), `"status":500`)
}
