package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func echoTrace(w http.ResponseWriter, r *http.Request) {
	trace, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	w.Header().Set("X-Seen-Trace", trace)
	w.WriteHeader(http.StatusTeapot)
}

func TestWrap_Auth(t *testing.T) {
	Configure("secret", false)
	defer Configure("", false)
	limiterInstance = NewIPRateLimiter(rate.Inf, 1)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer secret", http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Wrap(echoTrace)(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestWrap_TraceIdPropagates(t *testing.T) {
	Configure("", true)
	defer Configure("", false)
	limiterInstance = NewIPRateLimiter(rate.Inf, 1)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Trace-Id", "trace-123")
	rec := httptest.NewRecorder()

	Wrap(echoTrace)(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get("X-Seen-Trace"))
	assert.Equal(t, "trace-123", rec.Header().Get("X-Trace-Id"))
}

func TestWrap_GeneratesTraceId(t *testing.T) {
	Configure("", true)
	defer Configure("", false)
	limiterInstance = NewIPRateLimiter(rate.Inf, 1)

	rec := httptest.NewRecorder()
	Wrap(echoTrace)(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Seen-Trace"))
}

func TestWrap_RateLimited(t *testing.T) {
	Configure("", true)
	defer Configure("", false)
	limiterInstance = NewIPRateLimiter(rate.Limit(0.001), 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		Wrap(echoTrace)(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusTeapot, http.StatusTeapot, http.StatusTooManyRequests}, codes)
}

func TestIPRateLimiter_PerAddress(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)

	assert.Same(t, l.GetLimiter("a"), l.GetLimiter("a"))
	assert.NotSame(t, l.GetLimiter("a"), l.GetLimiter("b"))
}

func TestIsValidBearerToken_NoTokenConfigured(t *testing.T) {
	Configure("", false)

	assert.False(t, IsValidBearerToken("Bearer ", logger_i.NewLogger("test")))
}

func TestIPRateLimiter_SweepsIdleVisitors(t *testing.T) {
	clock := time.Unix(0, 0)
	l := NewIPRateLimiter(rate.Limit(1), 1)
	l.now = func() time.Time { return clock }

	first := l.GetLimiter("a")
	clock = clock.Add(limiterIdleTTL + time.Minute)
	l.GetLimiter("b")

	assert.Len(t, l.visitors, 1)
	assert.NotSame(t, first, l.GetLimiter("a"))
}
