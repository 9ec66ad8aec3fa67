package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowLimiterResetsAfterWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newWindowLimiter(2, 15*time.Minute)
	l.now = func() time.Time { return now }

	ok, _ := l.allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = l.allow("1.2.3.4")
	assert.True(t, ok)

	ok, retry := l.allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 15*time.Minute, retry)

	ok, _ = l.allow("5.6.7.8")
	assert.True(t, ok, "clients are counted separately")

	now = now.Add(10 * time.Minute)
	ok, retry = l.allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 5*time.Minute, retry)

	now = now.Add(5 * time.Minute)
	ok, _ = l.allow("1.2.3.4")
	assert.True(t, ok)
}

func TestRateLimitedAnalysisRoutes(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	h := NewHandler(Config{
		Analyzer:        analyzer,
		HMW:             &fakeHMW{},
		RateLimitMax:    2,
		RateLimitWindow: time.Minute,
	})

	send := func(path, body string) *httptest.ResponseRecorder {
		method := http.MethodPost
		if body == "" {
			method = http.MethodGet
		}
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("/api/analysis/analyze", validBody).Code)
	assert.Equal(t, http.StatusOK, send("/api/analysis/analyze", validBody).Code)

	rec := send("/api/analysis/analyze", validBody)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), rateLimitMessage)
	assert.EqualValues(t, 2, analyzer.calls.Load())

	assert.Equal(t, http.StatusOK, send("/api/health", "").Code, "top-level health is not limited")
}
