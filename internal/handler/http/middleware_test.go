package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handlerhttp "devnest-backend/internal/handler/http"
)

func TestLoggingEmitsStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := handlerhttp.Logging(logger)(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusCreated)
		_, _ = w.Write([]byte("made"))
	}))

	req := httptest.NewRequest(nethttp.MethodPost, "/contact?src=footer", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "request completed", record["msg"])
	assert.Equal(t, "POST", record["method"])
	assert.Equal(t, "/contact", record["path"])
	assert.Equal(t, "src=footer", record["query"])
	assert.Equal(t, float64(nethttp.StatusCreated), record["status"])
	assert.Equal(t, float64(4), record["bytes"])
}

func TestRecoverConvertsPanicTo500(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	handler := handlerhttp.Recover(logger)(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/blog", nil))

	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.NotContains(t, body["message"], "boom")
}

func TestRecoverLogsPanicDetails(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := handlerhttp.Recover(logger)(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		panic("nil repository")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(nethttp.MethodGet, "/blog", nil))

	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "nil repository")
}

func TestLimitRequestBody(t *testing.T) {
	handler := handlerhttp.LimitRequestBody(16)(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(nethttp.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(nethttp.StatusOK)
	}))

	small := httptest.NewRequest(nethttp.MethodPost, "/contact", strings.NewReader("short"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, small)
	assert.Equal(t, nethttp.StatusOK, rec.Code)

	large := httptest.NewRequest(nethttp.MethodPost, "/contact", strings.NewReader(strings.Repeat("x", 64)))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, large)
	assert.Equal(t, nethttp.StatusRequestEntityTooLarge, rec.Code)
}

func TestRateLimiterEnforcesLimit(t *testing.T) {
	rl := handlerhttp.NewRateLimiter(3, time.Minute)
	handler := rl.Limit(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(nethttp.MethodPost, "/contact", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, nethttp.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(nethttp.MethodPost, "/contact", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, nethttp.StatusTooManyRequests, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := handlerhttp.NewRateLimiter(1, time.Minute)
	handler := rl.Limit(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
	}))

	first := httptest.NewRequest(nethttp.MethodPost, "/contact", nil)
	first.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, nethttp.StatusOK, rec.Code)

	other := httptest.NewRequest(nethttp.MethodPost, "/contact", nil)
	other.RemoteAddr = "198.51.100.4:5678"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestRateLimiterUsesForwardedFor(t *testing.T) {
	rl := handlerhttp.NewRateLimiter(1, time.Minute)
	handler := rl.Limit(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
	}))

	// Same proxy address, different original clients.
	for _, client := range []string{"203.0.113.7", "198.51.100.4"} {
		req := httptest.NewRequest(nethttp.MethodPost, "/contact", nil)
		req.RemoteAddr = "10.0.0.1:80"
		req.Header.Set("X-Forwarded-For", client+", 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, nethttp.StatusOK, rec.Code)
	}

	// Second request from an already-counted client is rejected.
	req := httptest.NewRequest(nethttp.MethodPost, "/contact", nil)
	req.RemoteAddr = "10.0.0.1:80"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, nethttp.StatusTooManyRequests, rec.Code)
}
