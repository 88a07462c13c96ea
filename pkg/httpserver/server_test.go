package httpserver

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mselser95/futures-bot/pkg/healthprobe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRoutes(t *testing.T) {
	hc := healthprobe.New()
	hc.SetReady(true)
	hc.SetProgress(healthprobe.Progress{RunID: "run-1", TotalChunks: 3})

	server := New(&Config{Port: "0", Logger: zaptest.NewLogger(t), HealthChecker: hc})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "metrics", path: "/metrics", wantStatus: http.StatusOK, wantBody: "go_goroutines"},
		{name: "health", path: "/health", wantStatus: http.StatusOK, wantBody: `"status":"healthy"`},
		{name: "ready", path: "/ready", wantStatus: http.StatusOK, wantBody: `"status":"ready"`},
		{name: "progress", path: "/progress", wantStatus: http.StatusOK, wantBody: `"run_id":"run-1"`},
		{name: "unknown", path: "/api/orderbook", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			server.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestServeAndShutdown(t *testing.T) {
	hc := healthprobe.New()
	server := New(&Config{Port: "0", Logger: zaptest.NewLogger(t), HealthChecker: hc})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ready")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "not_ready")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStart_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	server := New(&Config{Port: port, Logger: zaptest.NewLogger(t), HealthChecker: healthprobe.New()})

	err = server.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
