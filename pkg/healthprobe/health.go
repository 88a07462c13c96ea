package healthprobe

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

// HealthChecker provides health and readiness checks, plus the progress of
// the order run in flight.
type HealthChecker struct {
	startTime time.Time
	ready     atomic.Bool

	mu       sync.RWMutex
	progress *Progress
}

// New creates a new HealthChecker.
func New() *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
	}
}

// SetReady marks the application as ready to serve traffic.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Progress is a snapshot of a running TWAP execution.
type Progress struct {
	RunID            string    `json:"run_id"`
	Symbol           string    `json:"symbol"`
	Side             string    `json:"side"`
	TotalChunks      int       `json:"total_chunks"`
	PlacedChunks     int       `json:"placed_chunks"`
	FailedChunks     int       `json:"failed_chunks"`
	ExecutedQuantity string    `json:"executed_quantity"`
	LastOrderID      int64     `json:"last_order_id,omitempty"`
	Status           string    `json:"status"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SetProgress replaces the published progress snapshot.
func (h *HealthChecker) SetProgress(p Progress) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.progress = &p
}

// UpdateProgress applies fn to the current snapshot. It is a no-op until
// SetProgress has been called.
func (h *HealthChecker) UpdateProgress(fn func(p *Progress)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.progress == nil {
		return
	}
	fn(h.progress)
	h.progress.UpdatedAt = time.Now()
}

// CurrentProgress returns a copy of the snapshot, or nil if none was published.
func (h *HealthChecker) CurrentProgress() *Progress {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.progress == nil {
		return nil
	}
	p := *h.progress
	return &p
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string    `json:"status"`
	Uptime   string    `json:"uptime"`
	Message  string    `json:"message,omitempty"`
	Progress *Progress `json:"progress,omitempty"`
}

// Health returns an HTTP handler for liveness checks.
// Always returns 200 OK if the application is running.
func (h *HealthChecker) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:   "healthy",
			Uptime:   time.Since(h.startTime).String(),
			Progress: h.CurrentProgress(),
		})
	}
}

// Ready returns an HTTP handler for readiness checks.
// Returns 200 OK if ready, 503 Service Unavailable if not.
func (h *HealthChecker) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.ready.Load() {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "not_ready",
				Message: "application is starting",
			})
			return
		}

		writeJSON(w, http.StatusOK, HealthResponse{
			Status: "ready",
			Uptime: time.Since(h.startTime).String(),
		})
	}
}

// ProgressHandler serves the current run snapshot, or 404 before a run starts.
func (h *HealthChecker) ProgressHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := h.CurrentProgress()
		if p == nil {
			writeJSON(w, http.StatusNotFound, HealthResponse{
				Status:  "idle",
				Message: "no run in progress",
			})
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
