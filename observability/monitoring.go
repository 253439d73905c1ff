package observability

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// RecentRequest is one handled request, kept for the debug page.
type RecentRequest struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Duration  string `json:"duration"`
	Timestamp string `json:"timestamp"`
}

// Stats aggregates the counters shown on the debug page.
type Stats struct {
	RequestsServed uint64          `json:"requests_served"`
	ClientErrors   uint64          `json:"client_errors"`
	ServerErrors   uint64          `json:"server_errors"`
	RequestsPerSec float64         `json:"requests_per_sec"`
	AllocMemMb     uint64          `json:"alloc_mem_mb"`
	NumGC          uint32          `json:"num_gc"`
	RecentRequests []RecentRequest `json:"recent_requests"`
}

// Monitor collects traffic telemetry. All increments are atomic; the
// aggregated snapshot is refreshed by Listen once per second.
type Monitor struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats Stats

	requestsServed uint64
	clientErrors   uint64
	serverErrors   uint64
	windowCount    uint64
	lastCheck      time.Time
}

func NewMonitor(log *slog.Logger) *Monitor {
	return &Monitor{
		log:       log,
		lastCheck: time.Now(),
		latestStats: Stats{
			RecentRequests: make([]RecentRequest, 0),
		},
	}
}

// Middleware counts every request and records it in the recent ring.
func (m *Monitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		atomic.AddUint64(&m.requestsServed, 1)
		atomic.AddUint64(&m.windowCount, 1)
		switch {
		case recorder.status >= 500:
			atomic.AddUint64(&m.serverErrors, 1)
		case recorder.status >= 400:
			atomic.AddUint64(&m.clientErrors, 1)
		}

		m.addRecent(RecentRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Status:    recorder.status,
			Duration:  time.Since(start).Round(time.Microsecond).String(),
			Timestamp: time.Now().Format("15:04:05"),
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (m *Monitor) addRecent(req RecentRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latestStats.RecentRequests = append([]RecentRequest{req}, m.latestStats.RecentRequests...)
	if len(m.latestStats.RecentRequests) > 20 {
		m.latestStats.RecentRequests = m.latestStats.RecentRequests[:20]
	}
}

// Listen refreshes the aggregated snapshot every second until the
// context ends.
func (m *Monitor) Listen(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitoring stopped")
			return
		case <-ticker.C:
			m.updateStats()
		}
	}
}

func (m *Monitor) updateStats() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	duration := now.Sub(m.lastCheck).Seconds()
	if duration > 0 {
		window := atomic.SwapUint64(&m.windowCount, 0)
		m.latestStats.RequestsPerSec = float64(window) / duration
	}
	m.lastCheck = now

	m.latestStats.RequestsServed = atomic.LoadUint64(&m.requestsServed)
	m.latestStats.ClientErrors = atomic.LoadUint64(&m.clientErrors)
	m.latestStats.ServerErrors = atomic.LoadUint64(&m.serverErrors)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m.latestStats.AllocMemMb = mem.Alloc / 1024 / 1024
	m.latestStats.NumGC = mem.NumGC
}

func (m *Monitor) GetLatest() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latestStats
}
