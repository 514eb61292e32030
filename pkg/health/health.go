// Package health provides liveness and readiness probe endpoints. Checks
// run periodically in the background; the HTTP endpoints only read the last
// recorded state.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
)

// CheckFunc reports nil when the checked component is healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	// failed holds the last error message, or "" when healthy.
	// Written by the probe loop, read by HTTP handlers.
	failed atomic.Pointer[string]
}

func (c *check) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg := ""
	if err := c.fn(ctx); err != nil {
		msg = err.Error()
	}
	c.failed.Store(&msg)
}

func (c *check) status() string {
	if p := c.failed.Load(); p != nil && *p != "" {
		return *p
	}
	return "ok"
}

func (c *check) ok() bool {
	p := c.failed.Load()
	return p == nil || *p == ""
}

// Health runs registered checks and serves probe endpoints. The service
// starts not ready; call SetReady(true) after initialization and
// SetReady(false) to drain during shutdown.
type Health struct {
	ready atomic.Bool

	mu        sync.Mutex
	liveness  []*check
	readiness []*check
	cancel    context.CancelFunc
}

// New creates an empty Health service.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a process-health check.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, &check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a traffic-readiness check, such as database
// connectivity.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, &check{name: name, timeout: timeout, fn: fn})
}

// Start launches one goroutine per registered check, each running at the
// given interval. Register all checks before calling Start.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	checks := append(append([]*check(nil), h.liveness...), h.readiness...)
	h.mu.Unlock()

	for _, c := range checks {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			c.run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.run(ctx)
				}
			}
		}()
	}
}

// Stop cancels the background check goroutines.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady flips the manual readiness gate.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the gate is open and every readiness check
// passed last time it ran.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}
	h.mu.Lock()
	checks := h.readiness
	h.mu.Unlock()
	for _, c := range checks {
		if !c.ok() {
			return false
		}
	}
	return true
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the liveness probe.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	checks := h.liveness
	h.mu.Unlock()

	resp := probeResponse{Status: "up", Checks: make(map[string]string, len(checks))}
	code := http.StatusOK
	for _, c := range checks {
		resp.Checks[c.name] = c.status()
		if !c.ok() {
			resp.Status = "down"
			code = http.StatusServiceUnavailable
		}
	}
	writeProbe(w, code, resp)
}

// ReadyEndpoint serves the readiness probe.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	checks := h.readiness
	h.mu.Unlock()

	resp := probeResponse{Status: "ready", Checks: make(map[string]string, len(checks))}
	code := http.StatusOK
	for _, c := range checks {
		resp.Checks[c.name] = c.status()
	}
	if !h.IsReady() {
		resp.Status = "not ready"
		code = http.StatusServiceUnavailable
	}
	writeProbe(w, code, resp)
}

func writeProbe(w http.ResponseWriter, code int, resp probeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// GoroutineCountCheck fails when the process exceeds maxGoroutines, a
// cheap proxy for leaks.
func GoroutineCountCheck(maxGoroutines int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > maxGoroutines {
			return errors.Errorf("too many goroutines: %d > %d", n, maxGoroutines)
		}
		return nil
	}
}
