// Package health serves liveness and readiness probes.
//
// Every registered check runs periodically in its own goroutine. A check
// flips to unhealthy after failureThreshold consecutive failures and back
// to healthy on the next success, so a single flaky run does not fail a
// probe.
package health

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

const failureThreshold = 3

// CheckFunc returns nil when the checked component is healthy.
type CheckFunc func(ctx context.Context) error

type probe struct {
	name    string
	timeout time.Duration
	check   CheckFunc

	healthy atomic.Bool
	lastErr atomic.Pointer[error]
	// fails is only touched by the goroutine running the probe.
	fails int
}

func newProbe(name string, timeout time.Duration, check CheckFunc) *probe {
	p := &probe{name: name, timeout: timeout, check: check}
	p.healthy.Store(true)
	return p
}

func (p *probe) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.check(ctx)
	p.lastErr.Store(&err)
	if err == nil {
		p.fails = 0
		p.healthy.Store(true)
		return
	}
	p.fails++
	if p.fails >= failureThreshold {
		p.healthy.Store(false)
	}
}

func (p *probe) failure() (string, bool) {
	if p.healthy.Load() {
		return "", false
	}
	if errp := p.lastErr.Load(); errp != nil && *errp != nil {
		return (*errp).Error(), true
	}
	return "check is unhealthy", true
}

// Health holds the probes of a service.
type Health struct {
	ready atomic.Bool

	mu       sync.Mutex
	liveness []*probe
	readies  []*probe
	cancel   context.CancelFunc
}

// New returns a Health that is not ready until SetReady(true).
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a check reported by LiveEndpoint.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, newProbe(name, timeout, check))
}

// AddReadinessCheck registers a check reported by ReadyEndpoint.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readies = append(h.readies, newProbe(name, timeout, check))
}

// Start runs every registered check now and then every interval until
// Stop is called or ctx is done.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	probes := append(append([]*probe(nil), h.liveness...), h.readies...)
	h.mu.Unlock()

	for _, p := range probes {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				p.run(ctx)
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}()
	}
}

// Stop cancels the check goroutines. It is safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady toggles the manual readiness flag, e.g. false while draining.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service is marked ready and every readiness
// check passes.
func (h *Health) IsReady() bool {
	return h.ready.Load() && len(h.failures(h.snapshot(false))) == 0
}

func (h *Health) snapshot(live bool) []*probe {
	h.mu.Lock()
	defer h.mu.Unlock()
	if live {
		return append([]*probe(nil), h.liveness...)
	}
	return append([]*probe(nil), h.readies...)
}

func (h *Health) failures(probes []*probe) map[string]string {
	out := make(map[string]string)
	for _, p := range probes {
		if msg, failed := p.failure(); failed {
			out[p.name] = msg
		}
	}
	return out
}

// LiveEndpoint serves /livez.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, h.failures(h.snapshot(true)))
}

// ReadyEndpoint serves /readyz. It fails while the service is not marked
// ready even if every check passes.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failures := h.failures(h.snapshot(false))
	if !h.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeStatus(w, failures)
}

// writeStatus responds 200 {"status":"ok"} or 503 with the failing checks.
func writeStatus(w http.ResponseWriter, failures map[string]string) {
	status, code := "ok", http.StatusOK
	if len(failures) > 0 {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("status")
	e.Str(status)
	if len(failures) > 0 {
		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		sort.Strings(names)

		e.FieldStart("checks")
		e.ObjStart()
		for _, name := range names {
			e.FieldStart(name)
			e.Str(failures[name])
		}
		e.ObjEnd()
	}
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}

// GoroutineCountCheck fails when more than threshold goroutines are running.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}
