// Package health aggregates dependency checks behind liveness and readiness endpoints.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Status is the health of one component or of the whole process.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultCheckTimeout bounds each individual check.
const DefaultCheckTimeout = 2 * time.Second

// Check is the outcome of probing one component.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// Report is the /healthz body.
type Report struct {
	Status        Status  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	Checks        []Check `json:"checks"`
	Version       string  `json:"version,omitempty"`
	UptimeSeconds int64   `json:"uptimeSeconds"`
}

// Checker probes a dependency.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// Registry holds the named checkers of a process.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	version  string
	started  time.Time
	timeout  time.Duration
	now      func() time.Time
}

func NewRegistry(version string) *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
		version:  version,
		started:  time.Now(),
		timeout:  DefaultCheckTimeout,
		now:      time.Now,
	}
}

// Register adds or replaces a named checker. Nil checkers are ignored.
func (r *Registry) Register(name string, checker Checker) {
	if checker == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Run executes every checker, ordered by name.
func (r *Registry) Run(ctx context.Context) Report {
	r.mu.RLock()
	names := make([]string, 0, len(r.checkers))
	checkers := make(map[string]Checker, len(r.checkers))
	for name, checker := range r.checkers {
		names = append(names, name)
		checkers[name] = checker
	}
	r.mu.RUnlock()
	sort.Strings(names)

	report := Report{
		Status:        StatusHealthy,
		Timestamp:     r.now().UTC().Format(time.RFC3339),
		Checks:        make([]Check, 0, len(names)),
		Version:       r.version,
		UptimeSeconds: int64(r.now().Sub(r.started).Seconds()),
	}
	for _, name := range names {
		check := r.probe(ctx, name, checkers[name])
		if check.Status == StatusUnhealthy {
			report.Status = StatusUnhealthy
		}
		report.Checks = append(report.Checks, check)
	}
	return report
}

func (r *Registry) probe(ctx context.Context, name string, checker Checker) Check {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	start := time.Now()
	err := checker.Check(ctx)
	check := Check{Name: name, Status: StatusHealthy, DurationMs: time.Since(start).Milliseconds()}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	return check
}

// HealthHandler serves the full JSON report; 503 when any check fails.
func (r *Registry) HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report := r.Run(c.Request.Context())
		status := http.StatusOK
		if report.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}

// ReadinessHandler answers "ready" or "not ready".
func (r *Registry) ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.Run(c.Request.Context()).Status == StatusUnhealthy {
			c.String(http.StatusServiceUnavailable, "not ready")
			return
		}
		c.String(http.StatusOK, "ready")
	}
}
