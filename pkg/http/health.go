package http

import (
	"context"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// HealthHandler serves /healthz (process liveness) and /readyz (every
// registered dependency check passes).
type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
}

var _ Handler = (*HealthHandler)(nil)

func NewHealthHandler(checks map[string]Check, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{checks: checks, timeout: timeout}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.live)
	e.GET("/readyz", h.ready)
}

func (h *HealthHandler) live(c echo.Context) error {
	return writeReport(c, Report{Status: StatusOK})
}

func (h *HealthHandler) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	r := h.Run(ctx)
	if !r.Healthy() {
		r.Status = StatusNotReady
	}
	return writeReport(c, r)
}

// Run executes all checks in name order. A failing check does not stop
// the remaining ones.
func (h *HealthHandler) Run(ctx context.Context) Report {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	r := Report{Status: StatusReady, Checks: make([]CheckResult, 0, len(names))}
	for _, name := range names {
		start := time.Now()
		err := h.checks[name](ctx)
		res := CheckResult{Name: name, OK: err == nil, Duration: time.Since(start).String()}
		if err != nil {
			res.Error = err.Error()
		}
		r.Checks = append(r.Checks, res)
	}
	return r
}
