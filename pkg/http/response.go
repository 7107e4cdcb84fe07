package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// Report is the body written by the operational endpoints.
type Report struct {
	Status string        `json:"status"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Name     string `json:"name"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

func writeReport(c echo.Context, r Report) error {
	code := http.StatusOK
	if !r.Healthy() {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, r)
}
