package http

import (
	"context"
	"net/http"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/pkg/httpx"
)

// HealthResponse is the body served by the health probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks details each probed dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// CachePinger is satisfied by the redis client backing the login throttle.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// LivezHandler always answers 200 while the process is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler probes the database and the shared cache. Either failing
// degrades the response to 503.
func ReadyzHandler(startTime time.Time, version string, st store.Store, cache CachePinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{Database: "ok", Cache: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				checks.Cache = "error: " + err.Error()
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, code, HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
