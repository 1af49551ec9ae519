package http

import (
	"net/http"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/matteiweekly/newsroom/pkg/httpx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Returns 200 when the database is reachable, 503 otherwise.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse	"Service not ready"
//	@Router			/readyz [get]
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
