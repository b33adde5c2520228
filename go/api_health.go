package petsetuserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petsetu/petsetu-web/internal/platform/health"
)

// Prober checks backend reachability.
type Prober interface {
	Probe(ctx context.Context) (health.Report, error)
}

// HealthAPI exposes the scheduled uptime probe.
type HealthAPI struct {
	prober Prober
}

func NewHealthAPI(prober Prober) HealthAPI {
	return HealthAPI{prober: prober}
}

// Get /api/cron/health
// Probes the backend metadata endpoint and reports the outcome
func (api *HealthAPI) CheckHealth(c *gin.Context) {
	if api.prober == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": health.ErrNotConfigured.Error()})
		return
	}
	report, err := api.prober.Probe(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if !errors.Is(err, health.ErrNotConfigured) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(report.HTTPStatus(), report)
}
