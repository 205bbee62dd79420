package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"github.com/lancecummins/eatout/internal/services"
)

// HandleMetrics returns WebSocket server metrics
func HandleMetrics(hub *services.Hub) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, hub.Metrics().Snapshot())
	}
}

// HandleHealth returns server health status
func HandleHealth(hub *services.Hub) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snapshot := hub.Metrics().Snapshot()

		status := http.StatusOK
		if snapshot.HealthStatus == "critical" {
			status = http.StatusServiceUnavailable
		}

		return e.JSON(status, map[string]any{
			"status":             snapshot.HealthStatus,
			"active_connections": snapshot.ActiveConnections,
			"active_sessions":    snapshot.ActiveSessions,
			"uptime_seconds":     snapshot.UptimeSeconds,
		})
	}
}
