package handlers

import (
	"errors"
	"net/http"

	"github.com/ramonehamilton/MTG-Playgroup/internal/api/response"
	"github.com/ramonehamilton/MTG-Playgroup/internal/metrics"
	"github.com/ramonehamilton/MTG-Playgroup/internal/version"
)

// SystemHandler handles system-related API requests.
type SystemHandler struct {
	clients func() int
	stats   func() *metrics.ImportStats
}

// NewSystemHandler creates a new SystemHandler. clients reports the number
// of connected websocket clients and stats reports import metrics. Either may be nil.
func NewSystemHandler(clients func() int, stats func() *metrics.ImportStats) *SystemHandler {
	return &SystemHandler{clients: clients, stats: stats}
}

// GetStatus returns the service status.
func (h *SystemHandler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{"status": "ok"}
	if h.clients != nil {
		status["websocketClients"] = h.clients()
	}
	response.Success(w, status)
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"version": version.GetVersion(),
		"service": "mtg-playgroup-api",
	})
}

// GetMetrics returns import latency and outcome counters.
func (h *SystemHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	if h.stats == nil {
		response.ServiceUnavailable(w, errors.New("metrics are not enabled"))
		return
	}
	response.Success(w, h.stats())
}
