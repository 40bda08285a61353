package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gestix/gestix/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns counters in Prometheus exposition format.
//
// GET /metricz
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "gestix_logins_total{status=\"success\"} %d\n", snap.LoginSuccess)
	writeMetric(w, "gestix_logins_total{status=\"failed\"} %d\n", snap.LoginFailed)
	writeMetric(w, "gestix_signups_total %d\n", snap.Signups)
	writeMetric(w, "gestix_sign_outs_total %d\n", snap.SignOuts)
	writeMetric(w, "gestix_sessions_refreshed_total %d\n", snap.SessionsRefreshed)

	writeLabelled(w, "gestix_records_created_total", snap.RecordsCreated)
	writeLabelled(w, "gestix_records_updated_total", snap.RecordsUpdated)
	writeLabelled(w, "gestix_records_deleted_total", snap.RecordsDeleted)

	writeMetric(w, "gestix_dashboard_aggregations_total{status=\"success\"} %d\n", snap.DashboardSuccess)
	writeMetric(w, "gestix_dashboard_aggregations_total{status=\"failed\"} %d\n", snap.DashboardFailed)
	writeMetric(w, "gestix_dashboard_duration_seconds_count %d\n", snap.DashboardDurationCount)
	writeMetric(w, "gestix_dashboard_duration_seconds_sum %.6f\n", float64(snap.DashboardDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, value any) {
	fmt.Fprintf(w, format, value)
}

// writeLabelled emits one line per entity label, sorted for stable output.
func writeLabelled(w http.ResponseWriter, name string, counts map[string]uint64) {
	entities := make([]string, 0, len(counts))
	for entity := range counts {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	for _, entity := range entities {
		fmt.Fprintf(w, "%s{entity=%q} %d\n", name, entity, counts[entity])
	}
}
