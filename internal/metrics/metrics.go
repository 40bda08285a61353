// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncLogin(status string) // status: "success" or "failed"
	IncSignup()
	IncSignOut()
	IncSessionRefreshed()

	// Record management metrics, labelled by entity name
	// (customer, product, quote, service_order).
	IncRecordCreated(entity string)
	IncRecordUpdated(entity string)
	IncRecordDeleted(entity string)

	// Aggregation metrics
	IncDashboardAggregation(status string) // status: "success" or "failed"
	ObserveDashboardDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
