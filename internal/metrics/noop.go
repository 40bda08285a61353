package metrics

import "time"

// NoopRecorder discards all metric events.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (NoopRecorder) IncLogin(string)                     {}
func (NoopRecorder) IncSignup()                          {}
func (NoopRecorder) IncSignOut()                         {}
func (NoopRecorder) IncSessionRefreshed()                {}
func (NoopRecorder) IncRecordCreated(string)             {}
func (NoopRecorder) IncRecordUpdated(string)             {}
func (NoopRecorder) IncRecordDeleted(string)             {}
func (NoopRecorder) IncDashboardAggregation(string)      {}
func (NoopRecorder) ObserveDashboardDuration(time.Duration) {}
