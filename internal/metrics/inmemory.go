package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LoginSuccess      uint64
	LoginFailed       uint64
	Signups           uint64
	SignOuts          uint64
	SessionsRefreshed uint64

	RecordsCreated map[string]uint64
	RecordsUpdated map[string]uint64
	RecordsDeleted map[string]uint64

	DashboardSuccess         uint64
	DashboardFailed          uint64
	DashboardDurationCount   uint64
	DashboardDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory. Counters are labelled by
// entity name, so a mutex guards the maps instead of per-field atomics.
type InMemoryRecorder struct {
	mu sync.Mutex

	loginSuccess      uint64
	loginFailed       uint64
	signups           uint64
	signOuts          uint64
	sessionsRefreshed uint64

	recordsCreated map[string]uint64
	recordsUpdated map[string]uint64
	recordsDeleted map[string]uint64

	dashboardSuccess         uint64
	dashboardFailed          uint64
	dashboardDurationCount   uint64
	dashboardDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		recordsCreated: make(map[string]uint64),
		recordsUpdated: make(map[string]uint64),
		recordsDeleted: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		LoginSuccess:             m.loginSuccess,
		LoginFailed:              m.loginFailed,
		Signups:                  m.signups,
		SignOuts:                 m.signOuts,
		SessionsRefreshed:        m.sessionsRefreshed,
		RecordsCreated:           copyCounts(m.recordsCreated),
		RecordsUpdated:           copyCounts(m.recordsUpdated),
		RecordsDeleted:           copyCounts(m.recordsDeleted),
		DashboardSuccess:         m.dashboardSuccess,
		DashboardFailed:          m.dashboardFailed,
		DashboardDurationCount:   m.dashboardDurationCount,
		DashboardDurationTotalNs: m.dashboardDurationTotalNs,
	}
}

func (m *InMemoryRecorder) IncLogin(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == "success" {
		m.loginSuccess++
	} else {
		m.loginFailed++
	}
}

func (m *InMemoryRecorder) IncSignup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signups++
}

func (m *InMemoryRecorder) IncSignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signOuts++
}

func (m *InMemoryRecorder) IncSessionRefreshed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsRefreshed++
}

func (m *InMemoryRecorder) IncRecordCreated(entity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsCreated[entity]++
}

func (m *InMemoryRecorder) IncRecordUpdated(entity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsUpdated[entity]++
}

func (m *InMemoryRecorder) IncRecordDeleted(entity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordsDeleted[entity]++
}

func (m *InMemoryRecorder) IncDashboardAggregation(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == "success" {
		m.dashboardSuccess++
	} else {
		m.dashboardFailed++
	}
}

func (m *InMemoryRecorder) ObserveDashboardDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dashboardDurationCount++
	m.dashboardDurationTotalNs += duration.Nanoseconds()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
