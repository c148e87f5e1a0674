package observability

import (
	"sync"
	"time"
)

// Metrics aggregates per-domain dispatch counters. It backs the status
// endpoint and carries no external dependencies so it stays cheap enough
// to record on every request.
type Metrics struct {
	mu      sync.Mutex
	domains map[string]*domainMetrics
}

type domainMetrics struct {
	requestTotal  int64
	requestFailed int64
	totalDuration time.Duration
}

// NewMetrics creates an empty metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{domains: make(map[string]*domainMetrics)}
}

// Record counts one dispatch for the given domain.
func (m *Metrics) Record(domain string, duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dm, ok := m.domains[domain]
	if !ok {
		dm = &domainMetrics{}
		m.domains[domain] = dm
	}
	dm.requestTotal++
	dm.totalDuration += duration
	if failed {
		dm.requestFailed++
	}
}

// DomainSnapshot is a point-in-time view of one domain's counters.
type DomainSnapshot struct {
	RequestTotal  int64 `json:"requestTotal"`
	RequestFailed int64 `json:"requestFailed"`
	AverageMs     int64 `json:"averageMs"`
}

// Snapshot returns the counters for every domain seen so far.
func (m *Metrics) Snapshot() map[string]DomainSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[string]DomainSnapshot, len(m.domains))
	for domain, dm := range m.domains {
		s := DomainSnapshot{
			RequestTotal:  dm.requestTotal,
			RequestFailed: dm.requestFailed,
		}
		if dm.requestTotal > 0 {
			s.AverageMs = dm.totalDuration.Milliseconds() / dm.requestTotal
		}
		snapshot[domain] = s
	}
	return snapshot
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.domains = make(map[string]*domainMetrics)
}
