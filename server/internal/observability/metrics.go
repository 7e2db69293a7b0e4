package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates counters for the external AI operations: content
// generation, image synthesis, narration, captioning, and the daily prompt.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	operations map[string]*OperationMetrics

	durations    []time.Duration
	maxDurations int
}

// OperationMetrics holds per-operation counters.
type OperationMetrics struct {
	callCount     atomic.Int64
	totalDuration atomic.Int64 // milliseconds
	errorCount    atomic.Int64
}

// NewMetrics creates a metrics collector keeping the last maxDurations
// request durations for percentile snapshots.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		operations:   make(map[string]*OperationMetrics),
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

// RecordCall records one AI call for the operation.
func (m *Metrics) RecordCall(operation string) {
	m.requestTotal.Add(1)
	m.operation(operation).callCount.Add(1)
}

// RecordFailure records a failed AI call for the operation.
func (m *Metrics) RecordFailure(operation string) {
	m.requestFailed.Add(1)
	m.operation(operation).errorCount.Add(1)
}

// RecordDuration records how long an AI call took.
func (m *Metrics) RecordDuration(operation string, d time.Duration) {
	m.operation(operation).totalDuration.Add(d.Milliseconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.durations) >= m.maxDurations {
		copy(m.durations, m.durations[1:])
		m.durations = m.durations[:len(m.durations)-1]
	}
	m.durations = append(m.durations, d)
}

// Snapshot is a point-in-time view for the stats endpoint.
type Snapshot struct {
	RequestTotal  int64                        `json:"requestTotal"`
	RequestFailed int64                        `json:"requestFailed"`
	Operations    map[string]OperationSnapshot `json:"operations"`
}

// OperationSnapshot summarizes one operation.
type OperationSnapshot struct {
	Calls         int64 `json:"calls"`
	Errors        int64 `json:"errors"`
	AvgDurationMs int64 `json:"avgDurationMs"`
}

// Snapshot captures the current counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Operations:    make(map[string]OperationSnapshot, len(m.operations)),
	}
	for name, op := range m.operations {
		calls := op.callCount.Load()
		avg := int64(0)
		if calls > 0 {
			avg = op.totalDuration.Load() / calls
		}
		snap.Operations[name] = OperationSnapshot{
			Calls:         calls,
			Errors:        op.errorCount.Load(),
			AvgDurationMs: avg,
		}
	}
	return snap
}

func (m *Metrics) operation(name string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.operations[name]
	if !ok {
		op = &OperationMetrics{}
		m.operations[name] = op
	}
	return op
}
