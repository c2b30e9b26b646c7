package exec

import (
	"sync"
	"time"
)

// Metrics tracks execution statistics for an engine.
type Metrics struct {
	mu            sync.RWMutex
	total         int64
	successes     int64
	failures      int64
	totalDuration time.Duration
	perFunction   map[string]*FunctionMetrics
}

// FunctionMetrics tracks statistics for a single function.
type FunctionMetrics struct {
	Executions      int64
	Successes       int64
	Failures        int64
	TotalDuration   time.Duration
	AverageDuration time.Duration
}

// MetricsSnapshot is a point-in-time copy of engine statistics.
type MetricsSnapshot struct {
	Total         int64
	Successes     int64
	Failures      int64
	TotalDuration time.Duration
	PerFunction   map[string]FunctionMetrics
}

func newMetrics() *Metrics {
	return &Metrics{
		perFunction: make(map[string]*FunctionMetrics),
	}
}

// record updates counters for a completed execution.
func (m *Metrics) record(function string, success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	m.totalDuration += duration
	if success {
		m.successes++
	} else {
		m.failures++
	}

	fm := m.perFunction[function]
	if fm == nil {
		fm = &FunctionMetrics{}
		m.perFunction[function] = fm
	}
	fm.Executions++
	fm.TotalDuration += duration
	fm.AverageDuration = fm.TotalDuration / time.Duration(fm.Executions)
	if success {
		fm.Successes++
	} else {
		fm.Failures++
	}
}

// snapshot returns a copy of the current statistics.
func (m *Metrics) snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		Total:         m.total,
		Successes:     m.successes,
		Failures:      m.failures,
		TotalDuration: m.totalDuration,
		PerFunction:   make(map[string]FunctionMetrics, len(m.perFunction)),
	}
	for name, fm := range m.perFunction {
		snap.PerFunction[name] = *fm
	}
	return snap
}
