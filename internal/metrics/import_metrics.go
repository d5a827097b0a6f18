// Package metrics tracks in-process deck import statistics.
package metrics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ImportMetrics tracks import latency and outcomes.
type ImportMetrics struct {
	Latency *Histogram

	Succeeded atomic.Uint64
	Failed    atomic.Uint64
	TimedOut  atomic.Uint64
	Saved     atomic.Uint64

	mu        sync.RWMutex
	startTime time.Time
}

// NewImportMetrics creates a new metrics collector.
func NewImportMetrics() *ImportMetrics {
	return &ImportMetrics{
		Latency:   NewHistogram(defaultWindow),
		startTime: time.Now(),
	}
}

// RecordImport records one import attempt. Deadline errors count as both
// failed and timed out.
func (m *ImportMetrics) RecordImport(d time.Duration, err error) {
	m.Latency.Record(d)
	if err == nil {
		m.Succeeded.Add(1)
		return
	}
	m.Failed.Add(1)
	if errors.Is(err, context.DeadlineExceeded) {
		m.TimedOut.Add(1)
	}
}

// RecordSave counts a persisted deck.
func (m *ImportMetrics) RecordSave() {
	m.Saved.Add(1)
}

// ImportStats is a point-in-time view of ImportMetrics.
type ImportStats struct {
	Latency     LatencyStats `json:"latency"`
	Succeeded   uint64       `json:"succeeded"`
	Failed      uint64       `json:"failed"`
	TimedOut    uint64       `json:"timedOut"`
	Saved       uint64       `json:"saved"`
	SuccessRate float64      `json:"successRate"` // percentage
	Uptime      string       `json:"uptime"`
}

// LatencyStats summarizes a histogram. Values are milliseconds.
type LatencyStats struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// GetStats returns a snapshot of the current statistics.
func (m *ImportMetrics) GetStats() *ImportStats {
	m.mu.RLock()
	start := m.startTime
	m.mu.RUnlock()

	succeeded := m.Succeeded.Load()
	failed := m.Failed.Load()

	rate := 0.0
	if total := succeeded + failed; total > 0 {
		rate = float64(succeeded) / float64(total) * 100
	}

	return &ImportStats{
		Latency:     m.Latency.Snapshot(),
		Succeeded:   succeeded,
		Failed:      failed,
		TimedOut:    m.TimedOut.Load(),
		Saved:       m.Saved.Load(),
		SuccessRate: rate,
		Uptime:      time.Since(start).Round(time.Second).String(),
	}
}

// Reset clears all metrics.
func (m *ImportMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Latency.Reset()
	m.Succeeded.Store(0)
	m.Failed.Store(0)
	m.TimedOut.Store(0)
	m.Saved.Store(0)
	m.startTime = time.Now()
}
