package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHistogram_Snapshot(t *testing.T) {
	h := NewHistogram(10)
	for i := 1; i <= 5; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	s := h.Snapshot()
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 0.001)
	assert.InDelta(t, 3.0, s.P50, 0.001)
	assert.InDelta(t, 1.0, s.Min, 0.001)
	assert.InDelta(t, 5.0, s.Max, 0.001)
	assert.InDelta(t, 4.8, s.P95, 0.001)
}

func TestHistogram_Window(t *testing.T) {
	h := NewHistogram(3)
	for i := 1; i <= 5; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	s := h.Snapshot()
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 3.0, s.Min, 0.001)
	assert.InDelta(t, 5.0, s.Max, 0.001)
}

func TestHistogram_Empty(t *testing.T) {
	h := NewHistogram(0)
	assert.Equal(t, LatencyStats{}, h.Snapshot())
	assert.Equal(t, 0, h.Count())
}

func TestImportMetrics_RecordImport(t *testing.T) {
	m := NewImportMetrics()

	m.RecordImport(10*time.Millisecond, nil)
	m.RecordImport(20*time.Millisecond, nil)
	m.RecordImport(30*time.Millisecond, errors.New("upstream down"))
	m.RecordImport(40*time.Millisecond, fmt.Errorf("fetch: %w", context.DeadlineExceeded))
	m.RecordSave()

	stats := m.GetStats()
	assert.Equal(t, uint64(2), stats.Succeeded)
	assert.Equal(t, uint64(2), stats.Failed)
	assert.Equal(t, uint64(1), stats.TimedOut)
	assert.Equal(t, uint64(1), stats.Saved)
	assert.InDelta(t, 50.0, stats.SuccessRate, 0.001)
	assert.Equal(t, 4, stats.Latency.Count)
}

func TestImportMetrics_Reset(t *testing.T) {
	m := NewImportMetrics()
	m.RecordImport(time.Millisecond, nil)
	m.RecordSave()

	m.Reset()

	stats := m.GetStats()
	assert.Zero(t, stats.Succeeded)
	assert.Zero(t, stats.Saved)
	assert.Zero(t, stats.Latency.Count)
	assert.Zero(t, stats.SuccessRate)
}
