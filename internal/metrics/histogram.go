package metrics

import (
	"math"
	"sort"
	"sync"
	"time"
)

// defaultWindow is the number of samples kept when none is given.
const defaultWindow = 1000

// Histogram keeps a sliding window of duration samples in milliseconds.
type Histogram struct {
	mu      sync.RWMutex
	samples []float64
	window  int
}

// NewHistogram creates a histogram holding at most window samples.
// Older samples are dropped first.
func NewHistogram(window int) *Histogram {
	if window <= 0 {
		window = defaultWindow
	}
	return &Histogram{
		samples: make([]float64, 0, window),
		window:  window,
	}
}

// Record adds a duration sample.
func (h *Histogram) Record(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.samples = append(h.samples, float64(d.Microseconds())/1000.0)
	if over := len(h.samples) - h.window; over > 0 {
		h.samples = append(h.samples[:0], h.samples[over:]...)
	}
}

// Snapshot summarizes the current samples.
func (h *Histogram) Snapshot() LatencyStats {
	h.mu.RLock()
	sorted := make([]float64, len(h.samples))
	copy(sorted, h.samples)
	h.mu.RUnlock()

	if len(sorted) == 0 {
		return LatencyStats{}
	}
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return LatencyStats{
		Mean:  sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
}

// Count returns the number of samples held.
func (h *Histogram) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.samples)
}

// Reset clears all samples.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
}

// percentile interpolates linearly between the two nearest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}
