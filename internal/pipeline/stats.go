package pipeline

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// Stage names recorded by the worker.
const (
	StageExtract = "extract"
	StageConvert = "convert"
	StageWrite   = "write"
)

type sample struct {
	timestamp time.Time
	duration  time.Duration
}

// StatsSnapshot is a point-in-time aggregate of one stage's latency samples.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// LatencyStats tracks recent per-stage latencies within a rolling window.
// A nil *LatencyStats records nothing.
type LatencyStats struct {
	mu     sync.Mutex
	stages map[string][]sample
	maxAge time.Duration
}

func NewLatencyStats(maxAge time.Duration) *LatencyStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &LatencyStats{
		stages: make(map[string][]sample),
		maxAge: maxAge,
	}
}

func (s *LatencyStats) Record(stage string, d time.Duration) {
	if s == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.stages[stage] = append(s.stages[stage], sample{
		timestamp: now,
		duration:  d,
	})
}

// Snapshot aggregates every stage that has samples in the window.
func (s *LatencyStats) Snapshot() map[string]StatsSnapshot {
	out := make(map[string]StatsSnapshot)
	if s == nil {
		return out
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	for stage, samples := range s.stages {
		if len(samples) > 0 {
			out[stage] = aggregate(samples)
		}
	}
	return out
}

func aggregate(samples []sample) StatsSnapshot {
	values := make([]time.Duration, 0, len(samples))
	var sum time.Duration
	for _, sm := range samples {
		values = append(values, sm.duration)
		sum += sm.duration
	}
	slices.Sort(values)

	return StatsSnapshot{
		Count: len(values),
		MinMs: ms(values[0]),
		MaxMs: ms(values[len(values)-1]),
		AvgMs: ms(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (s *LatencyStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	for stage, samples := range s.stages {
		// Samples are appended in time order.
		i := sort.Search(len(samples), func(i int) bool { return !samples[i].timestamp.Before(cutoff) })
		if i == len(samples) {
			delete(s.stages, stage)
			continue
		}
		s.stages[stage] = samples[i:]
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func percentile(sortedValues []time.Duration, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return ms(sortedValues[0])
	}
	if pct >= 100 {
		return ms(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return ms(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := ms(sortedValues[lower])
	hi := ms(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
