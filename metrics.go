package cachecore

import (
	"sort"
	"sync"
	"time"
)

// reservoirSize bounds the latency samples kept for quantile
// computation to a ring buffer of the most recent 1000.
const reservoirSize = 1000

// Stats is a point-in-time snapshot of a Metrics collector.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Puts        uint64
	Removes     uint64
	Evictions   uint64
	Expirations uint64
	Gets        uint64
	HitRatio    float64
	MissRatio   float64

	GetLatencyP50 time.Duration
	GetLatencyP95 time.Duration
	GetLatencyP99 time.Duration
	GetLatencyAvg time.Duration

	PutLatencyP50 time.Duration
	PutLatencyP95 time.Duration
	PutLatencyP99 time.Duration
	PutLatencyAvg time.Duration
}

// Metrics is the counters-plus-latency collector interface a Cache
// records against. The Disabled variant (see NewDisabledMetrics)
// silently drops everything, matching teacher's stats.go philosophy
// of "synchronization handled at Cache level" pushed one level
// further: recording is itself optional.
type Metrics interface {
	RecordHit()
	RecordMiss()
	RecordPut(latency time.Duration)
	RecordRemove()
	RecordEviction()
	RecordExpiration()
	RecordGetLatency(latency time.Duration)
	Snapshot() Stats
}

type reservoir struct {
	samples []time.Duration
	next    int
	total   time.Duration
	count   uint64
}

func (r *reservoir) record(d time.Duration) {
	if r.samples == nil {
		r.samples = make([]time.Duration, 0, reservoirSize)
	}
	if len(r.samples) < reservoirSize {
		r.samples = append(r.samples, d)
	} else {
		r.samples[r.next] = d
		r.next = (r.next + 1) % reservoirSize
	}
	r.total += d
	r.count++
}

// quantile returns round((n-1)*q) indexed into a sorted copy of the
// current reservoir.
func (r *reservoir) quantile(q float64) time.Duration {
	n := len(r.samples)
	if n == 0 {
		return 0
	}
	sorted := make([]time.Duration, n)
	copy(sorted, r.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(roundHalfAwayFromZero(float64(n-1) * q))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

func (r *reservoir) average() time.Duration {
	if r.count == 0 {
		return 0
	}
	return r.total / time.Duration(r.count)
}

func roundHalfAwayFromZero(f float64) float64 {
	if f < 0 {
		return -roundHalfAwayFromZero(-f)
	}
	return float64(int64(f + 0.5))
}

type metrics struct {
	mu sync.Mutex

	hits        uint64
	misses      uint64
	puts        uint64
	removes     uint64
	evictions   uint64
	expirations uint64

	getLatency reservoir
	putLatency reservoir
}

// NewMetrics constructs an enabled Metrics collector.
func NewMetrics() Metrics {
	return &metrics{}
}

func (m *metrics) RecordHit() {
	m.mu.Lock()
	m.hits++
	m.mu.Unlock()
}

func (m *metrics) RecordMiss() {
	m.mu.Lock()
	m.misses++
	m.mu.Unlock()
}

func (m *metrics) RecordPut(latency time.Duration) {
	m.mu.Lock()
	m.puts++
	m.putLatency.record(latency)
	m.mu.Unlock()
}

func (m *metrics) RecordRemove() {
	m.mu.Lock()
	m.removes++
	m.mu.Unlock()
}

func (m *metrics) RecordEviction() {
	m.mu.Lock()
	m.evictions++
	m.mu.Unlock()
}

func (m *metrics) RecordExpiration() {
	m.mu.Lock()
	m.expirations++
	m.mu.Unlock()
}

func (m *metrics) RecordGetLatency(latency time.Duration) {
	m.mu.Lock()
	m.getLatency.record(latency)
	m.mu.Unlock()
}

func (m *metrics) Snapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	gets := m.hits + m.misses
	var hitRatio float64
	if gets > 0 {
		hitRatio = float64(m.hits) / float64(gets)
	}

	return Stats{
		Hits:          m.hits,
		Misses:        m.misses,
		Puts:          m.puts,
		Removes:       m.removes,
		Evictions:     m.evictions,
		Expirations:   m.expirations,
		Gets:          gets,
		HitRatio:      hitRatio,
		MissRatio:     1 - hitRatio,
		GetLatencyP50: m.getLatency.quantile(0.50),
		GetLatencyP95: m.getLatency.quantile(0.95),
		GetLatencyP99: m.getLatency.quantile(0.99),
		GetLatencyAvg: m.getLatency.average(),
		PutLatencyP50: m.putLatency.quantile(0.50),
		PutLatencyP95: m.putLatency.quantile(0.95),
		PutLatencyP99: m.putLatency.quantile(0.99),
		PutLatencyAvg: m.putLatency.average(),
	}
}

type disabledMetrics struct{}

// NewDisabledMetrics returns a Metrics collector that silently drops
// every recording, for use when record_stats is false but a component
// still needs a non-nil Metrics to call into.
func NewDisabledMetrics() Metrics { return disabledMetrics{} }

func (disabledMetrics) RecordHit()                        {}
func (disabledMetrics) RecordMiss()                       {}
func (disabledMetrics) RecordPut(time.Duration)           {}
func (disabledMetrics) RecordRemove()                     {}
func (disabledMetrics) RecordEviction()                   {}
func (disabledMetrics) RecordExpiration()                 {}
func (disabledMetrics) RecordGetLatency(time.Duration)    {}
func (disabledMetrics) Snapshot() Stats                   { return Stats{} }
