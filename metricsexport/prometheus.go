// Package metricsexport is the Prometheus text-exposition adapter for
// a cachecore.Metrics snapshot. It is deliberately kept out of
// cachecore itself so the core engine never imports client_golang;
// callers who want Prometheus export wire this package in explicitly.
package metricsexport

import (
	"github.com/Krishna8167/cachecore"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts a cachecore.Metrics snapshot into Prometheus
// collectors: hits/misses/evictions as counters, hit_ratio as a
// gauge, and get_latency_seconds as a summary at quantiles 0.5, 0.95,
// and 0.99.
type Collector struct {
	metrics cachecore.Metrics
	prefix  string

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	hitRatio  *prometheus.Desc
	getLatency *prometheus.Desc
}

// NewCollector builds a Collector reading from metrics, with every
// exported metric name prefixed by prefix (e.g. "cachecore_").
func NewCollector(metrics cachecore.Metrics, prefix string) *Collector {
	return &Collector{
		metrics:   metrics,
		prefix:    prefix,
		hits:      prometheus.NewDesc(prefix+"hits", "Total cache hits.", nil, nil),
		misses:    prometheus.NewDesc(prefix+"misses", "Total cache misses.", nil, nil),
		evictions: prometheus.NewDesc(prefix+"evictions", "Total cache evictions.", nil, nil),
		hitRatio:  prometheus.NewDesc(prefix+"hit_ratio", "Hit ratio over the cache's lifetime.", nil, nil),
		getLatency: prometheus.NewDesc(
			prefix+"get_latency_seconds",
			"Get operation latency in seconds.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.hitRatio
	ch <- c.getLatency
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.metrics.Snapshot()

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(stats.Evictions))
	ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, stats.HitRatio)

	quantiles := map[float64]float64{
		0.5:  stats.GetLatencyP50.Seconds(),
		0.95: stats.GetLatencyP95.Seconds(),
		0.99: stats.GetLatencyP99.Seconds(),
	}
	ch <- prometheus.MustNewConstSummary(
		c.getLatency,
		stats.Gets,
		stats.GetLatencyAvg.Seconds()*float64(stats.Gets),
		quantiles,
	)
}
