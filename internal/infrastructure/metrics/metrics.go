// Package metrics 照護檔案核心的 Prometheus 指標
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 快取、生成與識別相關指標。nil 接收者的方法皆為 no-op
type Metrics struct {
	registry *prometheus.Registry

	cacheLookupsTotal     *prometheus.CounterVec
	cacheWriteErrorsTotal *prometheus.CounterVec
	generationsTotal      *prometheus.CounterVec
	generationDuration    *prometheus.HistogramVec
	evictionsTotal        *prometheus.CounterVec
	identificationEntries prometheus.Gauge
	queueDepth            prometheus.Gauge
}

// New 建立並註冊指標；registry 為 nil 時建立新的 registry
func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garden_cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"cache", "result"}, // result: hit, miss
	)

	m.cacheWriteErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garden_cache_write_errors_total",
			Help: "Total number of failed cache writes",
		},
		[]string{"cache", "operation"},
	)

	m.generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garden_generations_total",
			Help: "Total number of content generator calls",
		},
		[]string{"operation", "status"}, // status: success, error
	)

	m.generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "garden_generation_duration_seconds",
			Help:    "Time taken by the content generator",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"operation"},
	)

	m.evictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "garden_identification_evictions_total",
			Help: "Total number of identification cache removals",
		},
		[]string{"reason"}, // reason: expired, capacity
	)

	m.identificationEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "garden_identification_cache_entries",
		Help: "Current number of identification cache entries",
	})

	m.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "garden_generation_queue_depth",
		Help: "Number of generation tasks waiting in the queue",
	})
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.cacheLookupsTotal.Describe(ch)
	m.cacheWriteErrorsTotal.Describe(ch)
	m.generationsTotal.Describe(ch)
	m.generationDuration.Describe(ch)
	m.evictionsTotal.Describe(ch)
	m.identificationEntries.Describe(ch)
	m.queueDepth.Describe(ch)
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.cacheLookupsTotal.Collect(ch)
	m.cacheWriteErrorsTotal.Collect(ch)
	m.generationsTotal.Collect(ch)
	m.generationDuration.Collect(ch)
	m.evictionsTotal.Collect(ch)
	m.identificationEntries.Collect(ch)
	m.queueDepth.Collect(ch)
}

// Handler /metrics 的 HTTP handler
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordCacheLookup 記錄快取查詢結果
func (m *Metrics) RecordCacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

// RecordCacheWriteError 記錄快取寫入失敗
func (m *Metrics) RecordCacheWriteError(cache, operation string) {
	if m == nil {
		return
	}
	m.cacheWriteErrorsTotal.WithLabelValues(cache, operation).Inc()
}

// RecordGeneration 記錄一次生成呼叫
func (m *Metrics) RecordGeneration(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.generationsTotal.WithLabelValues(operation, status).Inc()
	m.generationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordEviction 記錄識別快取移除
func (m *Metrics) RecordEviction(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.evictionsTotal.WithLabelValues(reason).Add(float64(n))
}

// SetIdentificationEntries 更新識別快取筆數
func (m *Metrics) SetIdentificationEntries(n int) {
	if m == nil {
		return
	}
	m.identificationEntries.Set(float64(n))
}

// SetQueueDepth 更新生成隊列長度
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
