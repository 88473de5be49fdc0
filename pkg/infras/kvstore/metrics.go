package kvstore

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	opIncr = "incrby"
	opGet  = "get"
	opMGet = "mget"

	resultOK          = "ok"
	resultUnavailable = "unavailable"
	resultError       = "error"

	cacheHit  = "hit"
	cacheMiss = "miss"
)

type metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// registerer 为 nil 时指标照常计数，只是不对外暴露
func newMetrics(registerer prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mxdblog_kv_requests_total",
				Help: "Total kv store requests",
			},
			[]string{"backend", "op", "result"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mxdblog_kv_request_duration_seconds",
				Help:    "Duration of the kv store requests",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"backend", "op"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mxdblog_kv_cache_total",
				Help: "Read cache lookups of the kv client",
			},
			[]string{"result"},
		),
	}
	if registerer != nil {
		registerer.MustRegister(m.requests, m.latency, m.cache)
	}
	return m
}
