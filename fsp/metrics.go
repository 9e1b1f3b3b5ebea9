package fsp

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// statusTransportError labels requests that never got a response
const statusTransportError = "error"

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fsp_client",
			Name:      "requests_total",
			Help:      "Requests sent to the record catalog, by operation and response status.",
		},
		[]string{"operation", "method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fsp_client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip time of record catalog requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func (c *Client) observe(operation, method string, status int, elapsed time.Duration) {
	if !c.metrics {
		return
	}
	label := statusTransportError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	requestsTotal.WithLabelValues(operation, method, label).Inc()
	requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
