package controller

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/go-smartaccount/metrics"
)

const subsystem = "controller"

var (
	requests = metrics.NewCounter(
		"requests",
		subsystem,
		"number of requests by operation and result",
		[]string{"operation", "result"},
	)
	entries = metrics.NewCounter(
		"entries",
		subsystem,
		"number of executed batch entries",
		[]string{"call_type", "result"},
	)
	batchSize = metrics.NewHistogramWithBuckets(
		"batch_size",
		subsystem,
		"number of entries in executed batches",
		[]string{},
		prometheus.ExponentialBuckets(1, 2, 8),
	).WithLabelValues()
)
