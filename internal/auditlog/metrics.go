package auditlog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "childcare",
		Subsystem: "audit",
		Name:      "entries_enqueued_total",
		Help:      "Audit entries accepted by the async queue.",
	})
	entriesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "childcare",
		Subsystem: "audit",
		Name:      "entries_dropped_total",
		Help:      "Audit entries dropped because the queue was full or closed.",
	})
	entriesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "childcare",
		Subsystem: "audit",
		Name:      "entries_written_total",
		Help:      "Audit entries persisted outside a transaction.",
	})
	entriesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "childcare",
		Subsystem: "audit",
		Name:      "entries_failed_total",
		Help:      "Audit entries that could not be persisted.",
	})
	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "childcare",
		Subsystem: "audit",
		Name:      "queue_depth",
		Help:      "Audit entries waiting for a worker.",
	})
)
