package utils

import (
	"context"
	"strconv"
	"time"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts delivered transactions and measures
// their processing time, labeled by the message path. Check calls are not
// measured.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ loom.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator and registers its collectors with
// the given registerer. It panics if the collectors are already
// registered.
func NewMetrics(reg prometheus.Registerer) Metrics {
	m := Metrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loom",
			Name:      "tx_total",
			Help:      "Total delivered transactions by message path and result code.",
		}, []string{"path", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "loom",
			Name:      "tx_duration_seconds",
			Help:      "Time spent delivering a transaction by message path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	reg.MustRegister(m.total, m.duration)
	return m
}

// Check just passes the request along
func (m Metrics) Check(ctx context.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver records the result and the duration of the call.
func (m Metrics) Deliver(ctx context.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	path := loom.GetPath(tx)
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.duration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	m.total.WithLabelValues(path, resultLabel(err)).Inc()
	return res, err
}

// resultLabel returns "ok" or the registered code of the error. Errors
// without a registered code all share the internal code.
func resultLabel(err error) string {
	code, _ := errors.Info(err, false)
	if code == errors.SuccessCode {
		return "ok"
	}
	return strconv.FormatUint(uint64(code), 10)
}
