package utils

import (
	"time"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator counting delivered transactions by message path
// and outcome, and observing how long their handling took. Check calls
// are not measured.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ testament.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator and registers its collectors.
func NewMetrics(reg prometheus.Registerer) (Metrics, error) {
	m := Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "will",
			Name:      "delivered_transactions_total",
			Help:      "Number of delivered transactions by message path and result.",
		}, []string{"path", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "will",
			Name:      "deliver_duration_seconds",
			Help:      "Time spent delivering a transaction.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	for _, c := range []prometheus.Collector{m.txs, m.duration} {
		if err := reg.Register(c); err != nil {
			return m, errors.Wrap(errors.ErrHuman, err.Error())
		}
	}
	return m, nil
}

// Check just passes the request along
func (m Metrics) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver records the result of the delivery.
func (m Metrics) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	path := testament.GetPath(tx)
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.duration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	m.txs.WithLabelValues(path, result).Inc()
	return res, err
}
