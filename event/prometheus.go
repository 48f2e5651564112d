package event

import "github.com/prometheus/client_golang/prometheus"

// PrometheusRecorder exports a counter per event Kind. It is the one
// instrumentation backend that genuinely needs a lock-free shared counter
// rather than a per-goroutine buffer (Prometheus counters are themselves
// safe for concurrent Inc calls), so it is the recommended Recorder for
// long-running processes that want live metrics instead of a one-shot
// report built from BufferRecorder output.
type PrometheusRecorder struct {
	counter *prometheus.CounterVec
}

// NewPrometheusRecorder registers (and returns a recorder wrapping) a
// "elimbackoff_stack_events_total" counter vector labelled by event kind,
// on reg. Pass prometheus.DefaultRegisterer to use the global registry.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "elimbackoff_stack_events_total",
		Help: "Count of elimination-backoff stack instrumentation events by kind.",
	}, []string{"kind"})

	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			c = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PrometheusRecorder{counter: c}, nil
}

func (r *PrometheusRecorder) Record(e Event) {
	r.counter.WithLabelValues(e.Kind.String()).Inc()
}
