package prometheus

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitcircle/fitcircle-client/pkg/metric"
)

// Metrics lazily registers a counter or histogram vector per metric name.
// Label names of a metric are fixed by its first use.
type Metrics struct {
	registry *registry
	labels   metric.Labels
}

type registry struct {
	mu         sync.Mutex
	namespace  string
	impl       *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	return &Metrics{
		registry: &registry{
			namespace:  namespace,
			impl:       prometheus.NewRegistry(),
			counters:   make(map[string]*prometheus.CounterVec),
			histograms: make(map[string]*prometheus.HistogramVec),
		},
	}
}

func (m *Metrics) With(labels metric.Labels) metric.Metrics {
	merged := make(metric.Labels, len(m.labels)+len(labels))
	for k, v := range m.labels {
		merged[k] = v
	}
	for k, v := range labels {
		merged[k] = v
	}
	return &Metrics{registry: m.registry, labels: merged}
}

func (m *Metrics) Increment(name string) {
	counter := m.registry.counter(name, labelNames(m.labels))
	if counter == nil {
		return
	}
	counter.With(prometheus.Labels(m.labels)).Inc()
}

func (m *Metrics) Duration(name string, duration time.Duration) {
	histogram := m.registry.histogram(name, labelNames(m.labels))
	if histogram == nil {
		return
	}
	histogram.With(prometheus.Labels(m.labels)).Observe(duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry.impl, promhttp.HandlerOpts{})
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry.impl
}

func (r *registry) counter(name string, labels []string) *prometheus.CounterVec {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.counters[name]; ok {
		return c
	}

	c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: r.namespace, Name: name}, labels)
	if err := r.impl.Register(c); err != nil {
		return nil
	}
	r.counters[name] = c
	return c
}

func (r *registry) histogram(name string, labels []string) *prometheus.HistogramVec {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.histograms[name]; ok {
		return h
	}

	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      name,
		Buckets:   prometheus.DefBuckets,
	}, labels)
	if err := r.impl.Register(h); err != nil {
		return nil
	}
	r.histograms[name] = h
	return h
}

func labelNames(labels metric.Labels) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
