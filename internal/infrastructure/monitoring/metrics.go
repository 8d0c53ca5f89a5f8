package monitoring

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
	"github.com/turtacn/obsdemo/internal/domain/service"
	"github.com/turtacn/obsdemo/pkg/constants"
)

var _ service.MetricsRecorder = (*Registry)(nil)

var (
	// ErrKindMismatch is returned when a name already registered as one metric kind is used as another.
	ErrKindMismatch = errors.New("metric kind mismatch")

	// ErrLabelMismatch is returned when the label keys differ from the ones the family was created with.
	ErrLabelMismatch = errors.New("metric label keys mismatch")
)

// Labels maps label keys to values for one series.
type Labels = map[string]string

// Kind identifies the type of a metric family.
type Kind int

const (
	KindCounter Kind = iota
	KindGauge
	KindHistogram
)

func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindHistogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// LabelPair is one label of a series.
type LabelPair struct {
	Name  string
	Value string
}

// Bucket is a cumulative histogram bucket.
type Bucket struct {
	UpperBound      float64
	CumulativeCount uint64
}

// Series is a point-in-time view of one labeled series.
type Series struct {
	Name   string
	Kind   Kind
	Labels []LabelPair

	// Value holds the counter or gauge value.
	Value float64

	// Count, Sum and Buckets are set for histograms.
	Count   uint64
	Sum     float64
	Buckets []Bucket
}

// Label returns the value of the named label.
func (s Series) Label(name string) (string, bool) {
	for _, lp := range s.Labels {
		if lp.Name == name {
			return lp.Value, true
		}
	}
	return "", false
}

type family struct {
	kind       Kind
	labelNames []string
	counter    *prometheus.CounterVec
	histogram  *prometheus.HistogramVec
}

// Registry is an in-memory store of named, labeled counters and histograms.
// Families are created lazily on first use; all operations are safe for concurrent use.
type Registry struct {
	reg      *prometheus.Registry
	buckets  []float64
	mu       sync.RWMutex
	families map[string]*family
	help     map[string]string
}

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithBuckets sets the histogram bucket upper bounds. Empty keeps prometheus.DefBuckets.
func WithBuckets(buckets []float64) RegistryOption {
	return func(r *Registry) {
		if len(buckets) > 0 {
			r.buckets = slices.Clone(buckets)
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() RegistryOption {
	return func(r *Registry) {
		r.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// NewRegistry creates an empty registry. The HTTP request metrics come pre-described.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		reg:      prometheus.NewRegistry(),
		buckets:  prometheus.DefBuckets,
		families: make(map[string]*family),
		help: map[string]string{
			constants.MetricHTTPRequestsTotal:   "Total HTTP requests",
			constants.MetricHTTPRequestDuration: "HTTP request latency in seconds",
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Describe sets the help text used when the named family is first created.
func (r *Registry) Describe(name, help string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.help[name] = help
}

// IncrementCounter adds 1 to the series identified by name and labels.
func (r *Registry) IncrementCounter(name string, labels Labels) error {
	f, err := r.family(name, KindCounter, labels)
	if err != nil {
		return err
	}
	c, err := f.counter.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	c.Inc()
	return nil
}

// ObserveHistogram records value in the series identified by name and labels.
func (r *Registry) ObserveHistogram(name string, labels Labels, value float64) error {
	f, err := r.family(name, KindHistogram, labels)
	if err != nil {
		return err
	}
	h, err := f.histogram.GetMetricWith(prometheus.Labels(labels))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	h.Observe(value)
	return nil
}

// Gatherer exposes the underlying registry for exposition.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Snapshot returns every counter, gauge and histogram series. Each range over the
// sequence gathers a fresh snapshot; reading has no side effects on the values.
// Summary and untyped families are skipped.
func (r *Registry) Snapshot() iter.Seq2[Series, error] {
	return func(yield func(Series, error) bool) {
		mfs, err := r.reg.Gather()
		if err != nil {
			yield(Series{}, fmt.Errorf("gather metrics: %w", err))
			return
		}
		for _, mf := range mfs {
			kind, ok := kindOf(mf.GetType())
			if !ok {
				continue
			}
			for _, m := range mf.GetMetric() {
				if !yield(toSeries(mf.GetName(), kind, m), nil) {
					return
				}
			}
		}
	}
}

func (r *Registry) family(name string, kind Kind, labels Labels) (*family, error) {
	keys := labelKeys(labels)

	r.mu.RLock()
	f, ok := r.families[name]
	r.mu.RUnlock()
	if ok {
		return f, f.check(name, kind, keys)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.families[name]; ok {
		return f, f.check(name, kind, keys)
	}

	f = &family{kind: kind, labelNames: keys}
	var collector prometheus.Collector
	switch kind {
	case KindCounter:
		f.counter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: name,
			Help: r.helpFor(name),
		}, keys)
		collector = f.counter
	case KindHistogram:
		f.histogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    r.helpFor(name),
			Buckets: r.buckets,
		}, keys)
		collector = f.histogram
	default:
		return nil, fmt.Errorf("%s: unsupported kind %s", name, kind)
	}

	if err := r.reg.Register(collector); err != nil {
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	r.families[name] = f
	return f, nil
}

func (r *Registry) helpFor(name string) string {
	if h, ok := r.help[name]; ok {
		return h
	}
	return name
}

func (f *family) check(name string, kind Kind, keys []string) error {
	if f.kind != kind {
		return fmt.Errorf("%s is a %s, not a %s: %w", name, f.kind, kind, ErrKindMismatch)
	}
	if !slices.Equal(f.labelNames, keys) {
		return fmt.Errorf("%s expects labels %v, got %v: %w", name, f.labelNames, keys, ErrLabelMismatch)
	}
	return nil
}

func labelKeys(labels Labels) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func kindOf(t dto.MetricType) (Kind, bool) {
	switch t {
	case dto.MetricType_COUNTER:
		return KindCounter, true
	case dto.MetricType_GAUGE:
		return KindGauge, true
	case dto.MetricType_HISTOGRAM:
		return KindHistogram, true
	default:
		return 0, false
	}
}

func toSeries(name string, kind Kind, m *dto.Metric) Series {
	s := Series{Name: name, Kind: kind}
	for _, lp := range m.GetLabel() {
		s.Labels = append(s.Labels, LabelPair{Name: lp.GetName(), Value: lp.GetValue()})
	}

	switch kind {
	case KindCounter:
		s.Value = m.GetCounter().GetValue()
	case KindGauge:
		s.Value = m.GetGauge().GetValue()
	case KindHistogram:
		h := m.GetHistogram()
		s.Count = h.GetSampleCount()
		s.Sum = h.GetSampleSum()
		for _, b := range h.GetBucket() {
			s.Buckets = append(s.Buckets, Bucket{UpperBound: b.GetUpperBound(), CumulativeCount: b.GetCumulativeCount()})
		}
	}
	return s
}
