package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	exampleDuration prom.Histogram
	buildDuration   prom.Histogram
	exampleResults  *prom.CounterVec
	blocksExecuted  prom.Counter
	cacheHits       prom.Counter
	figuresSaved    prom.Counter
}

// NewPrometheusRecorder constructs and registers the build metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		exampleDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "galleria",
			Name:      "example_duration_seconds",
			Help:      "Execution duration of individual examples",
			Buckets:   prom.DefBuckets,
		}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "galleria",
			Name:      "build_duration_seconds",
			Help:      "Total gallery build duration",
			Buckets:   prom.DefBuckets,
		}),
		exampleResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "galleria",
			Name:      "example_results_total",
			Help:      "Example outcomes by result",
		}, []string{"result"}),
		blocksExecuted: prom.NewCounter(prom.CounterOpts{
			Namespace: "galleria",
			Name:      "blocks_executed_total",
			Help:      "Code blocks executed across all examples",
		}),
		cacheHits: prom.NewCounter(prom.CounterOpts{
			Namespace: "galleria",
			Name:      "cache_hits_total",
			Help:      "Examples skipped because their fingerprint was current",
		}),
		figuresSaved: prom.NewCounter(prom.CounterOpts{
			Namespace: "galleria",
			Name:      "figures_saved_total",
			Help:      "Figures persisted during example execution",
		}),
	}
	reg.MustRegister(pr.exampleDuration, pr.buildDuration, pr.exampleResults,
		pr.blocksExecuted, pr.cacheHits, pr.figuresSaved)
	return pr
}

func (p *PrometheusRecorder) ObserveExampleDuration(d time.Duration) {
	if p == nil || p.exampleDuration == nil {
		return
	}
	p.exampleDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncExampleResult(result ResultLabel) {
	if p == nil || p.exampleResults == nil {
		return
	}
	p.exampleResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddBlocksExecuted(n int) {
	if p == nil || p.blocksExecuted == nil {
		return
	}
	p.blocksExecuted.Add(float64(n))
}

func (p *PrometheusRecorder) IncCacheHit() {
	if p == nil || p.cacheHits == nil {
		return
	}
	p.cacheHits.Inc()
}

func (p *PrometheusRecorder) AddFiguresSaved(n int) {
	if p == nil || p.figuresSaved == nil {
		return
	}
	p.figuresSaved.Add(float64(n))
}
