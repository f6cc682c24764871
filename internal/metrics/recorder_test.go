package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestNoopRecorderImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveExampleDuration(time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncExampleResult(ResultSuccess)
	r.AddBlocksExecuted(3)
	r.IncCacheHit()
	r.AddFiguresSaved(2)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveExampleDuration(time.Second)
	pr.IncExampleResult(ResultFailed)
	pr.AddBlocksExecuted(1)
	pr.IncCacheHit()
	pr.AddFiguresSaved(1)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveExampleDuration(150 * time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncExampleResult(ResultSuccess)
	pr.IncExampleResult(ResultCached)
	pr.AddBlocksExecuted(4)
	pr.IncCacheHit()
	pr.AddFiguresSaved(2)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}
