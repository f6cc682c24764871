// Package metrics provides observability hooks for gallery builds.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless a real implementation (the
// Prometheus adapter) is injected.
package metrics

import "time"

// ResultLabel enumerates per-example outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultCached  ResultLabel = "cached"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for gallery build metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveExampleDuration(d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncExampleResult(result ResultLabel)
	AddBlocksExecuted(n int)
	IncCacheHit()
	AddFiguresSaved(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveExampleDuration(time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)   {}
func (NoopRecorder) IncExampleResult(ResultLabel)         {}
func (NoopRecorder) AddBlocksExecuted(int)                {}
func (NoopRecorder) IncCacheHit()                         {}
func (NoopRecorder) AddFiguresSaved(int)                  {}
