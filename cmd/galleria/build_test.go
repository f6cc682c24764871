package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/galleria/internal/config"
	"git.home.luguber.info/inful/galleria/internal/gallery"
	"git.home.luguber.info/inful/galleria/internal/history"
)

const buildExample = `"""
# Build demo

Example used by the build command tests.
"""
print("built")
`

const brokenBuildExample = `"""
# Broken build demo

Fails at runtime.
"""
x = 1 // 0
`

func newBuildFixture(t *testing.T) (*config.Config, string, string) {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "examples")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "README.txt"),
		[]byte("Demo gallery\n============\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.SrcDir = root
	return cfg, src, filepath.Join(root, "auto_examples")
}

func writeSource(t *testing.T, src, fname, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(src, fname), []byte(content), 0o644))
}

func TestReportSlowestQueriesHistory(t *testing.T) {
	store, err := history.NewStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.RecordRun(ctx, "run-1", "plot_slow.star", history.StatusSuccess, 2*time.Second))
	require.NoError(t, store.RecordRun(ctx, "run-1", "plot_cached.star", history.StatusCached, 0))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reportSlowest(ctx, logger, store, "run-1")

	assert.Contains(t, buf.String(), "plot_slow.star")
	assert.NotContains(t, buf.String(), "plot_cached.star")
}

func TestRecordRunsStatuses(t *testing.T) {
	store, err := history.NewStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	cfg := config.DefaultConfig()
	src := "/examples"
	cfg.FailingExamples[filepath.Join(src, "plot_bad.star")] = "Traceback"

	recordRuns(context.Background(), store, cfg, "run-1", src, []gallery.ComputationTime{
		{Name: "plot_ok.star", Elapsed: 40 * time.Millisecond},
		{Name: "plot_bad.star", Elapsed: 10 * time.Millisecond},
		{Name: "plot_unchanged.star", Elapsed: 0},
		{Name: "demo_quiet.star", Elapsed: 0}, // ineligible for execution
	})

	ctx := context.Background()
	want := map[string]string{
		"plot_ok.star":        history.StatusSuccess,
		"plot_bad.star":       history.StatusFailed,
		"plot_unchanged.star": history.StatusCached,
		"demo_quiet.star":     history.StatusSkipped,
	}
	for example, status := range want {
		runs, err := store.History(ctx, example, 1)
		require.NoError(t, err)
		require.Len(t, runs, 1, example)
		assert.Equal(t, status, runs[0].Status, example)
	}
}

func TestRunBuildRecordsHistory(t *testing.T) {
	cfg, src, target := newBuildFixture(t)
	cfg.HistoryDB = filepath.Join(filepath.Dir(src), "history.db")
	writeSource(t, src, "plot_demo.star", buildExample)
	writeSource(t, src, "demo_quiet.star", buildExample)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	require.NoError(t, runBuild(cfg, logger, "run-1", src, target))

	store, err := history.NewStore(cfg.HistoryDB)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	runs, err := store.History(ctx, "plot_demo.star", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusSuccess, runs[0].Status)

	runs, err = store.History(ctx, "demo_quiet.star", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusSkipped, runs[0].Status)

	// A second, unchanged build is recorded as cached.
	require.NoError(t, runBuild(cfg, logger, "run-2", src, target))
	runs, err = store.History(ctx, "plot_demo.star", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusCached, runs[0].Status)
}

func TestRunBuildFailedExampleRecordedEveryBuild(t *testing.T) {
	cfg, src, target := newBuildFixture(t)
	cfg.HistoryDB = filepath.Join(filepath.Dir(src), "history.db")
	writeSource(t, src, "plot_bad.star", brokenBuildExample)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	require.NoError(t, runBuild(cfg, logger, "run-1", src, target))

	// A failing example is never fingerprinted, so the next build re-runs
	// and re-records it.
	cfg.FailingExamples = make(map[string]string)
	require.NoError(t, runBuild(cfg, logger, "run-2", src, target))

	store, err := history.NewStore(cfg.HistoryDB)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.History(context.Background(), "plot_bad.star", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, history.StatusFailed, runs[0].Status)
	assert.Equal(t, history.StatusFailed, runs[1].Status)
}
