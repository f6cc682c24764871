package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/galleria/internal/config"
	"git.home.luguber.info/inful/galleria/internal/gallery"
	"git.home.luguber.info/inful/galleria/internal/history"
	"git.home.luguber.info/inful/galleria/internal/logfields"
	"git.home.luguber.info/inful/galleria/internal/metrics"
)

const slowestReported = 5

// runBuild generates the whole gallery: the root example directory and every
// subdirectory carrying a README.txt becomes a section, each section's index
// is written next to its pages, and the run is recorded in the history
// database when one is configured.
func runBuild(cfg *config.Config, logger *slog.Logger, runID, src, target string) error {
	start := time.Now()
	ctx := context.Background()

	recorder := metrics.NewPrometheusRecorder(prom.NewRegistry())
	gen := gallery.NewGenerator(cfg).WithLogger(logger).WithRecorder(recorder)

	var store *history.Store
	if cfg.HistoryDB != "" {
		var err error
		store, err = history.NewStore(cfg.HistoryDB)
		if err != nil {
			return fmt.Errorf("open history database: %w", err)
		}
		defer store.Close()
	}

	sections, err := sectionDirs(src)
	if err != nil {
		return err
	}

	var allTimes []gallery.ComputationTime
	for _, section := range sections {
		targetDir := filepath.Join(target, section)
		index, times, err := gen.BuildDirectory(filepath.Join(src, section), targetDir)
		if err != nil {
			return err
		}
		indexPath := filepath.Join(targetDir, "index.rst")
		if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
			return fmt.Errorf("write section index %s: %w", indexPath, err)
		}
		allTimes = append(allTimes, times...)

		if store != nil {
			recordRuns(ctx, store, cfg, runID, filepath.Join(src, section), times)
		}
	}

	elapsed := time.Since(start)
	recorder.ObserveBuildDuration(elapsed)
	if store != nil {
		reportSlowest(ctx, logger, store, runID)
	} else {
		reportTimes(logger, allTimes)
	}

	for example := range cfg.FailingExamples {
		logger.Warn("example failed during build", logfields.Example(example))
	}
	logger.Info("gallery build finished",
		logfields.DurationMS(float64(elapsed.Milliseconds())),
		slog.Int("examples", len(allTimes)),
		slog.Int("failed", len(cfg.FailingExamples)))
	return nil
}

// sectionDirs lists the gallery sections under src: the root itself when it
// holds a README.txt, plus every immediate subdirectory that does.
func sectionDirs(src string) ([]string, error) {
	var sections []string
	if hasReadme(src) {
		sections = append(sections, ".")
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("list example root %s: %w", src, err)
	}
	for _, entry := range entries {
		if entry.IsDir() && hasReadme(filepath.Join(src, entry.Name())) {
			sections = append(sections, entry.Name())
		}
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("no gallery sections under %s (README.txt missing?)", src)
	}
	sort.Strings(sections)
	return sections, nil
}

func hasReadme(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, "README.txt"))
	return err == nil && !fi.IsDir()
}

func recordRuns(ctx context.Context, store *history.Store, cfg *config.Config, runID, srcDir string, times []gallery.ComputationTime) {
	pattern := cfg.ExecutePattern()
	for _, ct := range times {
		srcFile := filepath.Join(srcDir, ct.Name)
		status := history.StatusSuccess
		switch {
		case hasFailure(cfg, srcFile):
			status = history.StatusFailed
		case !cfg.PlotGallery || !pattern.MatchString(srcFile):
			status = history.StatusSkipped
		case ct.Elapsed == 0:
			status = history.StatusCached
		}
		if err := store.RecordRun(ctx, runID, ct.Name, status, ct.Elapsed); err != nil {
			slog.Warn("failed to record run history", logfields.Example(ct.Name), logfields.Error(err))
		}
	}
}

func hasFailure(cfg *config.Config, srcFile string) bool {
	_, ok := cfg.FailingExamples[srcFile]
	return ok
}

// reportSlowest logs the slowest executed examples of this build from the
// run-history store, longest first. Cached and skipped entries never appear.
func reportSlowest(ctx context.Context, logger *slog.Logger, store *history.Store, runID string) {
	runs, err := store.SlowestExamples(ctx, runID, slowestReported)
	if err != nil {
		logger.Warn("failed to query run history", logfields.Error(err))
		return
	}
	for _, r := range runs {
		if r.Elapsed == 0 {
			continue
		}
		logger.Info("slow example",
			logfields.Example(r.Example),
			logfields.DurationMS(float64(r.Elapsed.Milliseconds())))
	}
}

// reportTimes logs the slowest examples of this build, longest first.
func reportTimes(logger *slog.Logger, times []gallery.ComputationTime) {
	sort.Slice(times, func(i, j int) bool { return times[i].Elapsed > times[j].Elapsed })
	for i, ct := range times {
		if i >= slowestReported || ct.Elapsed == 0 {
			break
		}
		logger.Info("slow example",
			logfields.Example(ct.Name),
			logfields.DurationMS(float64(ct.Elapsed.Milliseconds())))
	}
}
