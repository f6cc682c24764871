// Package gallery turns directories of example scripts into documentation
// pages: each example is copied, split into blocks, optionally executed, and
// assembled into an rst page with figures, a thumbnail and a notebook twin.
package gallery

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/galleria/internal/config"
	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
	"git.home.luguber.info/inful/galleria/internal/figure"
	"git.home.luguber.info/inful/galleria/internal/logfields"
	"git.home.luguber.info/inful/galleria/internal/metrics"
	"git.home.luguber.info/inful/galleria/internal/parser"
	"git.home.luguber.info/inful/galleria/internal/script"
)

// Generator drives the per-example pipeline. One generator serves a whole
// build and shares its execution engine across files; the engine guarantees
// state isolation between them.
type Generator struct {
	cfg      *config.Config
	engine   *script.Engine
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewGenerator creates a generator for the given configuration.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{
		cfg:      cfg,
		engine:   script.NewEngine(cfg),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
}

// WithLogger sets a custom logger. Returns the generator for chaining.
func (g *Generator) WithLogger(logger *slog.Logger) *Generator {
	g.logger = logger
	g.engine.WithLogger(logger)
	return g
}

// WithRecorder sets the metrics sink. Returns the generator for chaining.
func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	g.recorder = r
	return g
}

// WithSceneEngine attaches an alternate visualization engine whose scenes are
// harvested alongside plot figures.
func (g *Generator) WithSceneEngine(scenes figure.SceneEngine) *Generator {
	g.engine.WithSceneEngine(scenes)
	return g
}

// GenerateFile builds the documentation page for one example. The source is
// copied into targetDir first; when the copy's checksum sidecar is current
// the example is skipped entirely and only its intro is returned, with zero
// elapsed time. Otherwise every code block is executed in order (unless the
// file is ineligible or execution is disabled), the page assembled and
// written, and the thumbnail and notebook derived.
func (g *Generator) GenerateFile(fname, targetDir, srcDir string) (string, time.Duration, error) {
	srcFile := filepath.Join(srcDir, fname)
	exampleFile := filepath.Join(targetDir, fname)
	if err := copyFile(srcFile, exampleFile); err != nil {
		return "", 0, err
	}

	data, err := os.ReadFile(exampleFile)
	if err != nil {
		return "", 0, gerrors.ArtifactError("read example", err).WithContext("path", exampleFile)
	}
	fileConf, blocks, err := parser.Split(data, fname)
	if err != nil {
		return "", 0, err
	}
	intro, _, err := parser.ExtractIntroAndTitle(fname, blocks[0].Content)
	if err != nil {
		return "", 0, err
	}

	if IsCached(exampleFile) {
		g.recorder.IncCacheHit()
		g.recorder.IncExampleResult(metrics.ResultCached)
		g.logger.Debug("example unchanged, skipping", logfields.Example(srcFile), logfields.Cached(true))
		return intro, 0, nil
	}

	imageDir := filepath.Join(targetDir, "images")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return "", 0, gerrors.ArtifactError("create image dir", err).WithContext("path", imageDir)
	}
	base := strings.TrimSuffix(fname, filepath.Ext(fname))
	imageTemplate := filepath.Join(imageDir, "galleria_"+base+"_%03d.png")

	executeScript := g.cfg.PlotGallery && g.cfg.ExecutePattern().MatchString(srcFile)
	st := g.engine.StartFile(srcFile, imageTemplate, executeScript)
	defer g.engine.FinishFile(st)

	var page strings.Builder
	fmt.Fprintf(&page, "\n\n.. _%s:\n\n", anchorRef(exampleFile, g.cfg.SrcDir))

	// A simple example has two blocks, the docstring and one code block;
	// anything longer reads as a narrative and interleaves code before its
	// output.
	narrative := len(blocks) > 2
	var elapsed time.Duration
	blocksRun := 0

	for _, block := range blocks {
		if block.Kind == parser.BlockText {
			page.WriteString(block.Content + "\n\n")
			continue
		}

		ran := st.Executing && g.cfg.PlotGallery
		res, err := g.engine.RunBlock(block, st)
		if err != nil {
			return "", 0, err
		}
		elapsed += res.Elapsed
		if ran {
			blocksRun++
		}

		var codeOutput string
		switch {
		case res.Failed:
			codeOutput = "\n" + codeBlockRST(res.Traceback, "pytb", 0) + "\n\n\n\n"
		case ran:
			stdout := ""
			if res.Stdout != "" {
				stdout = outputRST(res.Stdout)
			}
			codeOutput = "\n" + res.ImagesRST + "\n\n" + stdout + "\n\n"
		}

		lineno := 0
		if lineNumbersEnabled(fileConf, g.cfg) {
			lineno = block.StartLine
		}
		if narrative {
			page.WriteString(codeBlockRST(block.Content, "python", lineno) + "\n")
			page.WriteString(codeOutput)
		} else {
			page.WriteString(codeOutput)
			if strings.Contains(codeOutput, "galleria-script-out") {
				// Vertical space between textual output and its code.
				page.WriteString("\n\n|\n\n")
			}
			page.WriteString(codeBlockRST(block.Content, "python", lineno) + "\n")
		}
	}

	// The sidecar is written only for files that were meant to run and ran to
	// completion. A render-only pass must not look cached on the next
	// executing build, and a failed example must be re-run (and re-reported)
	// until it is fixed.
	if executeScript && st.Executing {
		if err := WriteChecksum(exampleFile); err != nil {
			return "", 0, err
		}
	}

	if err := figure.SaveThumbnail(imageTemplate, srcFile, fileConf, g.cfg); err != nil {
		return "", 0, err
	}
	if err := saveNotebook(notebookFromBlocks(blocks), ReplaceStarIpynb(exampleFile)); err != nil {
		return "", 0, err
	}

	if elapsed.Seconds() >= g.cfg.MinReportedTime {
		page.WriteString(timingFooter(elapsed.Seconds()))
	}
	page.WriteString(downloadFooter(fname))
	page.WriteString(signatureRST)

	rstPath := filepath.Join(targetDir, base+".rst")
	if err := os.WriteFile(rstPath, []byte(page.String()), 0o644); err != nil {
		return "", 0, gerrors.ArtifactError("write example page", err).WithContext("path", rstPath)
	}

	g.observe(srcFile, executeScript, blocksRun, st.FigCount, elapsed)
	return intro, elapsed, nil
}

// observe records per-example outcome metrics and the runtime debug line.
func (g *Generator) observe(srcFile string, executed bool, blocksRun, figures int, elapsed time.Duration) {
	switch {
	case !executed:
		g.recorder.IncExampleResult(metrics.ResultSkipped)
	case g.isFailing(srcFile):
		g.recorder.IncExampleResult(metrics.ResultFailed)
	default:
		g.recorder.IncExampleResult(metrics.ResultSuccess)
	}
	g.recorder.ObserveExampleDuration(elapsed)
	g.recorder.AddBlocksExecuted(blocksRun)
	g.recorder.AddFiguresSaved(figures)

	if executed {
		g.logger.Debug("example executed",
			logfields.Example(srcFile),
			logfields.DurationMS(float64(elapsed.Milliseconds())),
			logfields.Figures(figures))
	}
}

func (g *Generator) isFailing(srcFile string) bool {
	_, ok := g.cfg.FailingExamples[srcFile]
	return ok
}

// lineNumbersEnabled resolves the file-local line_numbers directive against
// the global setting.
func lineNumbersEnabled(fileConf parser.FileConfig, cfg *config.Config) bool {
	if v, ok := fileConf["line_numbers"]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return cfg.LineNumbers
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return gerrors.ArtifactError("open example source", err).WithContext("path", src)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return gerrors.ArtifactError("create target dir", err).WithContext("path", filepath.Dir(dst))
	}
	out, err := os.Create(dst)
	if err != nil {
		return gerrors.ArtifactError("create example copy", err).WithContext("path", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return gerrors.ArtifactError("copy example", err).WithContext("path", dst)
	}
	return out.Close()
}
