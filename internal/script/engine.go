// Package script executes the code blocks of one example file in a
// persistent Starlark namespace, capturing text output and delegating figure
// harvesting after each successful block.
package script

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"git.home.luguber.info/inful/galleria/internal/config"
	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
	"git.home.luguber.info/inful/galleria/internal/figure"
	"git.home.luguber.info/inful/galleria/internal/logfields"
	"git.home.luguber.info/inful/galleria/internal/parser"
)

// stateLocalKey carries the per-file State on the Starlark thread so the load
// hook can attribute module loads to the executing file.
const stateLocalKey = "galleria.state"

// Engine runs example code. One engine serves a whole build; per-file state
// lives in State and never leaks across files.
type Engine struct {
	cfg       *config.Config
	logger    *slog.Logger
	scenes    figure.SceneEngine
	defaults  *figure.Defaults
	loadCache map[string]*loadEntry
}

type loadEntry struct {
	globals starlark.StringDict
	err     error
}

// NewEngine creates an execution engine for the given gallery configuration.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{
		cfg:       cfg,
		logger:    slog.Default(),
		defaults:  figure.NewDefaults(),
		loadCache: make(map[string]*loadEntry),
	}
}

// WithLogger sets a custom logger. Returns the engine for chaining.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.logger = logger
	return e
}

// WithSceneEngine attaches the alternate visualization engine drained during
// figure capture.
func (e *Engine) WithSceneEngine(scenes figure.SceneEngine) *Engine {
	e.scenes = scenes
	return e
}

// State is the mutable execution state of one file. It is created by
// StartFile, owned by the engine for the duration of that file, and must be
// released with FinishFile on every path.
type State struct {
	SrcFile       string
	ImageTemplate string
	Namespace     starlark.StringDict
	Figures       *figure.Registry

	// FigCount is the number of figures persisted so far for this file.
	FigCount int

	// Executing flips to false permanently once a block fails; remaining
	// code blocks are then shown but not run.
	Executing bool

	loaded      []string
	restoreArgs func()
}

// StartFile prepares the execution state for one example file. When the file
// is marked for execution the process argument vector is overridden so the
// example observes itself as invoked standalone with no arguments.
func (e *Engine) StartFile(srcFile, imageTemplate string, execute bool) *State {
	reg := figure.NewRegistry(e.defaults)
	st := &State{
		SrcFile:       srcFile,
		ImageTemplate: imageTemplate,
		Namespace:     starlark.StringDict{"plot": figure.Module(reg)},
		Figures:       reg,
		Executing:     execute,
	}
	if execute && e.cfg.PlotGallery {
		orig := os.Args
		os.Args = []string{srcFile}
		st.restoreArgs = func() { os.Args = orig }
	}
	return st
}

// FinishFile releases per-file state: discards open figures, resets the
// plotting defaults to baseline, purges module registry entries loaded by
// this file, and restores the argument vector. Subsequent files start clean.
func (e *Engine) FinishFile(st *State) {
	st.Figures.CloseAll()
	e.defaults.Reset()
	for _, path := range st.loaded {
		delete(e.loadCache, path)
	}
	st.loaded = nil
	if st.restoreArgs != nil {
		st.restoreArgs()
		st.restoreArgs = nil
	}
}

// Result is the outcome of running one code block. Exactly one of the two
// forms is populated: the success fields, or Failed with a traceback.
type Result struct {
	Stdout      string
	ImagesRST   string
	FigureCount int
	Elapsed     time.Duration

	Failed    bool
	Traceback string
}

// RunBlock executes one code block against the file's namespace. It is a
// no-op when the state is no longer executing or execution is globally
// disabled. The returned error is non-nil only when the abort-on-error
// policy escalates a failure to the whole run.
func (e *Engine) RunBlock(block parser.Block, st *State) (Result, error) {
	if !st.Executing || !e.cfg.PlotGallery {
		return Result{}, nil
	}

	// Figures left open by unrelated earlier blocks must not bleed in.
	st.Figures.CloseAll()

	cwd, err := os.Getwd()
	if err != nil {
		return Result{}, gerrors.InternalError("determine working directory", err)
	}
	// Run in the example's directory so relative file writes land beside the
	// source; restored on every exit path.
	if err := os.Chdir(filepath.Dir(st.SrcFile)); err != nil {
		return Result{}, gerrors.InternalError("enter example directory", err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	tee := newLoggingTee(e.logger, st.SrcFile)
	thread := &starlark.Thread{
		Name: st.SrcFile,
		Print: func(_ *starlark.Thread, msg string) {
			_, _ = tee.Write([]byte(msg + "\n"))
		},
		Load: e.load,
	}
	thread.SetLocal(stateLocalKey, st)

	src := syntax.FilePortion{
		Content:   []byte(block.Content),
		FirstLine: int32(block.StartLine),
		FirstCol:  1,
	}
	f, parseErr := parser.FileOptions.Parse(st.SrcFile, src, 0)
	if parseErr != nil {
		return e.fail(tee, st, parseErr, failSyntax)
	}

	start := time.Now()
	execErr := starlark.ExecREPLChunk(f, thread, st.Namespace)
	elapsed := time.Since(start)
	if execErr != nil {
		return e.fail(tee, st, execErr, failRuntime)
	}

	tee.Flush()
	imagesRST, figs, err := figure.Capture(st.Figures, e.scenes, st.ImageTemplate, st.FigCount, e.cfg)
	if err != nil {
		return Result{}, err
	}
	st.FigCount += figs

	return Result{
		Stdout:      normalizeStdout(tee.String()),
		ImagesRST:   imagesRST,
		FigureCount: figs,
		Elapsed:     elapsed,
	}, nil
}

// fail handles a block failure: the output stream is flushed first, the
// traceback formatted for inline display, and the failure either recorded
// (flipping Executing off for the rest of the file) or escalated when the
// abort policy demands it. Failed blocks contribute no execution time.
func (e *Engine) fail(tee *loggingTee, st *State, cause error, kind failureKind) (Result, error) {
	tee.Flush()
	traceback := FormatTraceback(cause, kind)

	e.logger.Warn("example failed to execute correctly",
		logfields.Example(st.SrcFile),
		logfields.Error(cause))

	if e.cfg.AbortOnExampleError {
		return Result{}, gerrors.ExampleAborted(st.SrcFile, cause)
	}

	e.cfg.FailingExamples[st.SrcFile] = traceback
	st.Executing = false
	return Result{Failed: true, Traceback: traceback}, nil
}

// load implements Starlark load() with a shared module cache. Entries loaded
// for the first time by the current file are recorded so FinishFile can purge
// them, keeping one example's modules from shadowing the next file's.
func (e *Engine) load(thread *starlark.Thread, module string) (starlark.StringDict, error) {
	path := module
	if !filepath.IsAbs(path) {
		if cwd, err := os.Getwd(); err == nil {
			path = filepath.Join(cwd, module)
		}
	}

	if entry, ok := e.loadCache[path]; ok {
		return entry.globals, entry.err
	}

	// Placeholder guards against load cycles while the module executes.
	e.loadCache[path] = &loadEntry{err: fmt.Errorf("cycle in load graph of %s", module)}

	var globals starlark.StringDict
	src, err := os.ReadFile(path)
	if err == nil {
		loadThread := &starlark.Thread{Name: "load " + module, Load: e.load, Print: thread.Print}
		globals, err = starlark.ExecFileOptions(parser.FileOptions, loadThread, path, src, nil)
	}
	e.loadCache[path] = &loadEntry{globals: globals, err: err}

	if st, ok := thread.Local(stateLocalKey).(*State); ok && st != nil {
		st.loaded = append(st.loaded, path)
	}
	return globals, err
}
