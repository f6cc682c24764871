// Package config holds the gallery build configuration and the shared
// registries the engine writes for downstream consumers.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
)

// Config represents the gallery configuration
type Config struct {
	// SrcDir is the documentation source root; embedded image paths are
	// emitted relative to it.
	SrcDir string `yaml:"src_dir"`

	// PlotGallery globally enables executing example code. When false every
	// example is parsed and rendered but never run.
	PlotGallery bool `yaml:"plot_gallery"`

	// FilenamePattern selects which example files are eligible for execution.
	FilenamePattern string `yaml:"filename_pattern,omitempty"`

	// IgnorePattern excludes files from the gallery entirely.
	IgnorePattern string `yaml:"ignore_pattern,omitempty"`

	// AbortOnExampleError stops the whole run on the first failing example.
	AbortOnExampleError bool `yaml:"abort_on_example_error"`

	// ThumbnailSize is the exact [width, height] of generated thumbnails.
	ThumbnailSize [2]int `yaml:"thumbnail_size,omitempty"`

	// MinReportedTime suppresses the timing footer for examples that ran
	// faster than this many seconds.
	MinReportedTime float64 `yaml:"min_reported_time,omitempty"`

	// DefaultThumbFile replaces the built-in "no image" placeholder.
	DefaultThumbFile string `yaml:"default_thumb_file,omitempty"`

	// LineNumbers annotates rendered code blocks with source line numbers.
	LineNumbers bool `yaml:"line_numbers"`

	// FindSceneFigures additionally drains the alternate scene engine after
	// each code block.
	FindSceneFigures bool `yaml:"find_scene_figures"`

	// HistoryDB is the optional path of the run-history database.
	HistoryDB string `yaml:"history_db,omitempty"`

	// FailingExamples maps source path -> formatted traceback. Written by the
	// execution engine, read by the renderer and the thumbnail step.
	FailingExamples map[string]string `yaml:"-"`
}

// Load reads a Config from a YAML file, applying defaults and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gerrors.ConfigNotFound(path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize fills derived and registry fields after unmarshalling.
func (c *Config) Normalize() {
	if c.FailingExamples == nil {
		c.FailingExamples = make(map[string]string)
	}
	if c.FilenamePattern == "" {
		c.FilenamePattern = defaultFilenamePattern
	}
	if c.ThumbnailSize == [2]int{} {
		c.ThumbnailSize = defaultThumbnailSize
	}
}
