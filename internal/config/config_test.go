package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.PlotGallery)
	assert.Equal(t, [2]int{400, 280}, cfg.ThumbnailSize)
	assert.NotNil(t, cfg.FailingExamples)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "galleria.yaml")
	content := `
src_dir: ./doc
plot_gallery: true
filename_pattern: "plot_"
abort_on_example_error: true
thumbnail_size: [200, 140]
min_reported_time: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./doc", cfg.SrcDir)
	assert.True(t, cfg.AbortOnExampleError)
	assert.Equal(t, [2]int{200, 140}, cfg.ThumbnailSize)
	assert.InDelta(t, 2.5, cfg.MinReportedTime, 1e-9)
	assert.NotNil(t, cfg.FailingExamples, "registry must be initialized on load")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, gerrors.IsCategory(err, gerrors.CategoryConfig))
}

func TestValidateRejectsBadPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilenamePattern = "(["
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, gerrors.IsCategory(err, gerrors.CategoryValidation))
}

func TestValidateRejectsNegativeMinTime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinReportedTime = -1
	require.Error(t, cfg.Validate())
}

func TestNormalizeFillsEmptyThumbnailSize(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()
	assert.Equal(t, defaultThumbnailSize, cfg.ThumbnailSize)
	assert.Equal(t, defaultFilenamePattern, cfg.FilenamePattern)
}
