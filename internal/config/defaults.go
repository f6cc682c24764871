package config

const (
	// defaultFilenamePattern matches the conventional plot_* example naming.
	defaultFilenamePattern = `plot`

	// DirectivePrefix is the in-source configuration directive prefix, as in
	// `# galleria_thumbnail_number = 2`.
	DirectivePrefix = "galleria"
)

var defaultThumbnailSize = [2]int{400, 280}

// DefaultConfig returns a Config with the stock policy knobs set.
func DefaultConfig() *Config {
	return &Config{
		PlotGallery:     true,
		FilenamePattern: defaultFilenamePattern,
		ThumbnailSize:   defaultThumbnailSize,
		MinReportedTime: 0,
		FailingExamples: make(map[string]string),
	}
}
