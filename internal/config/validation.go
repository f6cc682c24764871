package config

import (
	"regexp"

	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
)

// Validate checks the configuration for values the engine cannot work with.
func (c *Config) Validate() error {
	if _, err := regexp.Compile(c.FilenamePattern); err != nil {
		return gerrors.ValidationFailed("filename_pattern", err.Error())
	}
	if c.IgnorePattern != "" {
		if _, err := regexp.Compile(c.IgnorePattern); err != nil {
			return gerrors.ValidationFailed("ignore_pattern", err.Error())
		}
	}
	if c.ThumbnailSize[0] <= 0 || c.ThumbnailSize[1] <= 0 {
		return gerrors.ValidationFailed("thumbnail_size", "width and height must be positive")
	}
	if c.MinReportedTime < 0 {
		return gerrors.ValidationFailed("min_reported_time", "must not be negative")
	}
	return nil
}

// ExecutePattern returns the compiled filename eligibility pattern. Validate
// must have succeeded first.
func (c *Config) ExecutePattern() *regexp.Regexp {
	return regexp.MustCompile(c.FilenamePattern)
}

// IgnoreRegexp returns the compiled ignore pattern, or nil when unset.
func (c *Config) IgnoreRegexp() *regexp.Regexp {
	if c.IgnorePattern == "" {
		return nil
	}
	return regexp.MustCompile(c.IgnorePattern)
}
