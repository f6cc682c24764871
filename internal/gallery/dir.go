package gallery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
	"git.home.luguber.info/inful/galleria/internal/logfields"
)

// ComputationTime pairs an example with its execution time for the
// slowest-examples report.
type ComputationTime struct {
	Elapsed time.Duration
	Name    string
}

const clearFloats = `.. raw:: html

    <div style='clear:both'></div>

`

// BuildDirectory generates the gallery for one example directory: its
// README.txt becomes the section header, every eligible .star file is
// processed in sorted order, and the returned index text carries one
// thumbnail entry per example plus a hidden toctree. The per-example
// computation times are returned for reporting.
func (g *Generator) BuildDirectory(srcDir, targetDir string) (string, []ComputationTime, error) {
	header, err := os.ReadFile(filepath.Join(srcDir, "README.txt"))
	if err != nil {
		return "", nil, gerrors.ArtifactError("read section readme", err).WithContext("path", srcDir)
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", nil, gerrors.ArtifactError("create target dir", err).WithContext("path", targetDir)
	}

	files, err := g.listExamples(srcDir)
	if err != nil {
		return "", nil, err
	}

	buildTargetDir, err := filepath.Rel(g.cfg.SrcDir, targetDir)
	if err != nil {
		buildTargetDir = targetDir
	}
	g.logger.Info("generating gallery", logfields.Section(buildTargetDir))

	var index strings.Builder
	index.Write(header)
	index.WriteString("\n\n")

	var times []ComputationTime
	for _, fname := range files {
		intro, elapsed, err := g.GenerateFile(fname, targetDir, srcDir)
		if err != nil {
			return "", nil, err
		}
		times = append(times, ComputationTime{Elapsed: elapsed, Name: fname})

		index.WriteString(thumbnailDiv(buildTargetDir, fname, intro))
		index.WriteString("\n\n.. toctree::\n   :hidden:\n\n   /")
		index.WriteString(filepath.ToSlash(filepath.Join(buildTargetDir, strings.TrimSuffix(fname, ".star"))))
		index.WriteString("\n")
	}

	index.WriteString(clearFloats)
	return index.String(), times, nil
}

// listExamples returns the sorted example filenames of srcDir, minus those
// matched by the ignore pattern.
func (g *Generator) listExamples(srcDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, gerrors.ArtifactError("list example dir", err).WithContext("path", srcDir)
	}

	ignore := g.cfg.IgnoreRegexp()
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".star") {
			continue
		}
		if ignore != nil && ignore.MatchString(filepath.Join(srcDir, name)) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}
