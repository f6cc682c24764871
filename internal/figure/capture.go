package figure

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/galleria/internal/config"
	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
)

// The horizontal-list wrapper turns multiple figures into an inline row; the
// single-image directive carries its own class for bordered styling.
const (
	hlistHeader = `
.. rst-class:: galleria-horizontal

`
	hlistImageTemplate = `
    *

      .. image:: /%s
            :class: galleria-multi-img
`
	singleImageTemplate = `
.. image:: /%s
    :class: galleria-single-img
`
)

// Scene canvases are bounded to this size before embedding.
const (
	sceneMaxWidth  = 850
	sceneMaxHeight = 999
)

// Capture persists every open figure of the just-executed code block to a
// numbered image path and returns the embeddable fragment plus the number of
// figures produced. Numbering continues from startCount so multiple blocks in
// one file yield a strictly increasing sequence. When a scene engine is
// configured its scenes are drained after the figures, numbered contiguously,
// bounded in size, and closed for good.
func Capture(reg *Registry, scenes SceneEngine, imageTemplate string, startCount int, cfg *config.Config) (string, int, error) {
	var saved []string
	for i, fig := range reg.Open() {
		path := fmt.Sprintf(imageTemplate, startCount+i+1)
		if err := fig.Save(path, reg.Defaults()); err != nil {
			return "", 0, gerrors.ArtifactError("save figure", err).WithContext("path", path)
		}
		saved = append(saved, path)
	}

	if cfg.FindSceneFigures && scenes != nil {
		base := startCount + len(saved)
		for j, scene := range scenes.Scenes() {
			path := fmt.Sprintf(imageTemplate, base+j+1)
			if err := scene.SaveTo(path); err != nil {
				return "", 0, gerrors.ArtifactError("save scene", err).WithContext("path", path)
			}
			if err := ScaleImage(path, path, sceneMaxWidth, sceneMaxHeight); err != nil {
				return "", 0, gerrors.ArtifactError("bound scene image", err).WithContext("path", path)
			}
			saved = append(saved, path)
		}
		scenes.CloseAll()
	}

	return FigureRST(saved, cfg.SrcDir), len(saved), nil
}

// FigureRST builds the fragment embedding the given figure paths: empty for
// none, a single image directive for one, a horizontal list for several.
// Paths are emitted relative to the documentation source root with forward
// slashes and no leading slash.
func FigureRST(figurePaths []string, srcDir string) string {
	rels := make([]string, 0, len(figurePaths))
	for _, p := range figurePaths {
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			rel = p
		}
		rels = append(rels, strings.TrimPrefix(filepath.ToSlash(rel), "/"))
	}

	switch len(rels) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf(singleImageTemplate, rels[0])
	default:
		var sb strings.Builder
		sb.WriteString(hlistHeader)
		for _, rel := range rels {
			fmt.Fprintf(&sb, hlistImageTemplate, rel)
		}
		return sb.String()
	}
}
