package figure

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/galleria/internal/config"
	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
)

// Placeholder canvas colors. Broken examples get a distinctly warm tone so
// they stand out in the index.
var (
	brokenColor  = color.RGBA{R: 0xcd, G: 0x5c, B: 0x5c, A: 0xff}
	noImageColor = color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}
)

// SaveThumbnail derives the index thumbnail for one example, once per file
// after all blocks have run. The figure index comes from the file-local
// `thumbnail_number` directive (default 1, non-integer is fatal for this
// step). Failing examples get the broken-example placeholder. When the chosen
// image does not exist and no thumbnail exists yet, the configured default
// (or the built-in "no image" canvas) is used; an existing thumbnail is never
// re-derived.
func SaveThumbnail(imageTemplate, srcFile string, fileConf map[string]any, cfg *config.Config) error {
	thumbnailNumber := 1
	if v, ok := fileConf["thumbnail_number"]; ok {
		n, ok := v.(int)
		if !ok {
			return gerrors.ThumbnailNumberNotInt(srcFile, v)
		}
		thumbnailNumber = n
	}
	thumbnailImagePath := fmt.Sprintf(imageTemplate, thumbnailNumber)

	thumbDir := filepath.Join(filepath.Dir(thumbnailImagePath), "thumb")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return gerrors.ArtifactError("create thumbnail dir", err)
	}

	base := strings.TrimSuffix(filepath.Base(srcFile), filepath.Ext(srcFile))
	thumbFile := filepath.Join(thumbDir, "galleria_"+base+"_thumb.png")
	width, height := cfg.ThumbnailSize[0], cfg.ThumbnailSize[1]

	if _, failing := cfg.FailingExamples[srcFile]; failing {
		return scaleOnto(placeholder(brokenColor), thumbFile, width, height, false)
	}
	if fileExists(thumbnailImagePath) {
		return ScaleImage(thumbnailImagePath, thumbFile, width, height)
	}
	if !fileExists(thumbFile) {
		if cfg.DefaultThumbFile != "" && fileExists(cfg.DefaultThumbFile) {
			return ScaleImage(cfg.DefaultThumbFile, thumbFile, width, height)
		}
		return scaleOnto(placeholder(noImageColor), thumbFile, width, height, false)
	}
	return nil
}

// ThumbnailPath returns where the thumbnail of srcFile lives under imageDir.
func ThumbnailPath(imageDir, srcFile string) string {
	base := strings.TrimSuffix(filepath.Base(srcFile), filepath.Ext(srcFile))
	return filepath.Join(imageDir, "thumb", "galleria_"+base+"_thumb.png")
}

// placeholder builds a fixed-color canvas with a darker frame.
func placeholder(fill color.RGBA) image.Image {
	const w, h = 200, 140
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	frame := color.RGBA{R: fill.R / 2, G: fill.G / 2, B: fill.B / 2, A: 0xff}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < 3 || y < 3 || x >= w-3 || y >= h-3 {
				img.Set(x, y, frame)
			} else {
				img.Set(x, y, fill)
			}
		}
	}
	return img
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
