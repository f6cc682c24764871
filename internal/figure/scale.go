package figure

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	_ "image/jpeg" // registered for image.Decode

	xdraw "golang.org/x/image/draw"
)

var canvasColor = color.White

// ScaleImage scales the image at in to fit within maxWidth x maxHeight while
// preserving aspect ratio, centered on a canvas of exactly that size, and
// writes the result to out. When in and out are the same path the image is
// only ever scaled down; an image already within bounds is left untouched.
func ScaleImage(in, out string, maxWidth, maxHeight int) error {
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode image %s: %w", in, err)
	}
	return scaleOnto(img, out, maxWidth, maxHeight, in == out)
}

func scaleOnto(img image.Image, out string, maxWidth, maxHeight int, inPlace bool) error {
	bounds := img.Bounds()
	widthIn, heightIn := bounds.Dx(), bounds.Dy()

	scaleW := float64(maxWidth) / float64(widthIn)
	scaleH := float64(maxHeight) / float64(heightIn)
	scale := scaleW
	if float64(heightIn)*scaleW > float64(maxHeight) {
		scale = scaleH
	}

	if scale >= 1.0 && inPlace {
		return nil
	}

	widthSc := int(math.Round(scale * float64(widthIn)))
	heightSc := int(math.Round(scale * float64(heightIn)))

	resized := image.NewRGBA(image.Rect(0, 0, widthSc, heightSc))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, xdraw.Src, nil)

	thumb := image.NewRGBA(image.Rect(0, 0, maxWidth, maxHeight))
	xdraw.Draw(thumb, thumb.Bounds(), image.NewUniform(canvasColor), image.Point{}, xdraw.Src)
	offset := image.Pt((maxWidth-widthSc)/2, (maxHeight-heightSc)/2)
	xdraw.Draw(thumb, resized.Bounds().Add(offset), resized, image.Point{}, xdraw.Over)

	outFile, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create scaled image: %w", err)
	}
	defer outFile.Close()
	if err := png.Encode(outFile, thumb); err != nil {
		return fmt.Errorf("encode scaled image: %w", err)
	}
	return nil
}
