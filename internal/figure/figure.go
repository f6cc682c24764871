// Package figure models the graphical artifacts an example produces: the
// registry of open figures, their persistence as numbered images, and the
// thumbnail derived for gallery indexes.
package figure

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Baseline figure appearance. Defaults.Reset restores exactly these.
var (
	baseFacecolor = color.Color(color.White)
	baseEdgecolor = color.Color(color.White)
)

const (
	baseWidthInches  = 6.4
	baseHeightInches = 4.8
)

// Defaults holds the mutable plotting defaults scripts may adjust via
// plot.rc(). They are reset to baseline after every file so one example
// cannot restyle the next.
type Defaults struct {
	Facecolor color.Color
	Edgecolor color.Color
	Width     float64 // inches
	Height    float64 // inches
}

// NewDefaults returns defaults at baseline.
func NewDefaults() *Defaults {
	d := &Defaults{}
	d.Reset()
	return d
}

// Reset restores the baseline appearance.
func (d *Defaults) Reset() {
	d.Facecolor = baseFacecolor
	d.Edgecolor = baseEdgecolor
	d.Width = baseWidthInches
	d.Height = baseHeightInches
}

// Figure is one open graphical figure.
type Figure struct {
	Plot      *plot.Plot
	facecolor color.Color
	edgecolor color.Color
	width     float64
	height    float64
}

// Registry tracks the open figures of the currently executing example, in
// creation order.
type Registry struct {
	defaults *Defaults
	figs     []*Figure
}

// NewRegistry creates an empty registry drawing on the given defaults.
func NewRegistry(d *Defaults) *Registry {
	return &Registry{defaults: d}
}

// Defaults returns the defaults the registry was created with.
func (r *Registry) Defaults() *Defaults { return r.defaults }

// NewFigure opens a new figure and makes it current. Nil colors and zero
// sizes inherit the current defaults.
func (r *Registry) NewFigure(facecolor, edgecolor color.Color, width, height float64) *Figure {
	f := &Figure{
		Plot:      plot.New(),
		facecolor: facecolor,
		edgecolor: edgecolor,
		width:     width,
		height:    height,
	}
	if f.width <= 0 {
		f.width = r.defaults.Width
	}
	if f.height <= 0 {
		f.height = r.defaults.Height
	}
	r.figs = append(r.figs, f)
	return f
}

// Current returns the newest open figure, opening one if none exist.
func (r *Registry) Current() *Figure {
	if len(r.figs) == 0 {
		return r.NewFigure(nil, nil, 0, 0)
	}
	return r.figs[len(r.figs)-1]
}

// Open returns the open figures in creation order.
func (r *Registry) Open() []*Figure { return r.figs }

// CloseAll discards every open figure.
func (r *Registry) CloseAll() { r.figs = nil }

// Save renders the figure to a PNG file. Only visual attributes that differ
// from the defaults are forwarded: an inherited face color renders as the
// default background, and an edge border is drawn only when overridden.
func (f *Figure) Save(path string, d *Defaults) error {
	bg := d.Facecolor
	if f.facecolor != nil && !colorsEqual(f.facecolor, d.Facecolor) {
		bg = f.facecolor
	}

	w := vg.Length(f.width) * vg.Inch
	h := vg.Length(f.height) * vg.Inch
	canvas := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseBackgroundColor(bg))
	f.Plot.Draw(vgdraw.New(canvas))

	img := canvas.Image()
	if f.edgecolor != nil && !colorsEqual(f.edgecolor, d.Edgecolor) {
		drawBorder(img, f.edgecolor)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create figure file: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	return nil
}

// drawBorder paints a 2px frame in the given color.
func drawBorder(img interface {
	image.Image
	Set(x, y int, c color.Color)
}, c color.Color) {
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		for t := 0; t < 2; t++ {
			img.Set(x, b.Min.Y+t, c)
			img.Set(x, b.Max.Y-1-t, c)
		}
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for t := 0; t < 2; t++ {
			img.Set(b.Min.X+t, y, c)
			img.Set(b.Max.X-1-t, y, c)
		}
	}
}

func colorsEqual(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
