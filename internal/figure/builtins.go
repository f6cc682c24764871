package figure

import (
	"fmt"
	"image/color"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"gonum.org/v1/plot/plotter"
)

// Module exposes the plotting surface to example scripts as a Starlark module
// named "plot". Figures created here land in the registry, where the capture
// step harvests them after each code block.
func Module(reg *Registry) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: "plot",
		Members: starlark.StringDict{
			"figure":  starlark.NewBuiltin("plot.figure", reg.figureFn),
			"line":    starlark.NewBuiltin("plot.line", reg.lineFn),
			"scatter": starlark.NewBuiltin("plot.scatter", reg.scatterFn),
			"title":   starlark.NewBuiltin("plot.title", reg.titleFn),
			"xlabel":  starlark.NewBuiltin("plot.xlabel", reg.xlabelFn),
			"ylabel":  starlark.NewBuiltin("plot.ylabel", reg.ylabelFn),
			"rc":      starlark.NewBuiltin("plot.rc", reg.rcFn),
		},
	}
}

func (r *Registry) figureFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var facecolor, edgecolor string
	var width, height float64
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"facecolor?", &facecolor,
		"edgecolor?", &edgecolor,
		"width?", &width,
		"height?", &height,
	); err != nil {
		return nil, err
	}
	var face, edge color.Color
	var err error
	if facecolor != "" {
		if face, err = ParseColor(facecolor); err != nil {
			return nil, err
		}
	}
	if edgecolor != "" {
		if edge, err = ParseColor(edgecolor); err != nil {
			return nil, err
		}
	}
	r.NewFigure(face, edge, width, height)
	return starlark.None, nil
}

func (r *Registry) lineFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	xys, colorName, label, err := unpackSeries(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if colorName != "" {
		c, err := ParseColor(colorName)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = c
	}
	fig := r.Current()
	fig.Plot.Add(line)
	if label != "" {
		fig.Plot.Legend.Add(label, line)
	}
	return starlark.None, nil
}

func (r *Registry) scatterFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	xys, colorName, label, err := unpackSeries(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if colorName != "" {
		c, err := ParseColor(colorName)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Color = c
	}
	fig := r.Current()
	fig.Plot.Add(scatter)
	if label != "" {
		fig.Plot.Legend.Add(label, scatter)
	}
	return starlark.None, nil
}

func (r *Registry) titleFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
		return nil, err
	}
	r.Current().Plot.Title.Text = text
	return starlark.None, nil
}

func (r *Registry) xlabelFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
		return nil, err
	}
	r.Current().Plot.X.Label.Text = text
	return starlark.None, nil
}

func (r *Registry) ylabelFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
		return nil, err
	}
	r.Current().Plot.Y.Label.Text = text
	return starlark.None, nil
}

// rcFn adjusts the session plotting defaults; the cleanup step resets them
// after the file.
func (r *Registry) rcFn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var facecolor, edgecolor string
	var width, height float64
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"facecolor?", &facecolor,
		"edgecolor?", &edgecolor,
		"width?", &width,
		"height?", &height,
	); err != nil {
		return nil, err
	}
	if facecolor != "" {
		c, err := ParseColor(facecolor)
		if err != nil {
			return nil, err
		}
		r.defaults.Facecolor = c
	}
	if edgecolor != "" {
		c, err := ParseColor(edgecolor)
		if err != nil {
			return nil, err
		}
		r.defaults.Edgecolor = c
	}
	if width > 0 {
		r.defaults.Width = width
	}
	if height > 0 {
		r.defaults.Height = height
	}
	return starlark.None, nil
}

func unpackSeries(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (plotter.XYs, string, string, error) {
	var x, y starlark.Value
	var colorName, label string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"x", &x,
		"y", &y,
		"color?", &colorName,
		"label?", &label,
	); err != nil {
		return nil, "", "", err
	}
	xs, err := floatSlice(x)
	if err != nil {
		return nil, "", "", fmt.Errorf("%s: x: %w", b.Name(), err)
	}
	ys, err := floatSlice(y)
	if err != nil {
		return nil, "", "", fmt.Errorf("%s: y: %w", b.Name(), err)
	}
	if len(xs) != len(ys) {
		return nil, "", "", fmt.Errorf("%s: x and y have different lengths (%d vs %d)", b.Name(), len(xs), len(ys))
	}
	xys := make(plotter.XYs, len(xs))
	for i := range xs {
		xys[i].X = xs[i]
		xys[i].Y = ys[i]
	}
	return xys, colorName, label, nil
}

func floatSlice(v starlark.Value) ([]float64, error) {
	iter, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("got %s, want a sequence of numbers", v.Type())
	}
	var out []float64
	it := iter.Iterate()
	defer it.Done()
	var el starlark.Value
	for it.Next(&el) {
		f, ok := starlark.AsFloat(el)
		if !ok {
			return nil, fmt.Errorf("got %s element, want number", el.Type())
		}
		out = append(out, f)
	}
	return out, nil
}

// namedColors is the small palette scripts may reference by name.
var namedColors = map[string]color.Color{
	"white":  color.White,
	"black":  color.Black,
	"red":    color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	"green":  color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	"blue":   color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	"orange": color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	"gray":   color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
}

// ParseColor resolves "#rrggbb" hex or a named palette color.
func ParseColor(s string) (color.Color, error) {
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.RGBA{
				R: uint8(v >> 16),
				G: uint8(v >> 8),
				B: uint8(v),
				A: 0xff,
			}, nil
		}
	}
	return nil, fmt.Errorf("unknown color %q", s)
}
