package figure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"git.home.luguber.info/inful/galleria/internal/parser"
)

func execPlotScript(t *testing.T, reg *Registry, src string) error {
	t.Helper()
	thread := &starlark.Thread{Name: "test"}
	predeclared := starlark.StringDict{"plot": Module(reg)}
	_, err := starlark.ExecFileOptions(parser.FileOptions, thread, "test.star", src, predeclared)
	return err
}

func TestPlotModuleCreatesFigures(t *testing.T) {
	reg := NewRegistry(NewDefaults())
	src := `
plot.figure(facecolor="#ff0000")
plot.line([0, 1, 2], [0, 1, 4], color="blue", label="quad")
plot.title("demo")
plot.figure()
plot.scatter([1, 2], [2, 1])
`
	require.NoError(t, execPlotScript(t, reg, src))
	require.Len(t, reg.Open(), 2)
	assert.Equal(t, "demo", reg.Open()[0].Plot.Title.Text)
}

func TestPlotLineLengthMismatch(t *testing.T) {
	reg := NewRegistry(NewDefaults())
	err := execPlotScript(t, reg, "plot.line([1, 2, 3], [1])\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different lengths")
}

func TestPlotRCAdjustsDefaultsUntilReset(t *testing.T) {
	defaults := NewDefaults()
	reg := NewRegistry(defaults)
	require.NoError(t, execPlotScript(t, reg, `plot.rc(facecolor="black", width=3.0)`+"\n"))

	assert.NotEqual(t, baseFacecolor, defaults.Facecolor)
	assert.InDelta(t, 3.0, defaults.Width, 1e-9)

	defaults.Reset()
	assert.Equal(t, baseFacecolor, defaults.Facecolor)
	assert.InDelta(t, baseWidthInches, defaults.Width, 1e-9)
}
