package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyExample    = "example"
	KeySection    = "section"
	KeyBlock      = "block"
	KeyLine       = "line"
	KeyDirective  = "directive"
	KeyValue      = "value"
	KeyDurationMS = "duration_ms"
	KeyFigures    = "figures"
	KeyCached     = "cached"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Example(path string) slog.Attr    { return slog.String(KeyExample, path) }
func Section(dir string) slog.Attr     { return slog.String(KeySection, dir) }
func Block(i int) slog.Attr            { return slog.Int(KeyBlock, i) }
func Line(n int) slog.Attr             { return slog.Int(KeyLine, n) }
func Directive(name string) slog.Attr  { return slog.String(KeyDirective, name) }
func Value(v string) slog.Attr         { return slog.String(KeyValue, v) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Figures(n int) slog.Attr          { return slog.Int(KeyFigures, n) }
func Cached(hit bool) slog.Attr        { return slog.Bool(KeyCached, hit) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
