package parser

import (
	"fmt"
	"log/slog"
	"math/big"
	"regexp"

	"go.starlark.net/syntax"

	"git.home.luguber.info/inful/galleria/internal/config"
	"git.home.luguber.info/inful/galleria/internal/logfields"
)

// FileConfig holds per-file settings declared inside the example via comment
// directives. Keys the engine does not know are ignored by policy.
type FileConfig map[string]any

var directivePattern = regexp.MustCompile(
	`(?m)^\s*#\s*` + config.DirectivePrefix + `_([A-Za-z0-9_]+)\s*=\s*(.+?)\s*$`)

// extractFileConfig pulls `# galleria_<key> = <literal>` directives out of the
// post-docstring content. Unparsable values are warned about and skipped, not
// fatal.
func extractFileConfig(content, name string) FileConfig {
	fileConf := make(FileConfig)
	for _, m := range directivePattern.FindAllStringSubmatch(content, -1) {
		key, raw := m[1], m[2]
		value, err := ParseLiteral(raw)
		if err != nil {
			slog.Warn("gallery option has invalid value, skipping",
				logfields.Example(name),
				logfields.Directive(key),
				logfields.Value(raw),
				logfields.Error(err))
			continue
		}
		fileConf[key] = value
	}
	return fileConf
}

// ParseLiteral evaluates a source literal into a Go value without executing
// anything. The accepted forms are a closed set: numbers, strings, booleans,
// None, and lists/tuples/dicts of these.
func ParseLiteral(src string) (any, error) {
	expr, err := FileOptions.ParseExpr("<directive>", src, 0)
	if err != nil {
		return nil, fmt.Errorf("not a literal: %w", err)
	}
	return literalValue(expr)
}

func literalValue(expr syntax.Expr) (any, error) {
	switch e := expr.(type) {
	case *syntax.Literal:
		switch v := e.Value.(type) {
		case string:
			return v, nil
		case int64:
			return int(v), nil
		case *big.Int:
			return nil, fmt.Errorf("integer literal %s out of range", e.Raw)
		case float64:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported literal %s", e.Raw)
		}
	case *syntax.Ident:
		switch e.Name {
		case "True":
			return true, nil
		case "False":
			return false, nil
		case "None":
			return nil, nil
		}
		return nil, fmt.Errorf("name %q is not a literal", e.Name)
	case *syntax.UnaryExpr:
		if e.Op != syntax.MINUS && e.Op != syntax.PLUS {
			return nil, fmt.Errorf("operator %s not allowed in literals", e.Op)
		}
		v, err := literalValue(e.X)
		if err != nil {
			return nil, err
		}
		if e.Op == syntax.PLUS {
			return v, nil
		}
		switch n := v.(type) {
		case int:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, fmt.Errorf("cannot negate non-numeric literal")
	case *syntax.ParenExpr:
		return literalValue(e.X)
	case *syntax.ListExpr:
		return literalSlice(e.List)
	case *syntax.TupleExpr:
		return literalSlice(e.List)
	case *syntax.DictExpr:
		result := make(map[string]any, len(e.List))
		for _, entry := range e.List {
			kv, ok := entry.(*syntax.DictEntry)
			if !ok {
				return nil, fmt.Errorf("malformed dict literal")
			}
			key, err := literalValue(kv.Key)
			if err != nil {
				return nil, err
			}
			ks, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("dict literal keys must be strings")
			}
			val, err := literalValue(kv.Value)
			if err != nil {
				return nil, err
			}
			result[ks] = val
		}
		return result, nil
	}
	return nil, fmt.Errorf("expression is not a literal")
}

func literalSlice(exprs []syntax.Expr) ([]any, error) {
	result := make([]any, 0, len(exprs))
	for _, el := range exprs {
		v, err := literalValue(el)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}
