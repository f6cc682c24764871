package gallery

import (
	"encoding/json"
	"os"
	"strings"

	gerrors "git.home.luguber.info/inful/galleria/internal/errors"

	"git.home.luguber.info/inful/galleria/internal/parser"
)

// ReplaceStarIpynb maps an example filename to its notebook twin.
func ReplaceStarIpynb(fname string) string {
	return strings.TrimSuffix(fname, ".star") + ".ipynb"
}

// notebookFromBlocks builds the nbformat v4 document mirroring the example:
// text blocks become markdown cells, code blocks become code cells.
func notebookFromBlocks(blocks []parser.Block) map[string]any {
	cells := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		if b.Kind == parser.BlockCode {
			cells = append(cells, map[string]any{
				"cell_type":       "code",
				"execution_count": nil,
				"metadata":        map[string]any{"collapsed": false},
				"outputs":         []any{},
				"source":          sourceLines(b.Content),
			})
		} else {
			cells = append(cells, map[string]any{
				"cell_type": "markdown",
				"metadata":  map[string]any{},
				"source":    sourceLines(b.Content),
			})
		}
	}
	return map[string]any{
		"cells": cells,
		"metadata": map[string]any{
			"kernelspec": map[string]any{
				"display_name": "Starlark",
				"language":     "starlark",
				"name":         "starlark",
			},
			"language_info": map[string]any{
				"name":           "starlark",
				"file_extension": ".star",
				"mimetype":       "text/x-starlark",
			},
		},
		"nbformat":       4,
		"nbformat_minor": 2,
	}
}

// sourceLines splits cell content the way nbformat stores it: one entry per
// line, each keeping its newline except the last.
func sourceLines(content string) []string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return []string{}
	}
	lines := strings.SplitAfter(content, "\n")
	return lines
}

// saveNotebook writes the notebook document as indented JSON.
func saveNotebook(nb map[string]any, path string) error {
	data, err := json.MarshalIndent(nb, "", "  ")
	if err != nil {
		return gerrors.InternalError("encode notebook", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return gerrors.ArtifactError("write notebook", err).WithContext("path", path)
	}
	return nil
}
