// Package parser splits an annotated example script into an ordered sequence
// of text and code blocks plus the file-local configuration declared in
// comment directives.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"go.starlark.net/syntax"

	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
)

// BlockKind tags a parsed block as prose or code.
type BlockKind string

const (
	BlockText BlockKind = "text"
	BlockCode BlockKind = "code"
)

// Block is a contiguous segment of a source file. Blocks are immutable once
// produced; their order defines document order.
type Block struct {
	Kind      BlockKind
	Content   string
	StartLine int // 1-based line in the original source
}

// syntaxErrorDocstring replaces the docstring of a file that does not parse,
// so the example is still rendered (and its failure shown inline) instead of
// breaking the build.
const syntaxErrorDocstring = `
# Syntax error

Example script with invalid syntax
`

// headerPattern matches a section header: a line of 20 or more hashes,
// followed by any immediately adjacent comment lines forming the text block.
var headerPattern = regexp.MustCompile(`(?m)^#{20,}[^\n]*\n((?:#[^\n]*\n?)*)`)

// FileOptions is the dialect used for example scripts. Examples routinely
// rebind top-level names across blocks, so global reassignment is permitted.
var FileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Split separates raw source bytes into the file-local configuration and the
// ordered block sequence. Line endings are normalized and any declared
// encoding decoded before parsing. A missing module docstring is a hard
// error; invalid syntax is not (a placeholder docstring is substituted).
func Split(src []byte, name string) (FileConfig, []Block, error) {
	docstring, rest, lineno, err := docstringAndRest(src, name)
	if err != nil {
		return nil, nil, err
	}

	blocks := []Block{{Kind: BlockText, Content: docstring, StartLine: 1}}
	fileConf := extractFileConfig(rest, name)

	pos := 0
	for _, m := range headerPattern.FindAllStringSubmatchIndex(rest, -1) {
		code := rest[pos:m[0]]
		if strings.TrimSpace(code) != "" {
			blocks = append(blocks, Block{Kind: BlockCode, Content: code, StartLine: lineno})
		}
		lineno += strings.Count(code, "\n")

		lineno++ // header line of hashes
		rawText := rest[m[2]:m[3]]
		text := strings.TrimLeft(dedent(stripCommentPrefix(rawText)), " \t\n")
		if strings.TrimSpace(text) != "" {
			blocks = append(blocks, Block{Kind: BlockText, Content: text, StartLine: lineno})
		}
		lineno += strings.Count(rawText, "\n")

		pos = m[1]
	}

	if remaining := rest[pos:]; strings.TrimSpace(remaining) != "" {
		blocks = append(blocks, Block{Kind: BlockCode, Content: remaining, StartLine: lineno})
	}

	return fileConf, blocks, nil
}

// docstringAndRest separates the source into its leading documentation string
// and everything after it, returning the 1-based line at which the remainder
// starts. Sources are consumed as raw bytes first so an encoding declaration
// cannot break decoding.
func docstringAndRest(src []byte, name string) (docstring, rest string, lineno int, err error) {
	normalized := bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	content, err := decodeDeclared(normalized)
	if err != nil {
		return "", "", 0, err
	}

	f, parseErr := FileOptions.Parse(name, content, 0)
	if parseErr != nil {
		return syntaxErrorDocstring, content, 1, nil
	}

	lit := leadingStringLiteral(f)
	if lit == nil {
		return "", "", 0, gerrors.MissingDocstring(name)
	}

	docstring, ok := lit.Value.(string)
	if !ok || strings.TrimSpace(docstring) == "" {
		return "", "", 0, gerrors.MissingDocstring(name)
	}

	_, end := lit.Span()
	dsLines := int(end.Line)
	lines := strings.Split(content, "\n")
	if dsLines > len(lines) {
		dsLines = len(lines)
	}
	rest = strings.Join(lines[dsLines:], "\n")
	return docstring, rest, dsLines + 1, nil
}

// leadingStringLiteral returns the module docstring literal, or nil.
func leadingStringLiteral(f *syntax.File) *syntax.Literal {
	if len(f.Stmts) == 0 {
		return nil
	}
	expr, ok := f.Stmts[0].(*syntax.ExprStmt)
	if !ok {
		return nil
	}
	lit, ok := expr.X.(*syntax.Literal)
	if !ok || lit.Token != syntax.STRING {
		return nil
	}
	return lit
}

// stripCommentPrefix removes the leading '#' of every line.
func stripCommentPrefix(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "#")
	}
	return strings.Join(lines, "\n")
}

// dedent removes the longest common leading whitespace from all non-blank
// lines, so comment text indented under its '#' markers lines up at column 0.
func dedent(text string) string {
	lines := strings.Split(text, "\n")
	margin := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin = indent
			first = false
			continue
		}
		for !strings.HasPrefix(indent, margin) {
			margin = margin[:len(margin)-1]
		}
	}
	if margin == "" {
		return text
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}
