package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
)

const introMaxLen = 95

// ExtractIntroAndTitle pulls the example title and the short introduction
// shown in gallery indexes out of the module docstring. The docstring is
// treated as CommonMark: the title is the first heading (or the first
// paragraph when there is none), the intro the first paragraph after it,
// truncated at 95 characters.
func ExtractIntroAndTitle(name, docstring string) (intro, title string, err error) {
	source := []byte(strings.TrimSpace(docstring))
	root := goldmark.New().Parser().Parse(gmtext.NewReader(source))

	var paragraphs []string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *gmast.Heading:
			if title == "" {
				title = nodeText(node, source)
			}
		case *gmast.Paragraph:
			text := nodeText(node, source)
			// Skip directive-like paragraphs such as `.. _link:` targets.
			if text == "" || strings.HasPrefix(text, ".. ") {
				continue
			}
			paragraphs = append(paragraphs, text)
		}
	}

	if title == "" {
		if len(paragraphs) == 0 {
			return "", "", gerrors.TitleNotFound(name)
		}
		title = paragraphs[0]
		paragraphs = paragraphs[1:]
	}

	// Use the title when the docstring offers nothing more.
	intro = title
	if len(paragraphs) > 0 {
		intro = paragraphs[0]
	}
	intro = strings.Join(strings.Fields(intro), " ")
	if len(intro) > introMaxLen {
		// Back off to a rune boundary so the cut never emits invalid UTF-8.
		cut := introMaxLen
		for cut > 0 && !utf8.RuneStart(intro[cut]) {
			cut--
		}
		intro = intro[:cut] + "..."
	}
	return intro, title, nil
}

// nodeText flattens the literal text content of a markdown node.
func nodeText(n gmast.Node, source []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(child gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *gmast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
