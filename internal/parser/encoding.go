package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// commonEncodings covers declaration spellings that predate the IANA names.
var commonEncodings = map[string]encoding.Encoding{
	"latin-1":      charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
}

// codingPattern recognizes an emacs/vim style encoding declaration in the
// first two lines, e.g. `# -*- coding: latin-1 -*-`.
var codingPattern = regexp.MustCompile(`coding[:=]\s*([-\w.]+)`)

// decodeDeclared decodes source bytes honoring a declared encoding. Without a
// declaration (or with a UTF-8 one) the bytes are taken as UTF-8.
func decodeDeclared(src []byte) (string, error) {
	name := declaredEncoding(src)
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8", "ascii", "us-ascii":
		if !utf8.Valid(src) {
			return "", fmt.Errorf("source is not valid UTF-8")
		}
		return string(src), nil
	}

	enc := commonEncodings[strings.ToLower(name)]
	if enc == nil {
		var err error
		enc, err = ianaindex.IANA.Encoding(name)
		if err != nil || enc == nil {
			return "", fmt.Errorf("unknown source encoding %q", name)
		}
	}
	decoded, err := enc.NewDecoder().Bytes(src)
	if err != nil {
		return "", fmt.Errorf("decode %s source: %w", name, err)
	}
	return string(decoded), nil
}

func declaredEncoding(src []byte) string {
	lines := strings.SplitN(string(src), "\n", 3)
	for i, line := range lines {
		if i >= 2 {
			break
		}
		if !strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if m := codingPattern.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}
