package script

import (
	"bytes"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/galleria/internal/logfields"
)

// loggingTee captures example output for later embedding while forwarding
// completed lines to the structured logger. An unterminated final partial
// line is buffered until later writes complete it or Flush drains it.
type loggingTee struct {
	buf        bytes.Buffer
	logger     *slog.Logger
	srcFile    string
	lineBuf    string
	firstWrite bool
}

func newLoggingTee(logger *slog.Logger, srcFile string) *loggingTee {
	return &loggingTee{logger: logger, srcFile: srcFile, firstWrite: true}
}

func (t *loggingTee) Write(p []byte) (int, error) {
	t.buf.Write(p)

	if t.firstWrite {
		t.logger.Debug("output from example", logfields.Example(t.srcFile))
		t.firstWrite = false
	}

	data := t.lineBuf + string(p)
	lines := strings.Split(data, "\n")
	t.lineBuf = lines[len(lines)-1]
	for _, line := range lines[:len(lines)-1] {
		t.logger.Debug(line, logfields.Example(t.srcFile))
	}
	return len(p), nil
}

// Flush forwards any buffered partial line.
func (t *loggingTee) Flush() {
	if t.lineBuf != "" {
		t.logger.Debug(t.lineBuf, logfields.Example(t.srcFile))
		t.lineBuf = ""
	}
}

// String returns everything written, preserved verbatim.
func (t *loggingTee) String() string { return t.buf.String() }

// normalizeStdout trims surrounding whitespace and expands tabs so the
// captured text indents cleanly inside a literal block.
func normalizeStdout(s string) string {
	return expandTabs(strings.TrimSpace(s), 8)
}

// expandTabs replaces tabs with spaces up to the next multiple of tabsize,
// tracking columns per line.
func expandTabs(s string, tabsize int) string {
	var sb strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			pad := tabsize - col%tabsize
			sb.WriteString(strings.Repeat(" ", pad))
			col += pad
		case '\n':
			sb.WriteRune(r)
			col = 0
		default:
			sb.WriteRune(r)
			col++
		}
	}
	return sb.String()
}
