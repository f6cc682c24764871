package parser

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "git.home.luguber.info/inful/galleria/internal/errors"
)

const sampleSource = `"""# Two waves

Adds two waves together.
"""

a = 1
b = a + 1

#####################################################################
# Combine the waves and print the total amplitude.

total = a + b
print(total)
`

func TestSplitAlternatingBlocks(t *testing.T) {
	conf, blocks, err := Split([]byte(sampleSource), "two_waves.star")
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	assert.Empty(t, conf)

	kinds := []BlockKind{BlockText, BlockCode, BlockText, BlockCode}
	for i, b := range blocks {
		assert.Equal(t, kinds[i], b.Kind, "block %d", i)
	}

	assert.Equal(t, 1, blocks[0].StartLine)
	assert.Contains(t, blocks[0].Content, "Two waves")
	assert.Equal(t, 5, blocks[1].StartLine)
	assert.Contains(t, blocks[1].Content, "a = 1")
	assert.Equal(t, "Combine the waves and print the total amplitude.\n", blocks[2].Content)
	assert.Contains(t, blocks[3].Content, "print(total)")

	for i := 1; i < len(blocks); i++ {
		assert.GreaterOrEqual(t, blocks[i].StartLine, blocks[i-1].StartLine,
			"start lines must be non-decreasing")
	}
}

func TestSplitTrailingHeaderWithBody(t *testing.T) {
	src := `"""# T

Intro paragraph.
"""
x = 1
####################
# Closing remarks.
`
	_, blocks, err := Split([]byte(src), "t.star")
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, BlockText, blocks[0].Kind)
	assert.Equal(t, BlockCode, blocks[1].Kind)
	assert.Equal(t, BlockText, blocks[2].Kind)
}

func TestSplitTrailingHeaderEmptyBody(t *testing.T) {
	src := `"""# T

Intro paragraph.
"""
x = 1
####################
`
	_, blocks, err := Split([]byte(src), "t.star")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, BlockText, blocks[0].Kind)
	assert.Equal(t, BlockCode, blocks[1].Kind)
}

func TestSplitMissingDocstring(t *testing.T) {
	_, _, err := Split([]byte("x = 1\n"), "bare.star")
	require.Error(t, err)
	assert.True(t, gerrors.IsCategory(err, gerrors.CategoryParse))
}

func TestSplitInvalidSyntaxSubstitutesDocstring(t *testing.T) {
	src := "def broken(:\n    pass\n"
	_, blocks, err := Split([]byte(src), "broken.star")
	require.NoError(t, err, "invalid syntax must not be fatal at parse time")
	require.NotEmpty(t, blocks)
	assert.Equal(t, BlockText, blocks[0].Kind)
	assert.Contains(t, blocks[0].Content, "Syntax error")
	// The raw content is preserved for display.
	require.Len(t, blocks, 2)
	assert.Equal(t, BlockCode, blocks[1].Kind)
	assert.Contains(t, blocks[1].Content, "def broken(:")
	assert.Equal(t, 1, blocks[1].StartLine)
}

func TestSplitNormalizesCRLF(t *testing.T) {
	src := "\"\"\"# T\r\n\r\nIntro.\r\n\"\"\"\r\nx = 1\r\n"
	_, blocks, err := Split([]byte(src), "crlf.star")
	require.NoError(t, err)
	for _, b := range blocks {
		assert.NotContains(t, b.Content, "\r")
	}
}

func TestSplitDeclaredEncoding(t *testing.T) {
	// 0xE9 is é in latin-1 and invalid as a standalone UTF-8 byte.
	src := []byte("# -*- coding: latin-1 -*-\n\"\"\"# Caf\xe9\n\nIntro.\n\"\"\"\nx = 1\n")
	_, blocks, err := Split(src, "latin.star")
	require.NoError(t, err)
	assert.Contains(t, blocks[0].Content, "Café")
}

func TestExtractFileConfig(t *testing.T) {
	src := `"""# T

Intro.
"""
# galleria_thumbnail_number = 2
# galleria_line_numbers = True
# galleria_dashes = [4, 1.5, "x"]
x = 1
`
	conf, _, err := Split([]byte(src), "conf.star")
	require.NoError(t, err)
	assert.Equal(t, 2, conf["thumbnail_number"])
	assert.Equal(t, true, conf["line_numbers"])
	assert.Equal(t, []any{4, 1.5, "x"}, conf["dashes"])
}

func TestExtractFileConfigInvalidLiteralSkipped(t *testing.T) {
	src := `"""# T

Intro.
"""
# galleria_bad = "unterminated
# galleria_good = 7
x = 1
`
	conf, blocks, err := Split([]byte(src), "bad.star")
	require.NoError(t, err, "invalid directive values must not abort parsing")
	_, present := conf["bad"]
	assert.False(t, present, "invalid value must be skipped")
	assert.Equal(t, 7, conf["good"])
	assert.NotEmpty(t, blocks)
}

func TestParseLiteralForms(t *testing.T) {
	cases := map[string]any{
		`42`:               42,
		`-3`:               -3,
		`2.5`:              2.5,
		`"hi"`:             "hi",
		`True`:             true,
		`False`:            false,
		`None`:             nil,
		`[1, 2]`:           []any{1, 2},
		`(1, "a")`:         []any{1, "a"},
		`{"k": [1], "j": 2}`: map[string]any{"k": []any{1}, "j": 2},
	}
	for src, want := range cases {
		got, err := ParseLiteral(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, got, src)
	}
}

func TestParseLiteralRejectsCalls(t *testing.T) {
	_, err := ParseLiteral(`len("x")`)
	require.Error(t, err, "function calls are not literals")
	_, err = ParseLiteral(`foo`)
	require.Error(t, err, "arbitrary names are not literals")
}

func TestDedent(t *testing.T) {
	in := "  one\n    two\n\n  three"
	out := dedent(in)
	assert.Equal(t, "one\n  two\n\nthree", out)
}

func TestExtractIntroAndTitle(t *testing.T) {
	intro, title, err := ExtractIntroAndTitle("t.star", "# Two waves\n\nAdds two waves together.\n")
	require.NoError(t, err)
	assert.Equal(t, "Two waves", title)
	assert.Equal(t, "Adds two waves together.", intro)
}

func TestExtractIntroFallsBackToTitle(t *testing.T) {
	intro, title, err := ExtractIntroAndTitle("t.star", "# Only a title\n")
	require.NoError(t, err)
	assert.Equal(t, "Only a title", title)
	assert.Equal(t, title, intro)
}

func TestExtractIntroTruncates(t *testing.T) {
	long := strings.Repeat("word ", 40)
	intro, _, err := ExtractIntroAndTitle("t.star", "# T\n\n"+long+"\n")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(intro, "..."))
	assert.Len(t, intro, 98)
}

func TestExtractIntroTruncatesOnRuneBoundary(t *testing.T) {
	// Two-byte runes put byte 95 inside a character.
	long := strings.Repeat("é", 60)
	intro, _, err := ExtractIntroAndTitle("t.star", "# T\n\n"+long+"\n")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(intro, "..."))
	assert.True(t, utf8.ValidString(intro))
}

func TestExtractIntroEmptyDocstring(t *testing.T) {
	_, _, err := ExtractIntroAndTitle("t.star", "\n\n")
	require.Error(t, err)
}
