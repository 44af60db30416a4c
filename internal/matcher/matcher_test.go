package matcher

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexMatchesBaseNameOnly(t *testing.T) {
	m, err := New(`\.txt$`)
	require.NoError(t, err)

	assert.True(t, m.Matches("readme.txt"))
	assert.True(t, m.Matches(filepath.Join("docs", "notes", "todo.txt")))
	assert.False(t, m.Matches("image.png"))

	// The directory part must not take part in the match.
	dirOnly, err := New("docs")
	require.NoError(t, err)
	assert.False(t, dirOnly.Matches(filepath.Join("docs", "readme.txt")))
	assert.True(t, dirOnly.Matches(filepath.Join("other", "docs.md")))
}

func TestRegexIsUnanchored(t *testing.T) {
	m, err := New("read")
	require.NoError(t, err)
	assert.True(t, m.Matches("readme.txt"))
	assert.Equal(t, "read", m.String())
	assert.Equal(t, SyntaxRegex, m.Syntax())
}

func TestDefaultPatternMatchesEverything(t *testing.T) {
	m, err := New(DefaultPattern)
	require.NoError(t, err)
	assert.True(t, m.Matches("anything.bin"))
	assert.True(t, m.Matches(".hidden"))
}

func TestInvalidRegex(t *testing.T) {
	for _, pattern := range []string{"(unbalanced", "*.txt", "[a-"} {
		_, err := New(pattern)
		require.Error(t, err, pattern)

		var perr *InvalidPatternError
		require.True(t, errors.As(err, &perr), pattern)
		assert.Equal(t, pattern, perr.Pattern)
		assert.Equal(t, SyntaxRegex, perr.Syntax)
		assert.NotNil(t, errors.Unwrap(err))
	}
}

func TestGlobSyntax(t *testing.T) {
	m, err := NewWithSyntax("*.txt", SyntaxGlob)
	require.NoError(t, err)

	assert.True(t, m.Matches(filepath.Join("docs", "readme.txt")))
	assert.False(t, m.Matches("image.png"))
	assert.False(t, m.Matches("notes.txt.bak"))

	_, err = NewWithSyntax("[a-", SyntaxGlob)
	var perr *InvalidPatternError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, SyntaxGlob, perr.Syntax)
}

func TestParseSyntax(t *testing.T) {
	s, err := ParseSyntax("")
	require.NoError(t, err)
	assert.Equal(t, SyntaxRegex, s)

	s, err = ParseSyntax(" GLOB ")
	require.NoError(t, err)
	assert.Equal(t, SyntaxGlob, s)

	_, err = ParseSyntax("pcre")
	assert.Error(t, err)

	_, err = NewWithSyntax("x", Syntax("pcre"))
	assert.Error(t, err)
}
