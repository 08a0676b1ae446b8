package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanNormalizesLineEndings(t *testing.T) {
	require.Equal(t, "a\nb\nc", Clean("a\r\nb\rc"))
}

func TestCleanStripsControlCharacters(t *testing.T) {
	require.Equal(t, "abc", Clean("a\x00b\x07c"))
	require.Equal(t, "ab", Clean("a\x0bb"))
	require.Equal(t, "ab", Clean("a\x1fb"))
	require.Equal(t, "ab", Clean("a\x7fb"))
}

func TestCleanCollapsesHorizontalWhitespace(t *testing.T) {
	require.Equal(t, "a b", Clean("a   b"))
	require.Equal(t, "a b", Clean("a\t\tb"))
	require.Equal(t, "a b c", Clean("a \t b\t \tc"))
}

func TestCleanCollapsesExcessNewlines(t *testing.T) {
	require.Equal(t, "a\n\nb", Clean("a\n\n\n\n\nb"))
	// single and double newlines are preserved as-is
	require.Equal(t, "a\nb", Clean("a\nb"))
	require.Equal(t, "a\n\nb", Clean("a\n\nb"))
}

func TestCleanTrims(t *testing.T) {
	require.Equal(t, "x", Clean("  \n\n x \t\n "))
	require.Equal(t, "", Clean("   \n\t  "))
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"a\r\nb\r\nc",
		"  para one \t here\n\n\n\npara   two\x00\x0b",
		"plain text",
		"",
	}
	for _, in := range inputs {
		once := Clean(in)
		require.Equal(t, once, Clean(once))
	}
}
