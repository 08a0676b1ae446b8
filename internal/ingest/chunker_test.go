package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkShortTextSingleChunk(t *testing.T) {
	chunks := Chunk("short text", DefaultTargetTokens, DefaultOverlapTokens)
	require.Len(t, chunks, 1)
	require.Equal(t, 0, chunks[0].Index)
	require.Equal(t, "short text", chunks[0].Content)
	require.Equal(t, EstimateTokens("short text"), chunks[0].TokenCount)
}

func TestChunkEmptyText(t *testing.T) {
	require.Nil(t, Chunk("", DefaultTargetTokens, DefaultOverlapTokens))
	require.Nil(t, Chunk("   \n\n  ", DefaultTargetTokens, DefaultOverlapTokens))
}

func TestChunkSplitsOnParagraphsWithOverlap(t *testing.T) {
	text := "Para one.\n\nPara two.\n\nPara three."
	// targetTokens=5 is a 20-char budget; the first two paragraphs fit
	// exactly, the third forces an emit.
	chunks := Chunk(text, 5, 1)
	require.Len(t, chunks, 2)

	require.Equal(t, 0, chunks[0].Index)
	require.Equal(t, "Para one.\n\nPara two.", chunks[0].Content)

	require.Equal(t, 1, chunks[1].Index)
	// second chunk starts with the 4-char tail of the first
	require.True(t, strings.HasPrefix(chunks[1].Content, "two."))
	require.Contains(t, chunks[1].Content, "Para three.")
}

func TestChunkIndicesAreContiguous(t *testing.T) {
	var paras []string
	for i := 0; i < 40; i++ {
		paras = append(paras, strings.Repeat("word ", 30))
	}
	chunks := Chunk(strings.Join(paras, "\n\n"), 50, 10)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		require.Equal(t, i, chunk.Index)
		require.Equal(t, EstimateTokens(chunk.Content), chunk.TokenCount)
	}
}

func TestChunkNeverSplitsAParagraph(t *testing.T) {
	long := strings.Repeat("abcdefghij", 50) // 500 chars, far past a 5-token target
	chunks := Chunk(long, 5, 1)
	require.Len(t, chunks, 1)
	require.Equal(t, long, chunks[0].Content)
}

func TestChunkOverlapCarriesTailOfPreviousChunk(t *testing.T) {
	paraA := strings.Repeat("a", 100)
	paraB := strings.Repeat("b", 100)
	chunks := Chunk(paraA+"\n\n"+paraB, 5, 1)
	require.Len(t, chunks, 2)
	require.Equal(t, paraA, chunks[0].Content)
	require.Equal(t, "aaaa\n\n"+paraB, chunks[1].Content)
}

func TestChunkZeroOverlap(t *testing.T) {
	paraA := strings.Repeat("a", 100)
	paraB := strings.Repeat("b", 100)
	chunks := Chunk(paraA+"\n\n"+paraB, 5, 0)
	require.Len(t, chunks, 2)
	require.Equal(t, paraA, chunks[0].Content)
	require.Equal(t, paraB, chunks[1].Content)
}

func TestChunkCoversAllContent(t *testing.T) {
	var paras []string
	for i := 0; i < 20; i++ {
		paras = append(paras, strings.Repeat("content ", 20))
	}
	text := strings.TrimSpace(strings.Join(paras, "\n\n"))
	chunks := Chunk(text, 50, 10)

	var total int
	for _, chunk := range chunks {
		total += len(chunk.Content)
	}
	// overlap means chunks together carry at least the full cleaned text
	require.GreaterOrEqual(t, total, len(text)-2*len(chunks))
}

func TestTailChars(t *testing.T) {
	require.Equal(t, "", tailChars("abc", 0))
	require.Equal(t, "abc", tailChars("abc", 10))
	require.Equal(t, "bc", tailChars("abc", 2))
	// rune-safe: never splits a multi-byte character
	require.Equal(t, "日本", tailChars("こんにちは日本", 2))
}
