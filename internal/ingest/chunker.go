package ingest

import (
	"regexp"
	"strings"

	"github.com/replyforge/replyforge/internal/model"
)

const (
	DefaultTargetTokens  = 500
	DefaultOverlapTokens = 100
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Chunk splits cleaned text into overlapping, token-bounded, paragraph-aware
// segments. Paragraphs are accumulated into a buffer; when the next
// paragraph would push the buffer past targetTokens*4 characters the buffer
// is emitted and the next one is seeded with the trailing overlapTokens*4
// characters of the emitted chunk. A single paragraph longer than the
// target is never split: paragraph integrity wins over the size ceiling.
// Indices are 0-based and gap-free; token counts are recomputed per chunk
// from its own content, overlap included.
func Chunk(text string, targetTokens, overlapTokens int) []*model.TextChunk {
	if targetTokens <= 0 {
		targetTokens = DefaultTargetTokens
	}
	if overlapTokens < 0 {
		overlapTokens = DefaultOverlapTokens
	}
	targetChars := targetTokens * 4
	overlapChars := overlapTokens * 4

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var chunks []*model.TextChunk
	emit := func(content string) {
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		chunks = append(chunks, &model.TextChunk{
			Content:    content,
			TokenCount: EstimateTokens(content),
			Index:      len(chunks),
		})
	}

	var buffer string
	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if buffer != "" && len(buffer)+len(para) > targetChars {
			emitted := strings.TrimSpace(buffer)
			emit(emitted)
			if overlap := tailChars(emitted, overlapChars); overlap != "" {
				buffer = overlap + "\n\n" + para
			} else {
				buffer = para
			}
			continue
		}
		if buffer == "" {
			buffer = para
		} else {
			buffer = buffer + "\n\n" + para
		}
	}
	emit(buffer)

	if len(chunks) == 0 {
		emit(trimmed)
	}
	return chunks
}

// tailChars returns the trailing n characters of s without splitting a
// multi-byte rune. The carryover is character-level; it is not re-parsed
// for paragraph boundaries.
func tailChars(s string, n int) string {
	if n <= 0 || s == "" {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
