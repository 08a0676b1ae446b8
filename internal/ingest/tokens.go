package ingest

// EstimateTokens approximates the token count of text at 1 token per 4
// characters, rounded up. The same estimate sizes chunks and is persisted
// as each chunk's token_count; it is an estimate, not tokenizer ground
// truth, and is kept as a named function so a real tokenizer can replace it
// without touching chunker control flow.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}
