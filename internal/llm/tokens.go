package llm

import (
	"github.com/pkoukk/tiktoken-go"
)

// fallbackCharsPerToken approximates token counts when no encoding is
// available for the configured model.
const fallbackCharsPerToken = 4

// countTokens returns the number of tokens text occupies for the model.
func countTokens(text, model string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return len(text) / fallbackCharsPerToken
	}
	return len(enc.Encode(text, nil, nil))
}

// truncateByTokens cuts text down to at most maxTokens tokens. Diffs larger
// than the review budget lose their tail rather than failing the review.
func truncateByTokens(text string, maxTokens int, model string) string {
	if maxTokens <= 0 {
		return text
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		limit := maxTokens * fallbackCharsPerToken
		if len(text) > limit {
			return text[:limit]
		}
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return enc.Decode(tokens[:maxTokens])
}
