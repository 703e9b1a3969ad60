package llm

import (
	"regexp"
	"strconv"
	"strings"
)

var scoreRegex = regexp.MustCompile(`(?i)total\s+score[:：]\s*(\d+)`)

// ParseScore extracts the numeric score from a review text. A review without
// a recognizable score line yields 0.
func ParseScore(review string) int {
	matches := scoreRegex.FindStringSubmatch(review)
	if len(matches) != 2 {
		return 0
	}
	score, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}
	return score
}

// stripMarkdownFence removes a wrapping ```markdown ... ``` fence that some
// models add around their whole answer.
func stripMarkdownFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```markdown") && strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```markdown")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
