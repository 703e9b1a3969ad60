package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name   string
		review string
		want   int
	}{
		{
			name:   "Plain score line",
			review: "Looks solid overall.\n\nTotal Score: 85",
			want:   85,
		},
		{
			name:   "Lowercase",
			review: "total score: 42",
			want:   42,
		},
		{
			name:   "Fullwidth colon",
			review: "Total Score：77",
			want:   77,
		},
		{
			name:   "Score embedded mid-text",
			review: "Summary...\nTotal Score: 60\nThanks.",
			want:   60,
		},
		{
			name:   "No score line",
			review: "The change looks fine.",
			want:   0,
		},
		{
			name:   "Empty review",
			review: "",
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScore(tt.review))
		})
	}
}

func TestStripMarkdownFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Fenced answer",
			in:   "```markdown\n# Review\nGood.\n```",
			want: "# Review\nGood.",
		},
		{
			name: "Unfenced answer untouched",
			in:   "# Review\nGood.",
			want: "# Review\nGood.",
		},
		{
			name: "Inner code blocks survive",
			in:   "```markdown\nUse:\n```go\nx := 1\n```\n```",
			want: "Use:\n```go\nx := 1\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdownFence(tt.in))
		})
	}
}

func TestRenderPrompts(t *testing.T) {
	prompts, err := loadPrompts()
	assert.NoError(t, err)

	systemMsg, userMsg, err := prompts.render("code_review_prompt", promptData{
		Style:   "professional",
		Diffs:   "--- a.go\n+++ a.go\n+x := 1",
		Commits: "add x",
	})
	assert.NoError(t, err)
	assert.Contains(t, systemMsg, "professional")
	assert.Contains(t, userMsg, "x := 1")
	assert.Contains(t, userMsg, "add x")

	_, _, err = prompts.render("no_such_prompt", promptData{})
	assert.Error(t, err)
}
