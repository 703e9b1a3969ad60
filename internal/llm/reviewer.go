package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/sevigo/review-warden/internal/config"
)

// ErrEmptyChanges is returned when an event carries no reviewable diff.
var ErrEmptyChanges = errors.New("no code changes to review")

// Reviewer generates review text and daily report text from an
// OpenAI-compatible chat model.
type Reviewer interface {
	// ReviewCode reviews a diff, given the commit messages for context, and
	// returns the review in Markdown.
	ReviewCode(ctx context.Context, diffs, commits string) (string, error)
	// GenerateReport turns a JSON list of review records into a short daily
	// report in Markdown.
	GenerateReport(ctx context.Context, commitsJSON string) (string, error)
}

type openAIReviewer struct {
	client    *openai.Client
	model     string
	style     string
	maxTokens int
	prompts   promptSet
	logger    *slog.Logger
}

// NewReviewer creates a Reviewer from process configuration. A custom base
// URL points the client at any OpenAI-compatible endpoint.
func NewReviewer(cfg *config.Config, logger *slog.Logger) (Reviewer, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY must be set")
	}

	clientCfg := openai.DefaultConfig(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		clientCfg.BaseURL = cfg.LLM.BaseURL
	}

	prompts, err := loadPrompts()
	if err != nil {
		return nil, err
	}

	return &openAIReviewer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.LLM.Model,
		style:     cfg.ReviewStyle,
		maxTokens: cfg.ReviewMaxTokens,
		prompts:   prompts,
		logger:    logger,
	}, nil
}

func (r *openAIReviewer) ReviewCode(ctx context.Context, diffs, commits string) (string, error) {
	if diffs == "" {
		return "", ErrEmptyChanges
	}

	if n := countTokens(diffs, r.model); n > r.maxTokens {
		r.logger.Info("truncating oversized diff", "tokens", n, "budget", r.maxTokens)
		diffs = truncateByTokens(diffs, r.maxTokens, r.model)
	}

	systemMsg, userMsg, err := r.prompts.render("code_review_prompt", promptData{
		Style:   r.style,
		Diffs:   diffs,
		Commits: commits,
	})
	if err != nil {
		return "", err
	}

	review, err := r.complete(ctx, systemMsg, userMsg)
	if err != nil {
		return "", fmt.Errorf("code review completion: %w", err)
	}
	return stripMarkdownFence(review), nil
}

func (r *openAIReviewer) GenerateReport(ctx context.Context, commitsJSON string) (string, error) {
	systemMsg, userMsg, err := r.prompts.render("report_prompt", promptData{
		Style:   r.style,
		Commits: commitsJSON,
	})
	if err != nil {
		return "", err
	}

	report, err := r.complete(ctx, systemMsg, userMsg)
	if err != nil {
		return "", fmt.Errorf("report completion: %w", err)
	}
	return stripMarkdownFence(report), nil
}

func (r *openAIReviewer) complete(ctx context.Context, systemMsg, userMsg string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: userMsg},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
