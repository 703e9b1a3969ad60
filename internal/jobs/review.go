package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/review-warden/internal/core"
	"github.com/sevigo/review-warden/internal/llm"
	"github.com/sevigo/review-warden/internal/notify"
	"github.com/sevigo/review-warden/internal/scm/github"
	"github.com/sevigo/review-warden/internal/scm/gitlab"
	"github.com/sevigo/review-warden/internal/storage"
)

// ReviewJob routes a dispatched task to the handler for its (vendor, kind)
// pair: fetch the change content from the hosting API, generate an AI
// review, post it back where the vendor supports that, and persist the
// outcome. Steps within one task run strictly sequentially.
type ReviewJob struct {
	reviewer llm.Reviewer
	store    storage.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewReviewJob creates the review pipeline job.
func NewReviewJob(reviewer llm.Reviewer, store storage.Store, notifier notify.Notifier, logger *slog.Logger) core.Job {
	if reviewer == nil {
		panic("reviewer cannot be nil")
	}
	if store == nil {
		panic("store cannot be nil")
	}
	return &ReviewJob{reviewer: reviewer, store: store, notifier: notifier, logger: logger}
}

// Run executes the review pipeline for a single task.
func (j *ReviewJob) Run(ctx context.Context, task *core.ReviewTask) error {
	switch {
	case task.Event.Vendor == core.VendorGitLab && task.Event.Kind == core.KindMergeRequest:
		return j.handleGitLabMergeRequest(ctx, task)
	case task.Event.Vendor == core.VendorGitLab && task.Event.Kind == core.KindPush:
		return j.handleGitLabPush(ctx, task)
	case task.Event.Vendor == core.VendorGitHub && task.Event.Kind == core.KindPullRequest:
		return j.handleGitHubPullRequest(ctx, task)
	case task.Event.Vendor == core.VendorGitHub && task.Event.Kind == core.KindPush:
		return j.handleGitHubPush(ctx, task)
	default:
		return fmt.Errorf("no handler for vendor %q kind %q", task.Event.Vendor, task.Event.Kind)
	}
}

func (j *ReviewJob) handleGitLabMergeRequest(ctx context.Context, task *core.ReviewTask) error {
	var payload gitlabMergeRequestPayload
	if err := json.Unmarshal(task.Event.Payload, &payload); err != nil {
		return fmt.Errorf("decode gitlab merge_request payload: %w", err)
	}

	client, err := gitlab.NewClient(task.Creds.BaseURL, task.Creds.Token)
	if err != nil {
		return err
	}

	changes, err := client.GetMergeRequestChanges(payload.Project.ID, payload.ObjectAttributes.IID)
	if err != nil {
		return err
	}

	commits := payload.ObjectAttributes.LastCommit.Message
	review, score, err := j.review(ctx, changes, commits)
	if err != nil {
		return err
	}
	if review == "" {
		return nil
	}

	if err := client.CreateMergeRequestNote(payload.Project.ID, payload.ObjectAttributes.IID, review); err != nil {
		// The review is still worth persisting when the note fails.
		j.logger.Error("failed to post merge request note",
			"project", payload.Project.PathWithNamespace, "mr", payload.ObjectAttributes.IID, "error", err)
	}

	record := &core.MRReviewLog{
		ProjectName:    payload.Project.PathWithNamespace,
		Author:         authorName(payload.User.Username, payload.User.Name),
		SourceBranch:   payload.ObjectAttributes.SourceBranch,
		TargetBranch:   payload.ObjectAttributes.TargetBranch,
		UpdatedAt:      task.Event.ReceivedAt.Unix(),
		CommitMessages: commits,
		Score:          score,
		URL:            payload.ObjectAttributes.URL,
		ReviewResult:   review,
	}
	if err := j.store.InsertMRReviewLog(ctx, record); err != nil {
		return err
	}

	j.notifyReview(ctx, record.ProjectName, record.Author, score)
	return nil
}

func (j *ReviewJob) handleGitLabPush(ctx context.Context, task *core.ReviewTask) error {
	var payload gitlabPushPayload
	if err := json.Unmarshal(task.Event.Payload, &payload); err != nil {
		return fmt.Errorf("decode gitlab push payload: %w", err)
	}

	client, err := gitlab.NewClient(task.Creds.BaseURL, task.Creds.Token)
	if err != nil {
		return err
	}

	changes, err := client.CompareCommits(payload.ProjectID, payload.Before, payload.After)
	if err != nil {
		return err
	}

	var messages []string
	for _, c := range payload.Commits {
		messages = append(messages, strings.TrimSpace(c.Message))
	}
	commits := strings.Join(messages, "\n")

	review, score, err := j.review(ctx, changes, commits)
	if err != nil {
		return err
	}
	if review == "" {
		return nil
	}

	record := &core.PushReviewLog{
		ProjectName:    payload.Project.PathWithNamespace,
		Author:         authorName(payload.UserUsername, payload.UserName),
		Branch:         branchFromRef(payload.Ref),
		UpdatedAt:      task.Event.ReceivedAt.Unix(),
		CommitMessages: commits,
		Score:          score,
		ReviewResult:   review,
	}
	if err := j.store.InsertPushReviewLog(ctx, record); err != nil {
		return err
	}

	j.notifyReview(ctx, record.ProjectName, record.Author, score)
	return nil
}

func (j *ReviewJob) handleGitHubPullRequest(ctx context.Context, task *core.ReviewTask) error {
	var payload githubPullRequestPayload
	if err := json.Unmarshal(task.Event.Payload, &payload); err != nil {
		return fmt.Errorf("decode github pull_request payload: %w", err)
	}

	client, err := github.NewClient(ctx, task.Creds.BaseURL, task.Creds.Token)
	if err != nil {
		return err
	}

	owner := payload.Repository.Owner.Login
	repo := payload.Repository.Name
	number := payload.PullRequest.Number

	changes, err := client.GetPullRequestDiff(ctx, owner, repo, number)
	if err != nil {
		return err
	}

	commits := payload.PullRequest.Title
	review, score, err := j.review(ctx, changes, commits)
	if err != nil {
		return err
	}
	if review == "" {
		return nil
	}

	if err := client.CreateComment(ctx, owner, repo, number, review); err != nil {
		j.logger.Error("failed to post pull request comment",
			"repo", payload.Repository.FullName, "pr", number, "error", err)
	}

	record := &core.MRReviewLog{
		ProjectName:    payload.Repository.FullName,
		Author:         payload.PullRequest.User.Login,
		SourceBranch:   payload.PullRequest.Head.Ref,
		TargetBranch:   payload.PullRequest.Base.Ref,
		UpdatedAt:      task.Event.ReceivedAt.Unix(),
		CommitMessages: commits,
		Score:          score,
		URL:            payload.PullRequest.HTMLURL,
		ReviewResult:   review,
	}
	if err := j.store.InsertMRReviewLog(ctx, record); err != nil {
		return err
	}

	j.notifyReview(ctx, record.ProjectName, record.Author, score)
	return nil
}

func (j *ReviewJob) handleGitHubPush(ctx context.Context, task *core.ReviewTask) error {
	var payload githubPushPayload
	if err := json.Unmarshal(task.Event.Payload, &payload); err != nil {
		return fmt.Errorf("decode github push payload: %w", err)
	}

	client, err := github.NewClient(ctx, task.Creds.BaseURL, task.Creds.Token)
	if err != nil {
		return err
	}

	owner := payload.Repository.Owner.Login
	if owner == "" {
		owner = payload.Repository.Owner.Name
	}

	changes, err := client.CompareCommits(ctx, owner, payload.Repository.Name, payload.Before, payload.After)
	if err != nil {
		return err
	}

	var messages []string
	for _, c := range payload.Commits {
		messages = append(messages, strings.TrimSpace(c.Message))
	}
	commits := strings.Join(messages, "\n")

	review, score, err := j.review(ctx, changes, commits)
	if err != nil {
		return err
	}
	if review == "" {
		return nil
	}

	record := &core.PushReviewLog{
		ProjectName:    payload.Repository.FullName,
		Author:         payload.Pusher.Name,
		Branch:         branchFromRef(payload.Ref),
		UpdatedAt:      task.Event.ReceivedAt.Unix(),
		CommitMessages: commits,
		Score:          score,
		ReviewResult:   review,
	}
	if err := j.store.InsertPushReviewLog(ctx, record); err != nil {
		return err
	}

	j.notifyReview(ctx, record.ProjectName, record.Author, score)
	return nil
}

// review runs the LLM review over the fetched changes. An empty diff ends
// the task without an error: there is nothing to review, and the handler
// skips persistence when the returned review is empty.
func (j *ReviewJob) review(ctx context.Context, changes, commits string) (string, int, error) {
	review, err := j.reviewer.ReviewCode(ctx, changes, commits)
	if err != nil {
		if errors.Is(err, llm.ErrEmptyChanges) {
			j.logger.Info("event carries no reviewable changes, skipping")
			return "", 0, nil
		}
		return "", 0, err
	}
	return review, llm.ParseScore(review), nil
}

func (j *ReviewJob) notifyReview(ctx context.Context, project, author string, score int) {
	if j.notifier == nil {
		return
	}
	title := "Code review finished"
	text := fmt.Sprintf("**%s**: review for %s scored **%d**", project, author, score)
	if err := j.notifier.SendMarkdown(ctx, title, text); err != nil {
		j.logger.Error("failed to send review notification", "project", project, "error", err)
	}
}

// branchFromRef strips the refs/heads/ prefix from a push ref.
func branchFromRef(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}

// authorName prefers the username over the display name.
func authorName(username, name string) string {
	if username != "" {
		return username
	}
	return name
}
