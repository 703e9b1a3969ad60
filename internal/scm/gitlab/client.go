// Package gitlab wraps the GitLab API client with the small set of
// operations the review pipeline needs: fetching change diffs and posting
// review notes. A client is built per task from the credentials resolved for
// that webhook delivery.
package gitlab

import (
	"fmt"
	"strings"

	"github.com/xanzy/go-gitlab"
)

// Client is a thin wrapper around the official GitLab client.
type Client struct {
	gl *gitlab.Client
}

// NewClient creates a GitLab client for the given instance URL and token.
func NewClient(baseURL, token string) (*Client, error) {
	gl, err := gitlab.NewOAuthClient(token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("create gitlab client for %s: %w", baseURL, err)
	}
	return &Client{gl: gl}, nil
}

// GetMergeRequestChanges returns the combined diff text of a merge request.
func (c *Client) GetMergeRequestChanges(projectID, mrIID int) (string, error) {
	mr, _, err := c.gl.MergeRequests.GetMergeRequestChanges(projectID, mrIID, nil)
	if err != nil {
		return "", fmt.Errorf("get merge request %d changes: %w", mrIID, err)
	}

	var sb strings.Builder
	for _, change := range mr.Changes {
		writeFileDiff(&sb, change.OldPath, change.NewPath, change.Diff)
	}
	return sb.String(), nil
}

// CompareCommits returns the combined diff text between two commits, used
// for push events.
func (c *Client) CompareCommits(projectID int, from, to string) (string, error) {
	compare, _, err := c.gl.Repositories.Compare(projectID, &gitlab.CompareOptions{
		From: gitlab.Ptr(from),
		To:   gitlab.Ptr(to),
	})
	if err != nil {
		return "", fmt.Errorf("compare %s..%s: %w", from, to, err)
	}

	var sb strings.Builder
	for _, diff := range compare.Diffs {
		writeFileDiff(&sb, diff.OldPath, diff.NewPath, diff.Diff)
	}
	return sb.String(), nil
}

// CreateMergeRequestNote posts the review text back to the merge request.
func (c *Client) CreateMergeRequestNote(projectID, mrIID int, body string) error {
	_, _, err := c.gl.Notes.CreateMergeRequestNote(projectID, mrIID, &gitlab.CreateMergeRequestNoteOptions{
		Body: gitlab.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("create note on merge request %d: %w", mrIID, err)
	}
	return nil
}

func writeFileDiff(sb *strings.Builder, oldPath, newPath, diff string) {
	if diff == "" {
		return
	}
	fmt.Fprintf(sb, "--- %s\n+++ %s\n%s\n", oldPath, newPath, diff)
}
