// Package github wraps the GitHub API client with the operations the review
// pipeline needs. A client is built per task from the credentials resolved
// for that webhook delivery.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

const publicGitHubURL = "https://github.com"

// Client is a thin wrapper around the official go-github client.
type Client struct {
	gh *github.Client
}

// NewClient creates a GitHub client authenticated with a personal access
// token. A non-public base URL is treated as a GitHub Enterprise host.
func NewClient(ctx context.Context, baseURL, token string) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	gh := github.NewClient(tc)

	if trimmed := strings.TrimSuffix(baseURL, "/"); trimmed != "" && trimmed != publicGitHubURL {
		apiURL := trimmed + "/api/v3/"
		enterprise, err := gh.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("configure enterprise URLs for %s: %w", baseURL, err)
		}
		gh = enterprise
	}

	return &Client{gh: gh}, nil
}

// GetPullRequestDiff retrieves the diff of a pull request as a string.
func (c *Client) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	diff, _, err := c.gh.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{
		Type: github.Diff,
	})
	if err != nil {
		return "", fmt.Errorf("get pull request %s/%s#%d diff: %w", owner, repo, number, err)
	}
	return diff, nil
}

// CompareCommits returns the combined patch text between two commits, used
// for push events.
func (c *Client) CompareCommits(ctx context.Context, owner, repo, base, head string) (string, error) {
	comparison, _, err := c.gh.Repositories.CompareCommits(ctx, owner, repo, base, head, &github.ListOptions{PerPage: 100})
	if err != nil {
		return "", fmt.Errorf("compare %s..%s in %s/%s: %w", base, head, owner, repo, err)
	}

	var sb strings.Builder
	for _, file := range comparison.Files {
		if file.GetPatch() == "" {
			continue
		}
		fmt.Fprintf(&sb, "--- %s\n+++ %s\n%s\n", file.GetFilename(), file.GetFilename(), file.GetPatch())
	}
	return sb.String(), nil
}

// CreateComment posts the review text back to the pull request.
func (c *Client) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("create comment on %s/%s#%d: %w", owner, repo, number, err)
	}
	return nil
}
