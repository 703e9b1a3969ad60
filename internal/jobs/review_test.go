package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/review-warden/internal/core"
	"github.com/sevigo/review-warden/internal/storage"
)

type stubReviewer struct{}

func (stubReviewer) ReviewCode(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func (stubReviewer) GenerateReport(_ context.Context, _ string) (string, error) {
	return "", nil
}

type stubStore struct {
	storage.Store
}

func TestRunRejectsUnknownRoute(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := NewReviewJob(stubReviewer{}, stubStore{}, nil, logger)

	task := &core.ReviewTask{
		Event: &core.Event{
			Vendor:     core.VendorGitHub,
			Kind:       core.KindMergeRequest,
			ReceivedAt: time.Now(),
		},
	}

	err := job.Run(context.Background(), task)

	assert.ErrorContains(t, err, "no handler")
}

func TestNewReviewJobRequiresDependencies(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Panics(t, func() { NewReviewJob(nil, stubStore{}, nil, logger) })
	assert.Panics(t, func() { NewReviewJob(stubReviewer{}, nil, nil, logger) })
}

func TestBranchFromRef(t *testing.T) {
	assert.Equal(t, "main", branchFromRef("refs/heads/main"))
	assert.Equal(t, "feature/x", branchFromRef("refs/heads/feature/x"))
	assert.Equal(t, "main", branchFromRef("main"))
}

func TestAuthorName(t *testing.T) {
	assert.Equal(t, "jdoe", authorName("jdoe", "John Doe"))
	assert.Equal(t, "John Doe", authorName("", "John Doe"))
}
