package report

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-warden/internal/core"
	"github.com/sevigo/review-warden/internal/storage"
)

type fakeStore struct {
	storage.Store
	pushLogs []core.PushReviewLog
	mrLogs   []core.MRReviewLog
}

func (f *fakeStore) ListPushReviewLogs(_ context.Context, _ storage.LogFilter) ([]core.PushReviewLog, error) {
	return f.pushLogs, nil
}

func (f *fakeStore) ListMRReviewLogs(_ context.Context, _ storage.LogFilter) ([]core.MRReviewLog, error) {
	return f.mrLogs, nil
}

type fakeReviewer struct {
	lastCommits string
}

func (f *fakeReviewer) ReviewCode(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func (f *fakeReviewer) GenerateReport(_ context.Context, commits string) (string, error) {
	f.lastCommits = commits
	return "the report", nil
}

type fakeNotifier struct {
	titles []string
	texts  []string
}

func (f *fakeNotifier) SendMarkdown(_ context.Context, title, text string) error {
	f.titles = append(f.titles, title)
	f.texts = append(f.texts, text)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDedupeAndSort(t *testing.T) {
	entries := []Entry{
		{Author: "zoe", CommitMessages: "fix parser"},
		{Author: "amy", CommitMessages: "add cache"},
		{Author: "zoe", CommitMessages: "fix parser"},
		{Author: "amy", CommitMessages: "tune cache"},
	}

	got := DedupeAndSort(entries)

	require.Len(t, got, 3)
	assert.Equal(t, "amy", got[0].Author)
	assert.Equal(t, "add cache", got[0].CommitMessages)
	assert.Equal(t, "amy", got[1].Author)
	assert.Equal(t, "tune cache", got[1].CommitMessages)
	assert.Equal(t, "zoe", got[2].Author)
}

func TestDailyReportUsesPushLogsWhenEnabled(t *testing.T) {
	store := &fakeStore{
		pushLogs: []core.PushReviewLog{
			{Author: "bob", ProjectName: "team/app", CommitMessages: "refactor storage", Score: 85},
			{Author: "bob", ProjectName: "team/app", CommitMessages: "refactor storage", Score: 85},
		},
	}
	reviewer := &fakeReviewer{}
	notifier := &fakeNotifier{}

	svc := NewService(store, reviewer, notifier, true, discardLogger())
	text, err := svc.DailyReport(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "the report", text)

	var entries []Entry
	require.NoError(t, json.Unmarshal([]byte(reviewer.lastCommits), &entries))
	require.Len(t, entries, 1, "duplicate commits must collapse to one entry")
	assert.Equal(t, "bob", entries[0].Author)
	assert.Equal(t, 85, entries[0].Score)

	require.Len(t, notifier.texts, 1)
	assert.Equal(t, "the report", notifier.texts[0])
}

func TestDailyReportUsesMRLogsWhenPushDisabled(t *testing.T) {
	store := &fakeStore{
		mrLogs: []core.MRReviewLog{
			{Author: "carol", ProjectName: "team/api", CommitMessages: "add endpoint", Score: 92},
		},
	}
	reviewer := &fakeReviewer{}

	svc := NewService(store, reviewer, &fakeNotifier{}, false, discardLogger())
	_, err := svc.DailyReport(context.Background())

	require.NoError(t, err)
	var entries []Entry
	require.NoError(t, json.Unmarshal([]byte(reviewer.lastCommits), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "carol", entries[0].Author)
}

func TestDailyReportNoData(t *testing.T) {
	svc := NewService(&fakeStore{}, &fakeReviewer{}, &fakeNotifier{}, true, discardLogger())

	_, err := svc.DailyReport(context.Background())

	assert.ErrorIs(t, err, ErrNoData)
}
