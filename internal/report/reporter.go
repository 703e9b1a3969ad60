// Package report assembles the daily review report from persisted review
// logs and delivers it through the notifier.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sevigo/review-warden/internal/llm"
	"github.com/sevigo/review-warden/internal/notify"
	"github.com/sevigo/review-warden/internal/storage"
)

// ErrNoData is returned when the reporting window contains no review logs.
var ErrNoData = errors.New("no review data to report")

// Entry is one row handed to the report model.
type Entry struct {
	Author         string `json:"author"`
	ProjectName    string `json:"project_name"`
	CommitMessages string `json:"commit_messages"`
	Score          int    `json:"score"`
}

// Service generates the daily report.
type Service struct {
	store             storage.Store
	reviewer          llm.Reviewer
	notifier          notify.Notifier
	pushReviewEnabled bool
	logger            *slog.Logger
}

// NewService creates the report service. With pushReviewEnabled the report
// covers push review logs, otherwise merge request review logs.
func NewService(store storage.Store, reviewer llm.Reviewer, notifier notify.Notifier, pushReviewEnabled bool, logger *slog.Logger) *Service {
	return &Service{
		store:             store,
		reviewer:          reviewer,
		notifier:          notifier,
		pushReviewEnabled: pushReviewEnabled,
		logger:            logger,
	}
}

// DailyReport builds and sends the report for today's review activity.
func (s *Service) DailyReport(ctx context.Context) (string, error) {
	start, end := dayBounds(time.Now())
	filter := storage.LogFilter{UpdatedAtGte: &start, UpdatedAtLte: &end}

	entries, err := s.collect(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", ErrNoData
	}

	entries = DedupeAndSort(entries)

	payload, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshal report entries: %w", err)
	}

	text, err := s.reviewer.GenerateReport(ctx, string(payload))
	if err != nil {
		return "", fmt.Errorf("generate daily report: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendMarkdown(ctx, "Daily code review report", text); err != nil {
			s.logger.Error("failed to deliver daily report", "error", err)
		}
	}

	return text, nil
}

func (s *Service) collect(ctx context.Context, filter storage.LogFilter) ([]Entry, error) {
	var entries []Entry
	if s.pushReviewEnabled {
		logs, err := s.store.ListPushReviewLogs(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, l := range logs {
			entries = append(entries, Entry{
				Author:         l.Author,
				ProjectName:    l.ProjectName,
				CommitMessages: l.CommitMessages,
				Score:          l.Score,
			})
		}
		return entries, nil
	}

	logs, err := s.store.ListMRReviewLogs(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		entries = append(entries, Entry{
			Author:         l.Author,
			ProjectName:    l.ProjectName,
			CommitMessages: l.CommitMessages,
			Score:          l.Score,
		})
	}
	return entries, nil
}

// DedupeAndSort removes repeated (author, commit messages) pairs, which
// at-least-once webhook delivery produces, and orders entries by author.
func DedupeAndSort(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := e.Author + "\x00" + e.CommitMessages
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, e)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Author < result[j].Author
	})
	return result
}

// dayBounds returns the inclusive unix-second bounds of the local day
// containing t.
func dayBounds(t time.Time) (int64, int64) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end := time.Date(year, month, day, 23, 59, 59, 0, t.Location())
	return start.Unix(), end.Unix()
}
