// Package storage persists review outcomes and serves the reporting queries.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/review-warden/internal/core"
)

// ErrNotFound is returned when a requested review log does not exist.
var ErrNotFound = errors.New("review log not found")

// LogFilter narrows review log queries. Nil/empty fields are ignored.
type LogFilter struct {
	Authors      []string
	ProjectNames []string
	UpdatedAtGte *int64
	UpdatedAtLte *int64
}

// Store defines the interface for all database operations.
type Store interface {
	InsertMRReviewLog(ctx context.Context, record *core.MRReviewLog) error
	InsertPushReviewLog(ctx context.Context, record *core.PushReviewLog) error
	ListMRReviewLogs(ctx context.Context, filter LogFilter) ([]core.MRReviewLog, error)
	ListPushReviewLogs(ctx context.Context, filter LogFilter) ([]core.PushReviewLog, error)
	GetPushReviewLog(ctx context.Context, id int64) (*core.PushReviewLog, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) InsertMRReviewLog(ctx context.Context, record *core.MRReviewLog) error {
	query := `INSERT INTO mr_review_log
		(project_name, author, source_branch, target_branch, updated_at, commit_messages, score, url, review_result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.db.ExecContext(ctx, query,
		record.ProjectName, record.Author, record.SourceBranch, record.TargetBranch,
		record.UpdatedAt, record.CommitMessages, record.Score, record.URL, record.ReviewResult)
	if err != nil {
		return fmt.Errorf("insert mr review log: %w", err)
	}
	return nil
}

func (s *postgresStore) InsertPushReviewLog(ctx context.Context, record *core.PushReviewLog) error {
	query := `INSERT INTO push_review_log
		(project_name, author, branch, updated_at, commit_messages, score, review_result)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, query,
		record.ProjectName, record.Author, record.Branch,
		record.UpdatedAt, record.CommitMessages, record.Score, record.ReviewResult)
	if err != nil {
		return fmt.Errorf("insert push review log: %w", err)
	}
	return nil
}

func (s *postgresStore) ListMRReviewLogs(ctx context.Context, filter LogFilter) ([]core.MRReviewLog, error) {
	query, args, err := buildListQuery(
		`SELECT id, project_name, author, source_branch, target_branch, updated_at, commit_messages, score, url, review_result
		 FROM mr_review_log`, filter)
	if err != nil {
		return nil, err
	}

	records := []core.MRReviewLog{}
	if err := s.db.SelectContext(ctx, &records, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list mr review logs: %w", err)
	}
	return records, nil
}

func (s *postgresStore) ListPushReviewLogs(ctx context.Context, filter LogFilter) ([]core.PushReviewLog, error) {
	query, args, err := buildListQuery(
		`SELECT id, project_name, author, branch, updated_at, commit_messages, score, review_result
		 FROM push_review_log`, filter)
	if err != nil {
		return nil, err
	}

	records := []core.PushReviewLog{}
	if err := s.db.SelectContext(ctx, &records, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list push review logs: %w", err)
	}
	return records, nil
}

func (s *postgresStore) GetPushReviewLog(ctx context.Context, id int64) (*core.PushReviewLog, error) {
	query := `SELECT id, project_name, author, branch, updated_at, commit_messages, score, review_result
		FROM push_review_log WHERE id = $1`

	var record core.PushReviewLog
	if err := s.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get push review log %d: %w", id, err)
	}
	return &record, nil
}

// buildListQuery appends the filter conditions to a base SELECT. The query
// uses `?` placeholders and must be rebound for Postgres before execution.
func buildListQuery(base string, filter LogFilter) (string, []any, error) {
	var conditions []string
	var args []any

	if len(filter.Authors) > 0 {
		conditions = append(conditions, "author IN (?)")
		args = append(args, filter.Authors)
	}
	if len(filter.ProjectNames) > 0 {
		conditions = append(conditions, "project_name IN (?)")
		args = append(args, filter.ProjectNames)
	}
	if filter.UpdatedAtGte != nil {
		conditions = append(conditions, "updated_at >= ?")
		args = append(args, *filter.UpdatedAtGte)
	}
	if filter.UpdatedAtLte != nil {
		conditions = append(conditions, "updated_at <= ?")
		args = append(args, *filter.UpdatedAtLte)
	}

	query := base
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY updated_at DESC"

	query, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, fmt.Errorf("expand list query: %w", err)
	}
	return query, expanded, nil
}
