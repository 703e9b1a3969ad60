package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery(t *testing.T) {
	gte := int64(100)
	lte := int64(200)

	tests := []struct {
		name     string
		filter   LogFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "No filter",
			filter:   LogFilter{},
			wantSQL:  "SELECT * FROM push_review_log ORDER BY updated_at DESC",
			wantArgs: nil,
		},
		{
			name:     "Authors expand to placeholders",
			filter:   LogFilter{Authors: []string{"alice", "bob"}},
			wantSQL:  "SELECT * FROM push_review_log WHERE author IN (?, ?) ORDER BY updated_at DESC",
			wantArgs: []any{"alice", "bob"},
		},
		{
			name: "All conditions combined",
			filter: LogFilter{
				Authors:      []string{"alice"},
				ProjectNames: []string{"warden"},
				UpdatedAtGte: &gte,
				UpdatedAtLte: &lte,
			},
			wantSQL: "SELECT * FROM push_review_log WHERE author IN (?) AND project_name IN (?)" +
				" AND updated_at >= ? AND updated_at <= ? ORDER BY updated_at DESC",
			wantArgs: []any{"alice", "warden", gte, lte},
		},
		{
			name:     "Time range only",
			filter:   LogFilter{UpdatedAtGte: &gte},
			wantSQL:  "SELECT * FROM push_review_log WHERE updated_at >= ? ORDER BY updated_at DESC",
			wantArgs: []any{gte},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildListQuery("SELECT * FROM push_review_log", tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
