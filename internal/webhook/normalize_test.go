package webhook

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-warden/internal/core"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		header     http.Header
		body       string
		wantVendor core.Vendor
		wantKind   core.EventKind
		wantErr    error
	}{
		{
			name:       "GitHub pull_request header",
			header:     http.Header{"X-Github-Event": []string{"pull_request"}},
			body:       `{"action":"opened"}`,
			wantVendor: core.VendorGitHub,
			wantKind:   core.KindPullRequest,
		},
		{
			name:       "GitHub push header",
			header:     http.Header{"X-Github-Event": []string{"push"}},
			body:       `{"ref":"refs/heads/main"}`,
			wantVendor: core.VendorGitHub,
			wantKind:   core.KindPush,
		},
		{
			name:       "GitLab merge_request body",
			header:     http.Header{},
			body:       `{"object_kind":"merge_request"}`,
			wantVendor: core.VendorGitLab,
			wantKind:   core.KindMergeRequest,
		},
		{
			name:       "GitLab push body",
			header:     http.Header{},
			body:       `{"object_kind":"push"}`,
			wantVendor: core.VendorGitLab,
			wantKind:   core.KindPush,
		},
		{
			name:    "GitHub unsupported kind",
			header:  http.Header{"X-Github-Event": []string{"issues"}},
			body:    `{"action":"opened"}`,
			wantErr: &UnsupportedEventError{},
		},
		{
			name:    "GitLab unsupported kind",
			header:  http.Header{},
			body:    `{"object_kind":"issue"}`,
			wantErr: &UnsupportedEventError{},
		},
		{
			name:    "GitLab missing object_kind",
			header:  http.Header{},
			body:    `{"repository":{}}`,
			wantErr: &UnsupportedEventError{},
		},
		{
			name:    "Non-JSON body",
			header:  http.Header{},
			body:    `push event`,
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "Empty body",
			header:  http.Header{},
			body:    ``,
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "JSON array body",
			header:  http.Header{},
			body:    `[1,2,3]`,
			wantErr: ErrInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := Normalize(tt.header, []byte(tt.body))
			if tt.wantErr != nil {
				require.Error(t, err)
				var unsupported *UnsupportedEventError
				if errors.As(tt.wantErr, &unsupported) {
					assert.ErrorAs(t, err, &unsupported)
				} else {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVendor, event.Vendor)
			assert.Equal(t, tt.wantKind, event.Kind)
			assert.Equal(t, tt.body, string(event.Payload))
			assert.False(t, event.ReceivedAt.IsZero())
		})
	}
}

func TestUnsupportedEventErrorMessages(t *testing.T) {
	gh := &UnsupportedEventError{Vendor: core.VendorGitHub, Kind: "issues"}
	assert.Equal(t,
		"Only pull_request and push events are supported for GitHub webhook, but received: issues.",
		gh.Error())

	gl := &UnsupportedEventError{Vendor: core.VendorGitLab, Kind: "issue"}
	assert.Equal(t,
		"Only merge_request and push events are supported (both Webhook and System Hook), but received: issue.",
		gl.Error())
}
