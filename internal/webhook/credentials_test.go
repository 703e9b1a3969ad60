package webhook

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-warden/internal/config"
	"github.com/sevigo/review-warden/internal/core"
)

func gitlabEvent(payload string) *core.Event {
	return &core.Event{
		Vendor:     core.VendorGitLab,
		Kind:       core.KindPush,
		Payload:    []byte(payload),
		ReceivedAt: time.Now(),
	}
}

func githubEvent() *core.Event {
	return &core.Event{
		Vendor:     core.VendorGitHub,
		Kind:       core.KindPullRequest,
		Payload:    []byte(`{}`),
		ReceivedAt: time.Now(),
	}
}

func TestResolveGitHub(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		header    http.Header
		wantURL   string
		wantToken string
		wantErr   error
	}{
		{
			name:      "Token from config",
			cfg:       config.Config{GitHubAccessToken: "cfg-token"},
			header:    http.Header{},
			wantURL:   DefaultGitHubURL,
			wantToken: "cfg-token",
		},
		{
			name:      "Config token wins over header",
			cfg:       config.Config{GitHubAccessToken: "cfg-token"},
			header:    http.Header{"X-Github-Token": []string{"hdr-token"}},
			wantURL:   DefaultGitHubURL,
			wantToken: "cfg-token",
		},
		{
			name:      "Token from header",
			cfg:       config.Config{},
			header:    http.Header{"X-Github-Token": []string{"hdr-token"}},
			wantURL:   DefaultGitHubURL,
			wantToken: "hdr-token",
		},
		{
			name:      "Enterprise URL from config",
			cfg:       config.Config{GitHubAccessToken: "t", GitHubURL: "https://github.corp.example.com"},
			header:    http.Header{},
			wantURL:   "https://github.corp.example.com",
			wantToken: "t",
		},
		{
			name:    "No token anywhere",
			cfg:     config.Config{},
			header:  http.Header{},
			wantErr: ErrMissingGitHubToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCredentialResolver(&tt.cfg)
			creds, err := r.Resolve(githubEvent(), tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, creds.BaseURL)
			assert.Equal(t, tt.wantToken, creds.Token)
			assert.Equal(t, SlugifyURL(tt.wantURL), creds.URLSlug)
		})
	}
}

func TestResolveGitLab(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		header    http.Header
		payload   string
		wantURL   string
		wantToken string
		wantErr   error
	}{
		{
			name:      "URL and token from config",
			cfg:       config.Config{GitLabURL: "https://gitlab.example.com", GitLabAccessToken: "cfg-token"},
			header:    http.Header{},
			payload:   `{}`,
			wantURL:   "https://gitlab.example.com",
			wantToken: "cfg-token",
		},
		{
			name:      "URL from instance header",
			cfg:       config.Config{GitLabAccessToken: "cfg-token"},
			header:    http.Header{"X-Gitlab-Instance": []string{"https://gitlab.corp.example.com"}},
			payload:   `{}`,
			wantURL:   "https://gitlab.corp.example.com",
			wantToken: "cfg-token",
		},
		{
			name:      "URL derived from repository homepage",
			cfg:       config.Config{},
			header:    http.Header{"X-Gitlab-Token": []string{"hdr-token"}},
			payload:   `{"object_kind":"push","repository":{"homepage":"https://gitlab.co/org/repo"}}`,
			wantURL:   "https://gitlab.co/",
			wantToken: "hdr-token",
		},
		{
			name:    "No URL anywhere",
			cfg:     config.Config{GitLabAccessToken: "t"},
			header:  http.Header{},
			payload: `{"object_kind":"push"}`,
			wantErr: ErrMissingGitLabURL,
		},
		{
			name:    "Repository present but homepage missing",
			cfg:     config.Config{GitLabAccessToken: "t"},
			header:  http.Header{},
			payload: `{"object_kind":"push","repository":{}}`,
			wantErr: ErrMissingGitLabURL,
		},
		{
			name:    "No token anywhere",
			cfg:     config.Config{GitLabURL: "https://gitlab.example.com"},
			header:  http.Header{},
			payload: `{}`,
			wantErr: ErrMissingGitLabToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewCredentialResolver(&tt.cfg)
			creds, err := r.Resolve(gitlabEvent(tt.payload), tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, creds.BaseURL)
			assert.Equal(t, tt.wantToken, creds.Token)
			assert.Equal(t, SlugifyURL(tt.wantURL), creds.URLSlug)
		})
	}
}
