package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sevigo/review-warden/internal/config"
	"github.com/sevigo/review-warden/internal/core"
)

// DefaultGitHubURL is used when no GitHub host is configured.
const DefaultGitHubURL = "https://github.com"

// Credential resolution failures. The messages are user-facing and returned
// to the webhook sender verbatim.
var (
	ErrMissingGitHubToken = errors.New("Missing GitHub access token")
	ErrMissingGitLabToken = errors.New("Missing GitLab access token")
	ErrMissingGitLabURL   = errors.New("Missing GitLab URL")
)

// CredentialResolver produces the hosting base URL, access token, and URL
// slug for a normalized event. Process configuration is read-only after
// startup, so a single resolver serves all requests concurrently.
type CredentialResolver struct {
	cfg *config.Config
}

// NewCredentialResolver creates a resolver backed by process configuration.
func NewCredentialResolver(cfg *config.Config) *CredentialResolver {
	return &CredentialResolver{cfg: cfg}
}

// Resolve returns the credentials for an event or fails closed. Resolution
// order differs per vendor:
//
//	GitHub: token from config, else the X-GitHub-Token header; base URL from
//	config, else the public GitHub host.
//	GitLab: base URL from config, else the X-Gitlab-Instance header, else the
//	scheme+host of the payload's repository homepage; token from config, else
//	the X-Gitlab-Token header.
func (r *CredentialResolver) Resolve(event *core.Event, header http.Header) (core.Credentials, error) {
	switch event.Vendor {
	case core.VendorGitHub:
		return r.resolveGitHub(header)
	default:
		return r.resolveGitLab(event, header)
	}
}

func (r *CredentialResolver) resolveGitHub(header http.Header) (core.Credentials, error) {
	token := r.cfg.GitHubAccessToken
	if token == "" {
		token = header.Get("X-GitHub-Token")
	}
	if token == "" {
		return core.Credentials{}, ErrMissingGitHubToken
	}

	baseURL := r.cfg.GitHubURL
	if baseURL == "" {
		baseURL = DefaultGitHubURL
	}

	return core.Credentials{
		BaseURL: baseURL,
		Token:   token,
		URLSlug: SlugifyURL(baseURL),
	}, nil
}

func (r *CredentialResolver) resolveGitLab(event *core.Event, header http.Header) (core.Credentials, error) {
	baseURL := r.cfg.GitLabURL
	if baseURL == "" {
		baseURL = header.Get("X-Gitlab-Instance")
	}
	if baseURL == "" {
		homepage, err := repositoryHomepage(event.Payload)
		if err != nil {
			return core.Credentials{}, err
		}
		parsed, err := url.Parse(homepage)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return core.Credentials{}, ErrMissingGitLabURL
		}
		baseURL = fmt.Sprintf("%s://%s/", parsed.Scheme, parsed.Host)
	}

	token := r.cfg.GitLabAccessToken
	if token == "" {
		token = header.Get("X-Gitlab-Token")
	}
	if token == "" {
		return core.Credentials{}, ErrMissingGitLabToken
	}

	return core.Credentials{
		BaseURL: baseURL,
		Token:   token,
		URLSlug: SlugifyURL(baseURL),
	}, nil
}

// repositoryHomepage pulls repository.homepage out of a GitLab payload.
func repositoryHomepage(payload []byte) (string, error) {
	var doc struct {
		Repository *struct {
			Homepage string `json:"homepage"`
		} `json:"repository"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return "", ErrMissingGitLabURL
	}
	if doc.Repository == nil || doc.Repository.Homepage == "" {
		return "", ErrMissingGitLabURL
	}
	return doc.Repository.Homepage, nil
}
