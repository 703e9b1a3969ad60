package webhook

import (
	"net/url"
	"regexp"
	"strings"
)

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// SlugifyURL derives a stable per-instance identifier from a hosting base
// URL. The scheme, host and optional path are lower-cased and every run of
// characters outside [a-z0-9] collapses to a single dash, so
// "https://gitlab.example.com/" and "https://gitlab.example.com" produce the
// same slug.
func SlugifyURL(raw string) string {
	base := strings.TrimSpace(raw)
	if u, err := url.Parse(base); err == nil && u.Host != "" {
		base = u.Scheme + "://" + u.Host + strings.TrimSuffix(u.Path, "/")
	} else {
		base = strings.TrimSuffix(base, "/")
	}
	base = strings.ToLower(base)
	base = slugSeparators.ReplaceAllString(base, "-")
	return strings.Trim(base, "-")
}
