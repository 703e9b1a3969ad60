// Package webhook normalizes inbound source-control webhooks. It classifies
// the originating vendor and event kind and resolves the credentials needed
// to process the event, without touching the network.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sevigo/review-warden/internal/core"
)

// ErrInvalidJSON marks a body that is empty or does not parse as a JSON
// object. It is distinct from an unsupported event kind.
var ErrInvalidJSON = errors.New("invalid JSON")

// UnsupportedEventError is returned for event kinds outside the two the
// review pipeline handles per vendor. Its message is user-facing and goes
// back to the webhook sender verbatim.
type UnsupportedEventError struct {
	Vendor core.Vendor
	Kind   string
}

func (e *UnsupportedEventError) Error() string {
	if e.Vendor == core.VendorGitHub {
		return fmt.Sprintf("Only pull_request and push events are supported for GitHub webhook, but received: %s.", e.Kind)
	}
	return fmt.Sprintf("Only merge_request and push events are supported (both Webhook and System Hook), but received: %s.", e.Kind)
}

// Normalize classifies a webhook from its headers and raw JSON body.
// Presence of the X-GitHub-Event header decides the vendor; GitLab events
// carry their kind in the body's object_kind field instead.
func Normalize(header http.Header, body []byte) (*core.Event, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil || len(doc) == 0 {
		return nil, ErrInvalidJSON
	}

	now := time.Now()

	if ghEvent := header.Get("X-GitHub-Event"); ghEvent != "" {
		var kind core.EventKind
		switch ghEvent {
		case "pull_request":
			kind = core.KindPullRequest
		case "push":
			kind = core.KindPush
		default:
			return nil, &UnsupportedEventError{Vendor: core.VendorGitHub, Kind: ghEvent}
		}
		return &core.Event{
			Vendor:     core.VendorGitHub,
			Kind:       kind,
			Payload:    body,
			ReceivedAt: now,
		}, nil
	}

	var objectKind string
	if raw, ok := doc["object_kind"]; ok {
		_ = json.Unmarshal(raw, &objectKind)
	}
	var kind core.EventKind
	switch objectKind {
	case "merge_request":
		kind = core.KindMergeRequest
	case "push":
		kind = core.KindPush
	default:
		return nil, &UnsupportedEventError{Vendor: core.VendorGitLab, Kind: objectKind}
	}
	return &core.Event{
		Vendor:     core.VendorGitLab,
		Kind:       kind,
		Payload:    body,
		ReceivedAt: now,
	}, nil
}
