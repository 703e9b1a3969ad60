// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"encoding/json"
	"time"
)

// Vendor identifies the source-control hosting platform that originated a webhook.
type Vendor string

const (
	VendorGitLab Vendor = "gitlab"
	VendorGitHub Vendor = "github"
)

// EventKind is the webhook event type supported by the review pipeline.
type EventKind string

const (
	KindMergeRequest EventKind = "merge_request"
	KindPullRequest  EventKind = "pull_request"
	KindPush         EventKind = "push"
)

// Event is the normalized, internal view of an inbound webhook. It is
// immutable once constructed; ownership transfers to the dispatched task.
type Event struct {
	Vendor     Vendor
	Kind       EventKind
	Payload    json.RawMessage
	ReceivedAt time.Time
}

// Credentials hold the resolved access token and base URL for the hosting
// instance an event came from. They live for exactly one dispatch and are
// never persisted.
type Credentials struct {
	BaseURL string
	Token   string
	// URLSlug is a normalized identifier derived from BaseURL, used to
	// namespace per-instance state downstream.
	URLSlug string
}

// ReviewTask is the unit of work handed to background execution after a
// webhook is accepted. It is created by the webhook endpoint and consumed
// exactly once by a worker.
type ReviewTask struct {
	Event *Event
	Creds Credentials
}
