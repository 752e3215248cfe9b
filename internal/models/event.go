package models

import (
	"encoding/json"
	"time"
)

// Recognized event kinds. Everything else is dropped at fetch time.
const (
	KindPush        = "PushEvent"
	KindIssues      = "IssuesEvent"
	KindPullRequest = "PullRequestEvent"
	KindRelease     = "ReleaseEvent"
	KindSponsorship = "SponsorshipEvent"
)

// RecognizedKind reports whether kind is one of the event kinds the
// pipeline stores.
func RecognizedKind(kind string) bool {
	switch kind {
	case KindPush, KindIssues, KindPullRequest, KindRelease, KindSponsorship:
		return true
	}
	return false
}

// Event is a raw event as received from the GitHub org feed. Events are
// append-only: written once by the ingestion loop and never mutated.
type Event struct {
	ID         string          `json:"id"`
	Kind       string          `json:"type"`
	Actor      Actor           `json:"actor"`
	Repository Repository      `json:"repo"`
	Payload    json.RawMessage `json:"payload"`
	Public     bool            `json:"public"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DateKey returns the ISO date the event buckets into.
func (e *Event) DateKey() string {
	return e.CreatedAt.UTC().Format("2006-01-02")
}

// Actor is the user that triggered an event.
type Actor struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	URL       string `json:"url"`
	AvatarURL string `json:"avatar_url"`
}

// Repository identifies the repository an event happened in. Name is in
// "owner/name" form.
type Repository struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
