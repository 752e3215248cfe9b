package models

// Digest output types. The digest is derived on every read and never
// persisted.

// DayEvents groups one calendar day's activity by repository. The slice
// returned by the digest builder is ordered newest day first.
type DayEvents struct {
	Display      string                       `json:"display"`
	ISODate      string                       `json:"iso_date"`
	Repositories map[string]*ActiveRepository `json:"repositories"`
}

// ActiveRepository is one repository's activity within a day. For tracked
// forks, URL and ForkedFrom point at the upstream project.
type ActiveRepository struct {
	URL           string                    `json:"url"`
	ForkedFrom    string                    `json:"forked_from,omitempty"`
	CommitAuthors map[string]map[string]int `json:"commit_authors"`
	IssuesClosed  []ClosedIssue             `json:"issues_closed"`
	Releases      []Release                 `json:"releases"`
}

// HasActivity reports whether the repository survives pruning. A repository
// whose only activity is releases does not.
func (r *ActiveRepository) HasActivity() bool {
	return len(r.CommitAuthors) > 0 || len(r.IssuesClosed) > 0
}

// ClosedIssue is an issue recorded in the digest when its IssuesEvent
// carried the "closed" action.
type ClosedIssue struct {
	ID     int64  `json:"id"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}
