package models

// Payload variants. The raw payload field varies by event kind and evolves
// independently of this service, so it is stored as-is and decoded per-kind
// when the digest is built.

// PushPayload is the payload of a PushEvent.
type PushPayload struct {
	Ref     string   `json:"ref"`
	Head    string   `json:"head"`
	Before  string   `json:"before"`
	Commits []Commit `json:"commits"`
}

// Commit is a single commit inside a push payload.
type Commit struct {
	SHA      string       `json:"sha"`
	Message  string       `json:"message"`
	Author   CommitAuthor `json:"author"`
	URL      string       `json:"url"`
	Distinct bool         `json:"distinct"`
}

// CommitAuthor is the git-level author of a commit, which is not
// necessarily a GitHub account.
type CommitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IssuesPayload is the payload of an IssuesEvent.
type IssuesPayload struct {
	Action string `json:"action"`
	Issue  Issue  `json:"issue"`
}

// Issue is the issue an IssuesEvent refers to.
type Issue struct {
	Title   string `json:"title"`
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
	Number  int64  `json:"number"`
}

// ReleasePayload is the payload of a ReleaseEvent.
type ReleasePayload struct {
	Action  string  `json:"action"`
	Release Release `json:"release"`
}

// Release is a published (or draft) release.
type Release struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	HTMLURL              string `json:"html_url"`
	Author               Actor  `json:"author"`
	Draft                bool   `json:"draft"`
	Prerelease           bool   `json:"prerelease"`
	ShortDescriptionHTML string `json:"short_description_html"`
}
