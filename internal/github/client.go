package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/khonsulabs/projects/internal/models"
)

const (
	defaultBaseURL = "https://api.github.com"
	acceptHeader   = "application/vnd.github.v3+json"
	userAgent      = "khonsulabs-projects-daemon"
	perPage        = 100
)

// Client fetches pages of the public event feed for one organization.
type Client struct {
	client  *http.Client
	baseURL string
	org     string
	logger  *logrus.Logger
}

// ClientOption allows configuring the feed client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout overrides the per-request timeout. The transport default
// otherwise bounds how long a hung fetch can stall a cycle.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// NewClient creates a feed client authenticated with the given token.
func NewClient(token, org string, logger *logrus.Logger, opts ...ClientOption) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 120 * time.Second

	client := &Client{
		client:  httpClient,
		baseURL: defaultBaseURL,
		org:     org,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// EventsPage fetches one page of the org event feed, filtered to the
// recognized event kinds. Returns ErrEndOfFeed when the body is not an
// event array, which is how GitHub marks the end of the feed.
func (c *Client) EventsPage(ctx context.Context, page int) ([]models.Event, error) {
	if page < 1 {
		return nil, NewValidationError("page", fmt.Sprintf("%d", page))
	}

	url := fmt.Sprintf("%s/orgs/%s/events?page=%d&per_page=%d", c.baseURL, c.org, page, perPage)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewFeedError(page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewFeedError(page, err)
	}

	var events []models.Event
	if err := json.Unmarshal(body, &events); err != nil {
		// Not an array: an error body or empty page marking end-of-data.
		c.logger.WithFields(logrus.Fields{
			"page":   page,
			"status": resp.StatusCode,
		}).Debug("Feed page did not parse as an event array, stopping")
		return nil, ErrEndOfFeed
	}

	return filterRecognized(events), nil
}

// filterRecognized drops event kinds the pipeline does not process.
// Unrecognized kinds never reach the store.
func filterRecognized(events []models.Event) []models.Event {
	filtered := events[:0]
	for _, evt := range events {
		if models.RecognizedKind(evt.Kind) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}
