package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/khonsulabs/projects/internal/db"
	"github.com/khonsulabs/projects/internal/models"
)

const (
	dateKeyFormat = "2006-01-02"
	displayFormat = "Monday, January 2, 2006"

	// Activity generated by workflow runs is noise, not contributor work.
	botLogin = "github-actions[bot]"
)

// Builder folds stored events into the per-day, per-repository digest. It
// is a pure read-side component: every call recomputes from the store.
type Builder struct {
	store        db.Store
	forks        []string
	contributors map[string]struct{}
	windowDays   int
	logger       *logrus.Logger
}

// NewBuilder creates a digest builder.
//
// forks is the fork-attribution allow-list ("upstream_owner/name" entries);
// activity on a local fork of one of these is credited to the upstream
// project. contributorEmails limits which commit authors count on those
// forks. windowDays is how far back Build reaches from now.
func NewBuilder(store db.Store, forks, contributorEmails []string, windowDays int, logger *logrus.Logger) *Builder {
	contributors := make(map[string]struct{}, len(contributorEmails))
	for _, email := range contributorEmails {
		contributors[email] = struct{}{}
	}

	return &Builder{
		store:        store,
		forks:        forks,
		contributors: contributors,
		windowDays:   windowDays,
		logger:       logger,
	}
}

// Build computes the digest for the window [now - windowDays, tomorrow).
func (b *Builder) Build(ctx context.Context, now time.Time) ([]models.DayEvents, error) {
	from := now.UTC().AddDate(0, 0, -b.windowDays).Format(dateKeyFormat)
	to := now.UTC().AddDate(0, 0, 1).Format(dateKeyFormat)
	return b.BuildRange(ctx, from, to)
}

// BuildRange computes the digest for an explicit [from, to) date-key window.
// Exposed separately so the fold can be tested without the wall clock.
func (b *Builder) BuildRange(ctx context.Context, from, to string) ([]models.DayEvents, error) {
	events, err := b.store.EventsByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	b.logger.WithFields(logrus.Fields{
		"from":   from,
		"to":     to,
		"events": len(events),
	}).Debug("Building digest")

	var days []models.DayEvents
	currentDay := ""
	for _, dated := range events {
		event := dated.Event

		if event.Actor.Login == botLogin {
			continue
		}

		localName := localRepositoryName(event.Repository.Name)
		forkedFrom := b.forkSource(localName)

		// Events are date-ordered, so a new day starts whenever the key
		// changes.
		if dated.DateKey != currentDay {
			currentDay = dated.DateKey
			days = append(days, models.DayEvents{
				Display:      event.CreatedAt.UTC().Format(displayFormat),
				ISODate:      dated.DateKey,
				Repositories: make(map[string]*models.ActiveRepository),
			})
		}

		day := &days[len(days)-1]
		repo, ok := day.Repositories[localName]
		if !ok {
			repo = &models.ActiveRepository{
				URL:           repositoryURL(forkedFrom, event.Repository.Name),
				ForkedFrom:    forkedFrom,
				CommitAuthors: make(map[string]map[string]int),
			}
			day.Repositories[localName] = repo
		}

		if err := b.applyEvent(repo, event, forkedFrom); err != nil {
			return nil, err
		}
	}

	// Most recent day first.
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}

	return prune(days), nil
}

// applyEvent dispatches one event into its repository bucket, decoding the
// payload for its kind.
func (b *Builder) applyEvent(repo *models.ActiveRepository, event *models.Event, forkedFrom string) error {
	switch event.Kind {
	case models.KindIssues:
		var payload models.IssuesPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode issues payload for event %s: %w", event.ID, err)
		}
		if payload.Action != "closed" {
			return nil
		}
		repo.IssuesClosed = append(repo.IssuesClosed, models.ClosedIssue{
			ID:     payload.Issue.Number,
			Author: event.Actor.Login,
			URL:    payload.Issue.HTMLURL,
			Title:  payload.Issue.Title,
		})

	case models.KindPush:
		var payload models.PushPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode push payload for event %s: %w", event.ID, err)
		}
		branch := lastSegment(payload.Ref)
		for _, commit := range payload.Commits {
			// On tracked forks, only commits by known contributors count.
			if forkedFrom != "" {
				if _, ok := b.contributors[commit.Author.Email]; !ok {
					continue
				}
			}
			branches := repo.CommitAuthors[event.Actor.Login]
			if branches == nil {
				branches = make(map[string]int)
				repo.CommitAuthors[event.Actor.Login] = branches
			}
			branches[branch]++
		}

	case models.KindRelease:
		var payload models.ReleasePayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode release payload for event %s: %w", event.ID, err)
		}
		if payload.Release.Draft {
			return nil
		}
		repo.Releases = append(repo.Releases, payload.Release)

	default:
		// The fetcher filters kinds already; anything else stored by an
		// older revision is ignored.
	}

	return nil
}

// forkSource looks the repository up in the fork allow-list by its local
// name and returns the upstream "owner/name", or "" when not a tracked fork.
func (b *Builder) forkSource(localName string) string {
	for _, fork := range b.forks {
		if localRepositoryName(fork) == localName {
			return fork
		}
	}
	return ""
}

// prune removes repositories with neither commits nor closed issues, then
// days left empty. A repository whose only activity is releases is pruned
// with them.
func prune(days []models.DayEvents) []models.DayEvents {
	pruned := days[:0]
	for _, day := range days {
		for name, repo := range day.Repositories {
			if !repo.HasActivity() {
				delete(day.Repositories, name)
			}
		}
		if len(day.Repositories) > 0 {
			pruned = append(pruned, day)
		}
	}
	return pruned
}

func repositoryURL(forkedFrom, fullName string) string {
	if forkedFrom != "" {
		return "https://github.com/" + forkedFrom
	}
	return "https://github.com/" + fullName
}

// localRepositoryName returns the part of "owner/name" after the owner.
func localRepositoryName(fullName string) string {
	if idx := strings.IndexByte(fullName, '/'); idx >= 0 {
		return fullName[idx+1:]
	}
	return fullName
}

func lastSegment(ref string) string {
	if idx := strings.LastIndexByte(ref, '/'); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}
