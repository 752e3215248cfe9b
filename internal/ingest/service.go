package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/khonsulabs/projects/internal/db"
	"github.com/khonsulabs/projects/internal/github"
	"github.com/khonsulabs/projects/internal/models"
)

// maxBackoff caps the extra delay added after consecutive failed cycles.
const maxBackoff = 15 * time.Minute

// Fetcher fetches one page of the upstream event feed. Pages are numbered
// from 1 and assumed to hold events in reverse-chronological order.
type Fetcher interface {
	EventsPage(ctx context.Context, page int) ([]models.Event, error)
}

// Service drives the write path: fetch, dedup, insert, sleep, forever.
type Service struct {
	fetcher  Fetcher
	store    db.Store
	logger   *logrus.Logger
	interval time.Duration
}

// NewService creates an ingestion service polling at the given interval.
func NewService(fetcher Fetcher, store db.Store, interval time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		store:    store,
		logger:   logger,
		interval: interval,
	}
}

// Run alternates between an ingestion cycle and a fixed-interval sleep
// until the context is cancelled. A failed cycle does not terminate the
// loop: it is logged and retried next interval, with backoff added after
// consecutive failures so a broken upstream is not hammered.
func (s *Service) Run(ctx context.Context) {
	failures := 0
	for {
		s.logger.Info("Fetching new events from GitHub")
		inserted, err := s.RunCycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("Stopping ingestion loop")
				return
			}
			failures++
			TotalCycles.WithLabelValues("error").Inc()
			s.logger.WithError(err).WithField("consecutive_failures", failures).
				Error("Ingestion cycle failed")
		} else {
			failures = 0
			TotalCycles.WithLabelValues("ok").Inc()
			s.logger.WithField("events_inserted", inserted).Info("Ingestion cycle complete")
		}

		s.logger.Info("Sleeping")
		select {
		case <-time.After(s.interval + backoff(failures)):
		case <-ctx.Done():
			s.logger.Info("Stopping ingestion loop")
			return
		}
	}
}

// RunCycle performs one fetch-dedupe-insert pass and returns how many
// events were inserted. Paging stops on the feed's end-of-data marker or as
// soon as an already-stored event is seen: the feed is reverse-chronological,
// so everything past a known event is already stored.
func (s *Service) RunCycle(ctx context.Context) (int, error) {
	var queue []models.Event

page:
	for page := 1; ; page++ {
		s.logger.WithField("page", page).Info("Requesting page from github")
		events, err := s.fetcher.EventsPage(ctx, page)
		if errors.Is(err, github.ErrEndOfFeed) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to fetch events page %d: %w", page, err)
		}
		TotalPagesFetched.Inc()

		for i := range events {
			seen, err := s.store.HasEvent(ctx, events[i].ID)
			if err != nil {
				return 0, fmt.Errorf("failed to check event %s: %w", events[i].ID, err)
			}
			if seen {
				break page
			}
			queue = append(queue, events[i])
		}
	}

	s.logger.WithField("events", len(queue)).Info("Received events")

	inserted := 0
	for i := range queue {
		s.logger.WithField("event_id", queue[i].ID).Debug("Inserting event")
		err := s.store.InsertEvent(ctx, &queue[i])
		if errors.Is(err, db.ErrDuplicateEvent) {
			// Raced with another writer; the event is stored either way.
			TotalDuplicatesSkipped.Inc()
			s.logger.WithField("event_id", queue[i].ID).Warn("Event already stored, skipping")
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("failed to insert event %s: %w", queue[i].ID, err)
		}
		inserted++
		TotalEventsInserted.Inc()
	}

	return inserted, nil
}

// backoff returns the extra sleep added after n consecutive failed cycles.
func backoff(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	if n > 10 {
		return maxBackoff
	}
	d := time.Duration(1<<uint(n-1)) * time.Minute
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
