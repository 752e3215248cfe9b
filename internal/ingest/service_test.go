package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khonsulabs/projects/internal/db"
	"github.com/khonsulabs/projects/internal/digest"
	"github.com/khonsulabs/projects/internal/github"
	"github.com/khonsulabs/projects/internal/models"
)

// fakeFetcher serves canned pages; anything past the last page is the end
// of the feed, matching how GitHub stops returning event arrays.
type fakeFetcher struct {
	pages    [][]models.Event
	pageErrs map[int]error
	requests []int
}

func (f *fakeFetcher) EventsPage(ctx context.Context, page int) ([]models.Event, error) {
	f.requests = append(f.requests, page)
	if err, ok := f.pageErrs[page]; ok {
		return nil, err
	}
	if page > len(f.pages) {
		return nil, github.ErrEndOfFeed
	}
	return f.pages[page-1], nil
}

// memStore is an in-memory db.Store with injectable failures.
type memStore struct {
	events    map[string]models.Event
	order     []string
	hasErr    error
	insertErr map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		events:    make(map[string]models.Event),
		insertErr: make(map[string]error),
	}
}

func (m *memStore) HasEvent(ctx context.Context, id string) (bool, error) {
	if m.hasErr != nil {
		return false, m.hasErr
	}
	_, ok := m.events[id]
	return ok, nil
}

func (m *memStore) InsertEvent(ctx context.Context, event *models.Event) error {
	if err, ok := m.insertErr[event.ID]; ok {
		return err
	}
	if _, ok := m.events[event.ID]; ok {
		return db.ErrDuplicateEvent
	}
	m.events[event.ID] = *event
	m.order = append(m.order, event.ID)
	return nil
}

func (m *memStore) EventsByDateRange(ctx context.Context, from, to string) ([]db.DatedEvent, error) {
	var dated []db.DatedEvent
	for _, id := range m.order {
		evt := m.events[id]
		key := evt.DateKey()
		if key >= from && key < to {
			e := evt
			dated = append(dated, db.DatedEvent{DateKey: key, Event: &e})
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].DateKey < dated[j].DateKey
	})
	return dated, nil
}

func (m *memStore) seed(t *testing.T, events ...models.Event) {
	t.Helper()
	for i := range events {
		require.NoError(t, m.InsertEvent(context.Background(), &events[i]))
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

var eventSeq int

func testEvent(t *testing.T, kind string, createdAt time.Time) models.Event {
	t.Helper()
	eventSeq++
	return testEventFor(t, fmt.Sprintf("evt-%d", eventSeq), kind, "jon", "khonsulabs/bonsaidb", createdAt, nil)
}

func testEventFor(t *testing.T, id, kind, login, repoName string, createdAt time.Time, payload interface{}) models.Event {
	t.Helper()
	raw := json.RawMessage("{}")
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = encoded
	}
	return models.Event{
		ID:         id,
		Kind:       kind,
		Actor:      models.Actor{ID: 1, Login: login},
		Repository: models.Repository{ID: 2, Name: repoName},
		Payload:    raw,
		Public:     true,
		CreatedAt:  createdAt,
	}
}

func TestRunCycleInsertsNewEvents(t *testing.T) {
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{pages: [][]models.Event{
		{testEvent(t, models.KindPush, now), testEvent(t, models.KindIssues, now.Add(-time.Hour))},
	}}
	store := newMemStore()

	inserted, err := NewService(fetcher, store, time.Minute, testLogger()).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Len(t, store.events, 2)
	// Page 2 was requested and answered with end-of-feed.
	assert.Equal(t, []int{1, 2}, fetcher.requests)
}

func TestRunCycleIsIdempotent(t *testing.T) {
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	events := []models.Event{testEvent(t, models.KindPush, now), testEvent(t, models.KindPush, now.Add(-time.Hour))}
	fetcher := &fakeFetcher{pages: [][]models.Event{events}}
	store := newMemStore()
	service := NewService(fetcher, store, time.Minute, testLogger())

	inserted, err := service.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = service.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Len(t, store.events, 2)

	seen, err := store.HasEvent(context.Background(), events[0].ID)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestRunCyclePagingStopsAtKnownEvent(t *testing.T) {
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	known := testEvent(t, models.KindPush, now.Add(-24*time.Hour))
	older := testEvent(t, models.KindPush, now.Add(-25*time.Hour))

	store := newMemStore()
	store.seed(t, known)

	fetcher := &fakeFetcher{pages: [][]models.Event{
		{testEvent(t, models.KindPush, now)},
		// First event on page 2 is already stored; the older unknown event
		// after it is presumed stored and must not be inserted.
		{known, older},
		{testEvent(t, models.KindPush, now.Add(-48*time.Hour))},
	}}

	inserted, err := NewService(fetcher, store, time.Minute, testLogger()).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	seen, err := store.HasEvent(context.Background(), older.ID)
	require.NoError(t, err)
	assert.False(t, seen)
	// Page 3 was never requested.
	assert.Equal(t, []int{1, 2}, fetcher.requests)
}

func TestRunCycleSwallowsDuplicateInserts(t *testing.T) {
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	racing := testEvent(t, models.KindPush, now)
	other := testEvent(t, models.KindPush, now.Add(-time.Hour))

	store := newMemStore()
	store.insertErr[racing.ID] = db.ErrDuplicateEvent
	fetcher := &fakeFetcher{pages: [][]models.Event{{racing, other}}}

	inserted, err := NewService(fetcher, store, time.Minute, testLogger()).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestRunCycleFetchErrorAbortsCycle(t *testing.T) {
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{
		pages:    [][]models.Event{{testEvent(t, models.KindPush, now)}},
		pageErrs: map[int]error{2: github.NewFeedError(2, errors.New("connection refused"))},
	}
	store := newMemStore()

	inserted, err := NewService(fetcher, store, time.Minute, testLogger()).RunCycle(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, inserted)
	// Nothing is committed when the cycle dies while paging.
	assert.Empty(t, store.events)
}

func TestRunCycleStoreErrorAbortsCycle(t *testing.T) {
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	store.hasErr = errors.New("connection reset")
	fetcher := &fakeFetcher{pages: [][]models.Event{{testEvent(t, models.KindPush, now)}}}

	_, err := NewService(fetcher, store, time.Minute, testLogger()).RunCycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check event")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := newMemStore()
	service := NewService(fetcher, store, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ingestion loop did not stop after cancellation")
	}
}

func TestBackoffCaps(t *testing.T) {
	assert.Equal(t, time.Duration(0), backoff(0))
	assert.Equal(t, time.Minute, backoff(1))
	assert.Equal(t, 2*time.Minute, backoff(2))
	assert.Equal(t, maxBackoff, backoff(30))
}

// Full write-then-read scenario: two pages where the second page starts
// with a known event, then a digest over the stored window.
func TestIngestThenDigestScenario(t *testing.T) {
	day := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

	trackedPush := func(id string) models.Event {
		return testEventFor(t, id, models.KindPush, "jon", "khonsulabs/bonsaidb", day, models.PushPayload{
			Ref: "refs/heads/main",
			Commits: []models.Commit{
				{SHA: id + "-sha", Author: models.CommitAuthor{Email: "jon@khonsulabs.com"}},
			},
		})
	}
	forkPush := testEventFor(t, "fork-1", models.KindPush, "someone", "khonsulabs/opaque-ke", day, models.PushPayload{
		Ref: "refs/heads/main",
		Commits: []models.Commit{
			{SHA: "outsider-sha", Author: models.CommitAuthor{Email: "stranger@example.com"}},
		},
	})
	known := testEventFor(t, "known-1", models.KindPush, "jon", "khonsulabs/bonsaidb", day.Add(-24*time.Hour), nil)

	store := newMemStore()
	store.seed(t, known)

	fetcher := &fakeFetcher{pages: [][]models.Event{
		{trackedPush("push-1"), trackedPush("push-2"), forkPush},
		{known, testEventFor(t, "older-1", models.KindPush, "jon", "khonsulabs/bonsaidb", day.Add(-26*time.Hour), nil)},
	}}

	inserted, err := NewService(fetcher, store, time.Minute, testLogger()).RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	builder := digest.NewBuilder(store,
		[]string{"novifinancial/opaque-ke"},
		[]string{"jon@khonsulabs.com"},
		28, testLogger())
	days, err := builder.BuildRange(context.Background(), "2024-01-05", "2024-01-06")
	require.NoError(t, err)
	require.Len(t, days, 1)

	// The fork push by an outsider was stored but contributed nothing, so
	// only the tracked repository survives.
	require.Len(t, days[0].Repositories, 1)
	repo := days[0].Repositories["bonsaidb"]
	require.NotNil(t, repo)
	assert.Equal(t, 2, repo.CommitAuthors["jon"]["main"])
}
