package db

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/khonsulabs/projects/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrDuplicateEvent is returned by InsertEvent when an event with the same
// id is already stored. Racing writers make this an expected condition, not
// corruption; callers must treat it as non-fatal.
var ErrDuplicateEvent = errors.New("event already stored")

// DatedEvent pairs an event with the ISO date key it is bucketed under.
type DatedEvent struct {
	DateKey string
	Event   *models.Event
}

// Store defines the persistence operations the pipeline needs: a point
// lookup for dedup, an idempotent insert, and a date-ordered range scan for
// the digest builder.
type Store interface {
	HasEvent(ctx context.Context, id string) (bool, error)
	InsertEvent(ctx context.Context, event *models.Event) error
	// EventsByDateRange returns events with from <= date key < to, ordered
	// by date ascending and by insertion order within a day.
	EventsByDateRange(ctx context.Context, from, to string) ([]DatedEvent, error)
}

// PostgresStore implements Store on a single events table with a unique id
// column and an indexed event_date column.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Migrate applies pending goose migrations from the embedded filesystem.
func (s *PostgresStore) Migrate() error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) HasEvent(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) InsertEvent(ctx context.Context, event *models.Event) error {
	actor, err := json.Marshal(event.Actor)
	if err != nil {
		return fmt.Errorf("failed to encode actor: %w", err)
	}
	repo, err := json.Marshal(event.Repository)
	if err != nil {
		return fmt.Errorf("failed to encode repository: %w", err)
	}

	payload := event.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, kind, actor, repository, payload, public, created_at, event_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID,
		event.Kind,
		actor,
		repo,
		[]byte(payload),
		event.Public,
		event.CreatedAt,
		event.DateKey())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("failed to insert event %s: %w", event.ID, err)
	}

	return nil
}

func (s *PostgresStore) EventsByDateRange(ctx context.Context, from, to string) ([]DatedEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(event_date, 'YYYY-MM-DD'), id, kind, actor, repository, payload, public, created_at
		FROM events
		WHERE event_date >= $1::date AND event_date < $2::date
		ORDER BY event_date ASC, seq ASC`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []DatedEvent
	for rows.Next() {
		var (
			dateKey              string
			evt                  models.Event
			actor, repo, payload []byte
		)
		if err := rows.Scan(&dateKey, &evt.ID, &evt.Kind, &actor, &repo, &payload, &evt.Public, &evt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := json.Unmarshal(actor, &evt.Actor); err != nil {
			return nil, fmt.Errorf("failed to decode actor for event %s: %w", evt.ID, err)
		}
		if err := json.Unmarshal(repo, &evt.Repository); err != nil {
			return nil, fmt.Errorf("failed to decode repository for event %s: %w", evt.ID, err)
		}
		evt.Payload = json.RawMessage(payload)
		events = append(events, DatedEvent{DateKey: dateKey, Event: &evt})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}
