package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateEntry indicates the entry was already stored. Outbox replays
// treat it as success.
var ErrDuplicateEntry = errors.New("audit: entry already recorded")

// TimelineFilters narrows timeline reads. Zero values mean no filter.
type TimelineFilters struct {
	From     time.Time
	To       time.Time
	ActorID  string
	Resource string
	Action   string
}

// Store is the append-only sink plus the timeline read surface.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	Timeline(ctx context.Context, filters TimelineFilters, limit, offset int) ([]Entry, error)
	TimelineAll(ctx context.Context, filters TimelineFilters) ([]Entry, error)
}

// PGStore persists entries in the audit_entries table.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore returns a Store backed by the pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Append inserts one entry. The table carries a unique constraint over
// (resource, record_id, action, created_at) so at-least-once delivery stays
// idempotent.
func (s *PGStore) Append(ctx context.Context, entry Entry) error {
	if entry.Resource == "" || entry.RecordID == "" || entry.Action == "" || entry.ActorID == "" {
		return errors.New("audit: entry requires resource/record_id/action/actor_id")
	}
	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("audit: marshal details: %w", err)
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO audit_entries (resource, record_id, action, actor_id, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.Resource, entry.RecordID, entry.Action, entry.ActorID, detailsJSON, createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("audit: append entry: %w", err)
	}
	return nil
}

const timelineQuery = `
SELECT resource, record_id, action, actor_id, details, created_at
FROM audit_entries
WHERE ($1::timestamptz IS NULL OR created_at >= $1)
  AND ($2::timestamptz IS NULL OR created_at <= $2)
  AND ($3::text IS NULL OR actor_id = $3)
  AND ($4::text IS NULL OR resource = $4)
  AND ($5::text IS NULL OR action = $5)
ORDER BY created_at DESC`

// Timeline returns a window of entries, newest first.
func (s *PGStore) Timeline(ctx context.Context, filters TimelineFilters, limit, offset int) ([]Entry, error) {
	query := timelineQuery + `
OFFSET $6 LIMIT $7`
	rows, err := s.pool.Query(ctx, query,
		optionalTime(filters.From), optionalTime(filters.To),
		optionalText(filters.ActorID), optionalText(filters.Resource), optionalText(filters.Action),
		offset, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: timeline query: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// TimelineAll returns every matching entry, newest first.
func (s *PGStore) TimelineAll(ctx context.Context, filters TimelineFilters) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, timelineQuery,
		optionalTime(filters.From), optionalTime(filters.To),
		optionalText(filters.ActorID), optionalText(filters.Resource), optionalText(filters.Action))
	if err != nil {
		return nil, fmt.Errorf("audit: timeline query: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

type pgRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEntries(rows pgRows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			entry       Entry
			detailsJSON []byte
			createdAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&entry.Resource, &entry.RecordID, &entry.Action, &entry.ActorID, &detailsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("audit: scan entry: %w", err)
		}
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &entry.Details); err != nil {
				return nil, fmt.Errorf("audit: decode details: %w", err)
			}
		}
		if createdAt.Valid {
			entry.CreatedAt = createdAt.Time
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func optionalTime(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalText(value string) pgtype.Text {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}
