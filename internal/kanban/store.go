package kanban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Card is a tracked application on the board.
type Card struct {
	ID            string         `json:"id"`
	OpportunityID *string        `json:"opportunityId,omitempty"`
	Title         string         `json:"title"`
	Company       string         `json:"company"`
	Location      string         `json:"location"`
	Status        Status         `json:"status"`
	Deadline      *string        `json:"deadline,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	Tags          []string       `json:"tags"`
	History       []HistoryEntry `json:"history"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// HistoryEntry records one status change.
type HistoryEntry struct {
	From Status    `json:"from"`
	To   Status    `json:"to"`
	At   time.Time `json:"at"`
}

// Store persists cards. ErrCardNotFound is returned for unknown ids.
type Store interface {
	List(ctx context.Context) ([]Card, error)
	Get(ctx context.Context, id string) (*Card, error)
	Insert(ctx context.Context, c Card) (*Card, error)
	// UpdateStatus moves the card only if it is still in status from.
	UpdateStatus(ctx context.Context, id string, from, to Status, entry HistoryEntry) (*Card, error)
	SetNote(ctx context.Context, id, note string) (*Card, error)
}

// ErrCardNotFound is returned when no card has the requested id.
var ErrCardNotFound = errors.New("card not found")

// ErrStatusChanged is returned by UpdateStatus when the card left the
// expected status in the meantime.
var ErrStatusChanged = errors.New("card status changed concurrently")

// Schema creates the tracker table when it does not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS tracker_cards (
    id             TEXT PRIMARY KEY,
    opportunity_id TEXT,
    title          TEXT NOT NULL,
    company        TEXT NOT NULL,
    location       TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL CHECK (status IN ('saved','draft','applied','interview','offer','rejected')),
    deadline       TEXT,
    notes          TEXT,
    tags           TEXT[] NOT NULL DEFAULT '{}',
    history        JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const cardColumns = `id, opportunity_id, title, company, location, status,
	deadline, notes, tags, history, created_at, updated_at`

// PostgresStore is a Store backed by a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a store using pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies Schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate tracker_cards: %w", err)
	}
	return nil
}

// List returns every card, most recently updated first.
func (s *PostgresStore) List(ctx context.Context) ([]Card, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+cardColumns+` FROM tracker_cards ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list cards query: %w", err)
	}
	defer rows.Close()

	cards := make([]Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("list cards scan: %w", err)
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Card, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+cardColumns+` FROM tracker_cards WHERE id = $1`, id)
	return oneCard(row, "get card")
}

func (s *PostgresStore) Insert(ctx context.Context, c Card) (*Card, error) {
	history, err := json.Marshal(c.History)
	if err != nil {
		return nil, fmt.Errorf("insert card: %w", err)
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO tracker_cards (id, opportunity_id, title, company, location, status, deadline, tags, history)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		 RETURNING `+cardColumns,
		c.ID, c.OpportunityID, c.Title, c.Company, c.Location, string(c.Status), c.Deadline, c.Tags, string(history),
	)
	return oneCard(row, "insert card")
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, from, to Status, entry HistoryEntry) (*Card, error) {
	historyEntry, err := json.Marshal([]HistoryEntry{entry})
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	row := s.pool.QueryRow(ctx,
		`UPDATE tracker_cards
		 SET status     = $1,
		     history    = history || $2::jsonb,
		     updated_at = NOW()
		 WHERE id = $3 AND status = $4
		 RETURNING `+cardColumns,
		string(to), string(historyEntry), id, string(from),
	)
	card, err := oneCard(row, "update status")
	if errors.Is(err, ErrCardNotFound) {
		return nil, ErrStatusChanged
	}
	return card, err
}

func (s *PostgresStore) SetNote(ctx context.Context, id, note string) (*Card, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tracker_cards SET notes = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+cardColumns,
		note, id,
	)
	return oneCard(row, "set note")
}

func oneCard(row pgx.Row, op string) (*Card, error) {
	c, err := scanCard(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func scanCard(row pgx.Row) (*Card, error) {
	var (
		c      Card
		status string
	)
	if err := row.Scan(
		&c.ID, &c.OpportunityID, &c.Title, &c.Company, &c.Location, &status,
		&c.Deadline, &c.Notes, &c.Tags, &c.History, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Status = Status(status)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.History == nil {
		c.History = []HistoryEntry{}
	}
	return &c, nil
}
