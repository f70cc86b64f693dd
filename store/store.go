// Package store keeps finished drafts in SQLite so they can be compared
// later.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/snakedraft/draft"
	"github.com/domino14/snakedraft/entity"
)

const InMemory = ":memory:"

var ErrNotFound = errors.New("draft not found")

const schema = `
CREATE TABLE IF NOT EXISTS drafts (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	participants INTEGER NOT NULL,
	rounds INTEGER NOT NULL,
	pool_fingerprint TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS rosters (
	draft_id TEXT NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
	seat INTEGER NOT NULL,
	name TEXT NOT NULL,
	policy TEXT NOT NULL,
	expected REAL NOT NULL,
	finish INTEGER NOT NULL,
	PRIMARY KEY (draft_id, seat)
);
CREATE TABLE IF NOT EXISTS picks (
	draft_id TEXT NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
	number INTEGER NOT NULL,
	round INTEGER NOT NULL,
	seat INTEGER NOT NULL,
	roster TEXT NOT NULL,
	policy TEXT NOT NULL,
	entity TEXT NOT NULL,
	category TEXT NOT NULL,
	score REAL NOT NULL,
	PRIMARY KEY (draft_id, number)
);`

type Store struct {
	db *sql.DB
}

// Summary describes one saved draft.
type Summary struct {
	ID              string
	CreatedAt       time.Time
	Participants    int
	Rounds          int
	PoolFingerprint string
}

// Finish is one roster's result in a saved draft.
type Finish struct {
	Seat     int
	Name     string
	Policy   string
	Expected float64
	Rank     int
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path != InMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	dsn := path
	if path != InMemory {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == InMemory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func busy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// Save writes a draft, its final standings and every pick, and returns the
// new draft's ID. A locked database is retried with backoff.
func (s *Store) Save(ctx context.Context, d *draft.Draft) (string, error) {
	id := uuid.NewString()
	err := retry.Do(
		func() error { return s.save(ctx, id, d) },
		retry.Context(ctx),
		retry.Attempts(5),
		retry.RetryIf(busy),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Msg("database-busy-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return "", err
	}
	log.Info().Str("draft", id).Int("picks", len(d.Picks())).Msg("saved-draft")
	return id, nil
}

func (s *Store) save(ctx context.Context, id string, d *draft.Draft) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO drafts (id, created_at, participants, rounds, pool_fingerprint) VALUES (?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), d.NumParticipants(), d.TotalRounds(),
		fmt.Sprintf("%016x", d.Pool().Fingerprint()))
	if err != nil {
		return err
	}
	for idx := 0; idx < d.NumParticipants(); idx++ {
		seat := d.Seat(idx)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO rosters (draft_id, seat, name, policy, expected, finish) VALUES (?, ?, ?, ?, ?, ?)`,
			id, idx, seat.Roster.Name(), seat.Policy.Name(), seat.Roster.ExpectedScore(), d.Rank(idx))
		if err != nil {
			return err
		}
	}
	for _, p := range d.Picks() {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO picks (draft_id, number, round, seat, roster, policy, entity, category, score)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.Number, p.Round, p.Seat, p.Roster, p.Policy, p.Entity.Name, string(p.Entity.Category), p.Entity.Score)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Drafts lists saved drafts, newest first.
func (s *Store) Drafts(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, participants, rounds, pool_fingerprint FROM drafts ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var sm Summary
		var created string
		if err := rows.Scan(&sm.ID, &created, &sm.Participants, &sm.Rounds, &sm.PoolFingerprint); err != nil {
			return nil, err
		}
		sm.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Picks returns a saved draft's picks in order.
func (s *Store) Picks(ctx context.Context, id string) ([]draft.Pick, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT number, round, seat, roster, policy, entity, category, score FROM picks WHERE draft_id = ? ORDER BY number`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []draft.Pick
	for rows.Next() {
		var p draft.Pick
		var cat string
		err := rows.Scan(&p.Number, &p.Round, &p.Seat, &p.Roster, &p.Policy, &p.Entity.Name, &cat, &p.Entity.Score)
		if err != nil {
			return nil, err
		}
		p.Entity.Category = entity.Category(cat)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Standings returns a saved draft's rosters by finishing rank.
func (s *Store) Standings(ctx context.Context, id string) ([]Finish, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT seat, name, policy, expected, finish FROM rosters WHERE draft_id = ? ORDER BY finish, seat`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Finish
	for rows.Next() {
		var f Finish
		if err := rows.Scan(&f.Seat, &f.Name, &f.Policy, &f.Expected, &f.Rank); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) exists(ctx context.Context, id string) error {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM drafts WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
