// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists brain snapshots in SQLite, keyed by brain name, and
// exports or imports them as YAML or JSON files.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/learning-chatbot/internal/brain"
	"github.com/pdiddy/learning-chatbot/pkg/types"
)

var (
	// ErrBrainNotFound is returned when no brain has the requested name.
	ErrBrainNotFound = errors.New("store: brain not found")

	// ErrExists is returned when an export would overwrite a file.
	ErrExists = errors.New("store: file already exists")
)

// Store manages the brain SQLite database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewStore opens or creates the database at cfg.Path and creates the schema
// if it does not exist. A nil logger discards everything.
func NewStore(cfg types.StoreConfig, logger *zap.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{db: db, logger: logger, now: time.Now}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS brains (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			decay_rate REAL NOT NULL,
			word_count INTEGER NOT NULL,
			word_value REAL NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS words (
			brain_id TEXT NOT NULL REFERENCES brains(id) ON DELETE CASCADE,
			word TEXT NOT NULL,
			topic_score REAL,
			last_score REAL,
			successor_count INTEGER NOT NULL,
			punctuation_count INTEGER NOT NULL,
			PRIMARY KEY (brain_id, word)
		)`,
		`CREATE TABLE IF NOT EXISTS successors (
			brain_id TEXT NOT NULL REFERENCES brains(id) ON DELETE CASCADE,
			word TEXT NOT NULL,
			next TEXT NOT NULL,
			rank INTEGER NOT NULL,
			PRIMARY KEY (brain_id, word, next)
		)`,
		`CREATE TABLE IF NOT EXISTS punctuation (
			brain_id TEXT NOT NULL REFERENCES brains(id) ON DELETE CASCADE,
			word TEXT NOT NULL,
			mark TEXT NOT NULL,
			rank INTEGER NOT NULL,
			PRIMARY KEY (brain_id, word, mark)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores snap under name, replacing any brain already saved there. The
// brain keeps its id and creation time across saves.
func (s *Store) Save(ctx context.Context, name string, snap types.BrainSnapshot) error {
	if name == "" {
		return errors.New("brain name is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UTC().Format(time.RFC3339Nano)

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM brains WHERE name = ?`, name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO brains (id, name, decay_rate, word_count, word_value, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, name, snap.DecayRate, snap.WordCount, snap.WordValue, now, now)
		if err != nil {
			return fmt.Errorf("inserting brain: %w", err)
		}
	case err != nil:
		return fmt.Errorf("looking up brain %s: %w", name, err)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE brains SET decay_rate = ?, word_count = ?, word_value = ?, updated_at = ? WHERE id = ?`,
			snap.DecayRate, snap.WordCount, snap.WordValue, now, id)
		if err != nil {
			return fmt.Errorf("updating brain: %w", err)
		}
		for _, table := range []string{"words", "successors", "punctuation"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE brain_id = ?`, id); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
	}

	if err := insertWords(ctx, tx, id, snap.Words); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing brain %s: %w", name, err)
	}

	s.logger.Info("saved brain",
		zap.String("brain", name),
		zap.String("id", id),
		zap.Int("words", len(snap.Words)))
	return nil
}

func insertWords(ctx context.Context, tx *sql.Tx, id string, words []types.WordRecord) error {
	wordStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO words (brain_id, word, topic_score, last_score, successor_count, punctuation_count)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing word insert: %w", err)
	}
	defer wordStmt.Close()

	succStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO successors (brain_id, word, next, rank) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing successor insert: %w", err)
	}
	defer succStmt.Close()

	punctStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO punctuation (brain_id, word, mark, rank) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing punctuation insert: %w", err)
	}
	defer punctStmt.Close()

	for _, rec := range words {
		_, err := wordStmt.ExecContext(ctx,
			id, rec.Word, rec.TopicScore, rec.LastScore, rec.SuccessorCount, rec.PunctuationCount)
		if err != nil {
			return fmt.Errorf("inserting word %q: %w", rec.Word, err)
		}
		for next, rank := range rec.Successors {
			if _, err := succStmt.ExecContext(ctx, id, rec.Word, next, rank); err != nil {
				return fmt.Errorf("inserting successor %q of %q: %w", next, rec.Word, err)
			}
		}
		for mark, rank := range rec.Punctuation {
			if _, err := punctStmt.ExecContext(ctx, id, rec.Word, mark, rank); err != nil {
				return fmt.Errorf("inserting punctuation %q of %q: %w", mark, rec.Word, err)
			}
		}
	}
	return nil
}

// Load returns the snapshot saved under name. Words come back sorted by
// surface text.
func (s *Store) Load(ctx context.Context, name string) (types.BrainSnapshot, error) {
	var (
		snap types.BrainSnapshot
		id   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, decay_rate, word_count, word_value FROM brains WHERE name = ?`, name,
	).Scan(&id, &snap.DecayRate, &snap.WordCount, &snap.WordValue)
	if errors.Is(err, sql.ErrNoRows) {
		return types.BrainSnapshot{}, fmt.Errorf("%w: %s", ErrBrainNotFound, name)
	}
	if err != nil {
		return types.BrainSnapshot{}, fmt.Errorf("loading brain %s: %w", name, err)
	}

	words, err := s.loadWords(ctx, id)
	if err != nil {
		return types.BrainSnapshot{}, err
	}
	snap.Words = words

	s.logger.Debug("loaded brain", zap.String("brain", name), zap.Int("words", len(words)))
	return snap, nil
}

func (s *Store) loadWords(ctx context.Context, id string) ([]types.WordRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, topic_score, last_score, successor_count, punctuation_count
		 FROM words WHERE brain_id = ? ORDER BY word`, id)
	if err != nil {
		return nil, fmt.Errorf("querying words: %w", err)
	}
	defer rows.Close()

	var (
		words []types.WordRecord
		index = make(map[string]int)
	)
	for rows.Next() {
		var (
			rec         types.WordRecord
			topic, last sql.NullFloat64
		)
		if err := rows.Scan(&rec.Word, &topic, &last, &rec.SuccessorCount, &rec.PunctuationCount); err != nil {
			return nil, fmt.Errorf("scanning word: %w", err)
		}
		if topic.Valid {
			rec.TopicScore = &topic.Float64
		}
		if last.Valid {
			rec.LastScore = &last.Float64
		}
		index[rec.Word] = len(words)
		words = append(words, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating words: %w", err)
	}

	err = s.loadRanks(ctx, `SELECT word, next, rank FROM successors WHERE brain_id = ?`, id,
		func(word, key string, rank int) error {
			i, ok := index[word]
			if !ok {
				return fmt.Errorf("successor row for unknown word %q", word)
			}
			if words[i].Successors == nil {
				words[i].Successors = make(map[string]int)
			}
			words[i].Successors[key] = rank
			return nil
		})
	if err != nil {
		return nil, err
	}

	err = s.loadRanks(ctx, `SELECT word, mark, rank FROM punctuation WHERE brain_id = ?`, id,
		func(word, key string, rank int) error {
			i, ok := index[word]
			if !ok {
				return fmt.Errorf("punctuation row for unknown word %q", word)
			}
			if words[i].Punctuation == nil {
				words[i].Punctuation = make(map[string]int)
			}
			words[i].Punctuation[key] = rank
			return nil
		})
	if err != nil {
		return nil, err
	}
	return words, nil
}

func (s *Store) loadRanks(ctx context.Context, query, id string, add func(word, key string, rank int) error) error {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("querying ranks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			word, key string
			rank      int
		)
		if err := rows.Scan(&word, &key, &rank); err != nil {
			return fmt.Errorf("scanning rank: %w", err)
		}
		if err := add(word, key, rank); err != nil {
			return err
		}
	}
	return rows.Err()
}

// List summarizes every stored brain, ordered by name.
func (s *Store) List(ctx context.Context) ([]types.BrainInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.name, b.word_count, b.created_at, b.updated_at,
			(SELECT count(*) FROM words w WHERE w.brain_id = b.id AND w.word NOT IN (?, ?))
		 FROM brains b ORDER BY b.name`,
		brain.StartWord, brain.EndWord)
	if err != nil {
		return nil, fmt.Errorf("listing brains: %w", err)
	}
	defer rows.Close()

	var infos []types.BrainInfo
	for rows.Next() {
		var (
			info             types.BrainInfo
			created, updated string
		)
		if err := rows.Scan(&info.ID, &info.Name, &info.WordCount, &created, &updated, &info.Words); err != nil {
			return nil, fmt.Errorf("scanning brain: %w", err)
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parsing created_at of brain %s: %w", info.Name, err)
		}
		if info.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parsing updated_at of brain %s: %w", info.Name, err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes the brain saved under name along with its words.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM brains WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting brain %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting brain %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrBrainNotFound, name)
	}
	s.logger.Info("deleted brain", zap.String("brain", name))
	return nil
}
