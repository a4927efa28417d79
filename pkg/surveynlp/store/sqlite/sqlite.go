package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/internalerr"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/store"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	engine TEXT NOT NULL,
	input TEXT,
	registry_version TEXT,
	docs INTEGER NOT NULL,
	topics INTEGER NOT NULL,
	outliers INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);

CREATE TABLE IF NOT EXISTS run_topics (
	run_id TEXT NOT NULL,
	topic INTEGER NOT NULL,
	words TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, topic),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS run_rows (
	run_id TEXT NOT NULL,
	pos INTEGER NOT NULL,
	region TEXT,
	grp TEXT,
	question TEXT,
	response TEXT,
	response_clean TEXT,
	topic INTEGER NOT NULL,
	probability REAL,
	PRIMARY KEY(run_id, pos),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun writes the run in a single transaction.
func (s *sqliteStore) SaveRun(ctx context.Context, a store.Archive) error {
	if a.Run.ID == "" {
		return fmt.Errorf("save run: %w: empty id", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// children go with the cascade
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, a.Run.ID); err != nil {
		return err
	}

	const runStmt = `
INSERT INTO runs (id, created_at, engine, input, registry_version, docs, topics, outliers)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`
	r := a.Run
	if _, err := tx.ExecContext(ctx, runStmt,
		r.ID,
		r.CreatedAt.UTC().Format(timeLayout),
		r.Engine,
		r.Input,
		r.RegistryVersion,
		r.Docs,
		r.Topics,
		r.Outliers,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	topicStmt, err := tx.PrepareContext(ctx, `INSERT INTO run_topics (run_id, topic, words, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer topicStmt.Close()
	for _, t := range a.Topics {
		words, err := json.Marshal(t.Words)
		if err != nil {
			return err
		}
		if _, err := topicStmt.ExecContext(ctx, r.ID, t.TopicID, string(words), t.Count); err != nil {
			return fmt.Errorf("insert topic %d: %w", t.TopicID, err)
		}
	}

	rowStmt, err := tx.PrepareContext(ctx, `
INSERT INTO run_rows (run_id, pos, region, grp, question, response, response_clean, topic, probability)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer rowStmt.Close()
	for i, row := range a.Rows {
		prob := sql.NullFloat64{Float64: row.Probability, Valid: row.HasProbability}
		if _, err := rowStmt.ExecContext(ctx, r.ID, i,
			row.Region, row.Group, row.Question, row.Response, row.ResponseClean,
			row.TopicID, prob,
		); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadRun reads a run with its topics and rows.
func (s *sqliteStore) LoadRun(ctx context.Context, id string) (store.Archive, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, engine, input, registry_version, docs, topics, outliers
FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Archive{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Archive{}, err
	}

	a := store.Archive{Run: run}

	topicRows, err := s.db.QueryContext(ctx, `SELECT topic, words, count FROM run_topics WHERE run_id = ? ORDER BY topic`, id)
	if err != nil {
		return store.Archive{}, err
	}
	defer topicRows.Close()
	for topicRows.Next() {
		var (
			topic, count int
			wordsJSON    string
			words        []string
		)
		if err := topicRows.Scan(&topic, &wordsJSON, &count); err != nil {
			return store.Archive{}, err
		}
		if err := json.Unmarshal([]byte(wordsJSON), &words); err != nil {
			return store.Archive{}, fmt.Errorf("decode words of topic %d: %w", topic, err)
		}
		a.Topics = append(a.Topics, survey.NewTopicInfo(topic, words, count))
	}
	if err := topicRows.Err(); err != nil {
		return store.Archive{}, err
	}

	dataRows, err := s.db.QueryContext(ctx, `
SELECT region, grp, question, response, response_clean, topic, probability
FROM run_rows WHERE run_id = ? ORDER BY pos`, id)
	if err != nil {
		return store.Archive{}, err
	}
	defer dataRows.Close()
	for dataRows.Next() {
		var (
			r    survey.Row
			prob sql.NullFloat64
		)
		if err := dataRows.Scan(&r.Region, &r.Group, &r.Question, &r.Response, &r.ResponseClean, &r.TopicID, &prob); err != nil {
			return store.Archive{}, err
		}
		if prob.Valid {
			r.Probability = prob.Float64
			r.HasProbability = true
		}
		a.Rows = append(a.Rows, r)
	}
	return a, dataRows.Err()
}

// ListRuns returns run headers, newest first.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	query := `
SELECT id, created_at, engine, input, registry_version, docs, topics, outliers
FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r       store.Run
		created string
		input   sql.NullString
		version sql.NullString
	)
	if err := sc.Scan(&r.ID, &created, &r.Engine, &input, &version, &r.Docs, &r.Topics, &r.Outliers); err != nil {
		return store.Run{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return store.Run{}, fmt.Errorf("parse created_at of run %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	r.Input = input.String
	r.RegistryVersion = version.String
	return r, nil
}
