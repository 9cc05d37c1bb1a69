package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"parknn/pkg/core"
)

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("report: run not found")

// Run is one persisted classification run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Dataset   string
	Mode      string
	Metric    string
	K         int
	Workers   int
	TrainSize int
	QuerySize int
	Accuracy  float64
	Elapsed   time.Duration
}

// Prediction is one stored query outcome.
type Prediction struct {
	Index     int
	Actual    core.Label
	Predicted core.Label
}

// Store keeps runs and their predictions in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("pragma failed: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			dataset    TEXT NOT NULL,
			mode       TEXT NOT NULL,
			metric     TEXT NOT NULL,
			k          INTEGER NOT NULL,
			workers    INTEGER NOT NULL,
			train_size INTEGER NOT NULL,
			query_size INTEGER NOT NULL,
			accuracy   REAL NOT NULL,
			elapsed_ns INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS predictions (
			run_id    TEXT NOT NULL REFERENCES runs (id) ON DELETE CASCADE,
			idx       INTEGER NOT NULL,
			actual    TEXT NOT NULL,
			predicted TEXT NOT NULL,
			PRIMARY KEY (run_id, idx)
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs (created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	return nil
}

// SaveRun stores run together with its index-aligned predictions and
// returns the stored run with ID and CreatedAt filled in.
func (s *Store) SaveRun(ctx context.Context, run Run, truth, pred []core.Label) (Run, error) {
	if len(truth) != len(pred) {
		return Run{}, fmt.Errorf("report: %d labels vs %d predictions", len(truth), len(pred))
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, dataset, mode, metric, k, workers, train_size, query_size, accuracy, elapsed_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), run.Dataset, run.Mode, run.Metric, run.K, run.Workers,
		run.TrainSize, run.QuerySize, run.Accuracy, int64(run.Elapsed))
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO predictions (run_id, idx, actual, predicted) VALUES (?, ?, ?, ?)")
	if err != nil {
		return Run{}, err
	}
	defer stmt.Close()

	for i := range pred {
		if _, err := stmt.ExecContext(ctx, run.ID, i, string(truth[i]), string(pred[i])); err != nil {
			return Run{}, fmt.Errorf("insert prediction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, err
	}
	return run, nil
}

const runColumns = `id, created_at, dataset, mode, metric, k, workers, train_size, query_size, accuracy, elapsed_ns`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	var created, elapsed int64
	err := row.Scan(&r.ID, &created, &r.Dataset, &r.Mode, &r.Metric, &r.K, &r.Workers,
		&r.TrainSize, &r.QuerySize, &r.Accuracy, &elapsed)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = time.Unix(0, created)
	r.Elapsed = time.Duration(elapsed)
	return r, nil
}

// Runs lists stored runs, newest first. limit <= 0 lists all.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run returns a single run by id.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return r, err
}

// Predictions returns the stored predictions of a run in query order.
func (s *Store) Predictions(ctx context.Context, runID string) ([]Prediction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT idx, actual, predicted FROM predictions WHERE run_id = ? ORDER BY idx", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Prediction
	for rows.Next() {
		var p Prediction
		var actual, predicted string
		if err := rows.Scan(&p.Index, &actual, &predicted); err != nil {
			return nil, err
		}
		p.Actual, p.Predicted = core.Label(actual), core.Label(predicted)
		out = append(out, p)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
