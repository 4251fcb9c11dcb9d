// Package archive persists run telemetry to SQLite: one row per run, one
// per generation, and a snapshot of the final population. The archive is
// observational; storage failures are surfaced to the caller, which logs
// and keeps searching.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/evomuse/evomuse/pkg/core"
	"github.com/evomuse/evomuse/pkg/errors"
)

// Store is a SQLite-backed run archive.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "evomuse.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to open archive database")
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db}
	if err := s.initDB(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.Unknown, "failed to initialize archive schema")
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.Unknown, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.Unknown, "failed to set synchronous pragma")
	}

	return s, nil
}

func (s *Store) initDB() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER
	);

	CREATE TABLE IF NOT EXISTS generations (
		run_id TEXT NOT NULL REFERENCES runs(id),
		generation INTEGER NOT NULL,
		best_score REAL NOT NULL,
		best_solution TEXT NOT NULL,
		recorded_at INTEGER NOT NULL,
		PRIMARY KEY (run_id, generation)
	);

	CREATE TABLE IF NOT EXISTS population (
		run_id TEXT NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		solution TEXT NOT NULL,
		score REAL NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// encodeSolution renders a solution for storage: the raw prompt for text,
// a JSON array for vectors.
func encodeSolution(solution core.Solution) (string, error) {
	if solution.Representation() == core.RepresentationText {
		return solution.Text(), nil
	}
	data, err := json.Marshal(solution.Vector())
	if err != nil {
		return "", errors.Wrap(err, errors.Unknown, "failed to encode solution vector")
	}
	return string(data), nil
}

// BeginRun records the start of a run.
func (s *Store) BeginRun(ctx context.Context, runID, mode string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, mode, started_at) VALUES (?, ?, ?)`,
		runID, mode, time.Now().Unix())
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "failed to record run start")
	}
	return nil
}

// RecordGeneration appends one generation's best result to the run.
func (s *Store) RecordGeneration(ctx context.Context, runID string, generation int, bestScore float64, best core.Solution) error {
	encoded, err := encodeSolution(best)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO generations (run_id, generation, best_score, best_solution, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, generation, bestScore, encoded, time.Now().Unix())
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "failed to record generation")
	}
	return nil
}

// RecordFinalPopulation snapshots the run's last population.
func (s *Store) RecordFinalPopulation(ctx context.Context, runID string, solutions []core.Solution, scores []float64) error {
	if len(solutions) != len(scores) {
		return errors.New(errors.InvalidInput, "solution and score counts differ")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "failed to begin population transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO population (run_id, position, solution, score) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "failed to prepare population insert")
	}
	defer stmt.Close()

	for i, solution := range solutions {
		encoded, err := encodeSolution(solution)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, i, encoded, scores[i]); err != nil {
			return errors.Wrap(err, errors.Unknown, "failed to record population member")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.Unknown, "failed to commit population snapshot")
	}
	return nil
}

// FinishRun stamps the run's completion time.
func (s *Store) FinishRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ? WHERE id = ?`,
		time.Now().Unix(), runID)
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "failed to record run finish")
	}
	return nil
}

// RunSummary is one archived run.
type RunSummary struct {
	ID         string
	Mode       string
	StartedAt  time.Time
	FinishedAt time.Time
	Finished   bool
}

// GenerationRecord is one archived generation result.
type GenerationRecord struct {
	Generation   int
	BestScore    float64
	BestSolution string
}

// Runs lists archived runs, most recent first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, started_at, finished_at FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to list runs")
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started int64
		var finished sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Mode, &started, &finished); err != nil {
			return nil, errors.Wrap(err, errors.Unknown, "failed to scan run row")
		}
		r.StartedAt = time.Unix(started, 0)
		if finished.Valid {
			r.FinishedAt = time.Unix(finished.Int64, 0)
			r.Finished = true
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Generations lists a run's archived generations in order.
func (s *Store) Generations(ctx context.Context, runID string) ([]GenerationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT generation, best_score, best_solution FROM generations WHERE run_id = ? ORDER BY generation`,
		runID)
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to list generations")
	}
	defer rows.Close()

	var records []GenerationRecord
	for rows.Next() {
		var rec GenerationRecord
		if err := rows.Scan(&rec.Generation, &rec.BestScore, &rec.BestSolution); err != nil {
			return nil, errors.Wrap(err, errors.Unknown, "failed to scan generation row")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
