package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	indexFile    = "index.db"

	// fixed width so created_at sorts as text
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store keeps one directory per run under baseDir and indexes runs in a
// SQLite database next to them.
type Store struct {
	baseDir string
	db      *sql.DB
}

func Open(ctx context.Context, baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(baseDir, indexFile)+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open run index: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{baseDir: baseDir, db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string                `json:"id"`
	Variant    string                `json:"variant"`
	Timestamp  time.Time             `json:"timestamp"`
	Seed       int64                 `json:"seed"`
	Dt         float64               `json:"dt"`
	Duration   float64               `json:"duration"`
	Batch      int                   `json:"batch"`
	Steps      int                   `json:"steps"`
	Integrator string                `json:"integrator"`
	Strict     bool                  `json:"strict,omitempty"`
	Stimulus   config.StimulusConfig `json:"stimulus"`
	Params     map[string]float64    `json:"params"`
	InitState  map[string]float64    `json:"init_state,omitempty"`
	Metrics    map[string]float64    `json:"metrics"`
	Warnings   int                   `json:"warnings"`
	Clipped    int                   `json:"clipped"`
}

// Save writes metadata.json and states.csv into a new run directory and
// indexes the run. It returns the run ID. On any failure the run directory
// is removed.
func (s *Store) Save(ctx context.Context, cfg *config.Config, result *experiment.Result) (_ string, err error) {
	runID := fmt.Sprintf("%s_%s", result.Variant, uuid.New().String()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	meta := RunMetadata{
		ID:         runID,
		Variant:    result.Variant,
		Timestamp:  time.Now().UTC(),
		Seed:       cfg.Seed,
		Dt:         result.Dt,
		Duration:   cfg.Duration,
		Batch:      result.Batch,
		Steps:      result.Steps,
		Integrator: result.Integrator,
		Strict:     cfg.Strict,
		Stimulus:   cfg.Stimulus,
		Params:     result.Params,
		InitState:  cfg.InitState,
		Metrics:    finiteMetrics(result.Metrics),
		Warnings:   result.Warnings,
		Clipped:    result.Clipped,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", fmt.Errorf("write states: %w", err)
	}

	if err := s.index(ctx, meta); err != nil {
		return "", err
	}
	return runID, nil
}

func writeStates(path string, result *experiment.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportCSV(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) index(ctx context.Context, meta RunMetadata) error {
	metrics, err := json.Marshal(meta.Metrics)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, variant, integrator, created_at, seed, dt, duration, batch, steps, warnings, clipped, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Variant, meta.Integrator, meta.Timestamp.Format(timeLayout),
		meta.Seed, meta.Dt, meta.Duration, meta.Batch, meta.Steps, meta.Warnings, meta.Clipped, string(metrics),
	)
	if err != nil {
		return fmt.Errorf("index run %s: %w", meta.ID, err)
	}
	return nil
}

// List returns indexed runs, newest first. A non-empty variant filters.
// Params and stimulus are only in metadata.json; use Load for them.
func (s *Store) List(ctx context.Context, variant string) ([]RunMetadata, error) {
	query := `SELECT id, variant, integrator, created_at, seed, dt, duration, batch, steps, warnings, clipped, metrics
		FROM runs`
	var args []any
	if variant != "" {
		query += ` WHERE variant = ?`
		args = append(args, variant)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var (
			meta      RunMetadata
			createdAt string
			metrics   sql.NullString
		)
		if err := rows.Scan(&meta.ID, &meta.Variant, &meta.Integrator, &createdAt, &meta.Seed,
			&meta.Dt, &meta.Duration, &meta.Batch, &meta.Steps, &meta.Warnings, &meta.Clipped, &metrics); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if meta.Timestamp, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("run %s timestamp: %w", meta.ID, err)
		}
		if metrics.Valid && metrics.String != "" {
			if err := json.Unmarshal([]byte(metrics.String), &meta.Metrics); err != nil {
				return nil, fmt.Errorf("run %s metrics: %w", meta.ID, err)
			}
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads a run's states.csv back.
func (s *Store) LoadStates(runID string) (*Trace, error) {
	file, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// StatesPath is the location of a run's states.csv.
func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, statesFile)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
