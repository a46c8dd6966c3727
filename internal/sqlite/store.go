// File path: internal/sqlite/store.go

// Package sqlite records completed assembly runs and their emitted agreement
// rows so the API can answer run and agreement queries after the fact.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store wraps a pooled sqlx.DB connection to the SQLite catalog.
type Store struct {
	db *sqlx.DB
}

// RunRecord summarizes one completed assembly run.
type RunRecord struct {
	ID          string    `db:"id" json:"id"`
	StartedAt   time.Time `db:"started_at" json:"started_at"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
	InputRows   int       `db:"input_rows" json:"input_rows"`
	Emitted     int       `db:"emitted" json:"emitted"`
	Skipped     int       `db:"skipped" json:"skipped"`
	OutputKey   string    `db:"output_key" json:"output_key"`
}

// AgreementRecord is the catalog projection of one emitted agreement.
type AgreementRecord struct {
	AgreementID   string    `db:"agreement_id" json:"agreement_id"`
	RunID         string    `db:"run_id" json:"run_id"`
	ApplicationID string    `db:"application_id" json:"application_id"`
	ClientID      string    `db:"client_id" json:"client_id"`
	ClientName    string    `db:"client_name" json:"client_name"`
	TemplateID    string    `db:"template_id" json:"template_id"`
	TemplateName  string    `db:"template_name" json:"template_name"`
	LoanType      string    `db:"loan_type" json:"loan_type"`
	LoanAmount    string    `db:"loan_amount" json:"loan_amount"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Open constructs a Store backed by the SQLite database at the provided path.
// The schema is migrated on first use.
func Open(path string) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		cfg.Path = trimmed
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig constructs a Store using the provided configuration.
func OpenWithConfig(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path required")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite path: %w", err)
	}
	busy := int(cfg.BusyTimeout / time.Millisecond)
	if busy <= 0 {
		busy = 5000
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", abs, busy)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BusyTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// RecordRun persists a run summary together with its agreement rows.
func (s *Store) RecordRun(ctx context.Context, run RunRecord, agreements []AgreementRecord) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin record run: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO runs (id, started_at, completed_at, input_rows, emitted, skipped, output_key)
		VALUES (:id, :started_at, :completed_at, :input_rows, :emitted, :skipped, :output_key)`, run); err != nil {
		tx.Rollback()
		return fmt.Errorf("insert run: %w", err)
	}
	for _, agreement := range agreements {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO agreements (agreement_id, run_id, application_id, client_id, client_name,
				template_id, template_name, loan_type, loan_amount, status, created_at)
			VALUES (:agreement_id, :run_id, :application_id, :client_id, :client_name,
				:template_id, :template_name, :loan_type, :loan_amount, :status, :created_at)`, agreement); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert agreement %s: %w", agreement.AgreementID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record run: %w", err)
	}
	return nil
}

// RecentRuns lists runs newest first, bounded by limit.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	if limit <= 0 {
		limit = 20
	}
	var runs []RunRecord
	err := s.db.SelectContext(ctx, &runs, `
		SELECT id, started_at, completed_at, input_rows, emitted, skipped, output_key
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return runs, nil
}

// Agreements lists the agreements of one run, or of all runs when runID is
// blank.
func (s *Store) Agreements(ctx context.Context, runID string) ([]AgreementRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var agreements []AgreementRecord
	var err error
	if strings.TrimSpace(runID) == "" {
		err = s.db.SelectContext(ctx, &agreements, `
			SELECT agreement_id, run_id, application_id, client_id, client_name,
				template_id, template_name, loan_type, loan_amount, status, created_at
			FROM agreements ORDER BY created_at DESC`)
	} else {
		err = s.db.SelectContext(ctx, &agreements, `
			SELECT agreement_id, run_id, application_id, client_id, client_name,
				template_id, template_name, loan_type, loan_amount, status, created_at
			FROM agreements WHERE run_id = ? ORDER BY created_at DESC`, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("select agreements: %w", err)
	}
	return agreements, nil
}

var schemaStatements = []string{
	`PRAGMA journal_mode = WAL;`,
	`PRAGMA foreign_keys = ON;`,
	`CREATE TABLE IF NOT EXISTS runs (
                id TEXT PRIMARY KEY,
                started_at DATETIME NOT NULL,
                completed_at DATETIME NOT NULL,
                input_rows INTEGER NOT NULL DEFAULT 0,
                emitted INTEGER NOT NULL DEFAULT 0,
                skipped INTEGER NOT NULL DEFAULT 0,
                output_key TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS agreements (
                agreement_id TEXT PRIMARY KEY,
                run_id TEXT NOT NULL,
                application_id TEXT NOT NULL,
                client_id TEXT,
                client_name TEXT,
                template_id TEXT,
                template_name TEXT,
                loan_type TEXT,
                loan_amount TEXT,
                status TEXT NOT NULL,
                created_at DATETIME NOT NULL,
                FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
        );`,
	`CREATE INDEX IF NOT EXISTS idx_agreements_run ON agreements(run_id);`,
	`CREATE INDEX IF NOT EXISTS idx_agreements_application ON agreements(application_id);`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`,
}
