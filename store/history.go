package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/egresslabs/egress/compare"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (runs + acceptances)
const historySchemaVersion = 1

// History is the append-only ledger of run outcomes and baseline
// acceptances, kept in a SQLite database alongside the artifact files.
//
// The ledger is an audit trail, not part of the comparison path: deleting
// it loses history but never affects regression detection.
type History struct {
	db *sql.DB
}

// OpenHistory creates or opens the ledger database at the given path.
// Applies required pragmas and the schema automatically; safe to call
// repeatedly.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}

	// SQLite supports a single writer; keep one connection to avoid
	// SQLITE_BUSY under concurrent sessions sharing a store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("open history: %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("open history: apply schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", historySchemaVersion)); err != nil {
		db.Close()
		return nil, fmt.Errorf("open history: set user_version: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the ledger database.
func (h *History) Close() error {
	if h.db == nil {
		return nil
	}
	return h.db.Close()
}

// RunRecord is one artifact outcome from one session run.
type RunRecord struct {
	RunID      string `json:"run_id"`
	Namespace  string `json:"namespace"`
	Artifact   string `json:"artifact"`
	Status     string `json:"status"`
	RecordedAt string `json:"recorded_at"`
}

// AcceptanceRecord is one baseline promotion.
type AcceptanceRecord struct {
	Namespace  string `json:"namespace"`
	Artifact   string `json:"artifact"`
	RunID      string `json:"run_id,omitempty"`
	AcceptedAt string `json:"accepted_at"`
}

// RecordRun appends one row per report to the ledger, all under a single
// transaction so a run is recorded completely or not at all.
func (h *History) RecordRun(ctx context.Context, runID, namespace string, reports compare.Reports) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range reports {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (run_id, namespace, artifact, status, recorded_at)
			VALUES (?, ?, ?, ?, ?)
		`, runID, namespace, r.Artifact, string(r.Status), now)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}
	return nil
}

// RecordAcceptance appends a baseline promotion to the ledger.
func (h *History) RecordAcceptance(ctx context.Context, namespace, name, runID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO acceptances (namespace, artifact, run_id, accepted_at)
		VALUES (?, ?, ?, ?)
	`, namespace, name, runID, now)
	if err != nil {
		return fmt.Errorf("record acceptance: %w", err)
	}
	return nil
}

// Runs returns the most recent run records, newest first. An empty
// namespace matches all namespaces; limit <= 0 means no limit.
func (h *History) Runs(ctx context.Context, namespace string, limit int) ([]RunRecord, error) {
	query := `
		SELECT run_id, namespace, artifact, status, recorded_at
		FROM runs
		WHERE (? = '' OR namespace = ?)
		ORDER BY id DESC
	`
	args := []any{namespace, namespace}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Namespace, &r.Artifact, &r.Status, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return records, nil
}

// Acceptances returns the most recent acceptance records, newest first.
// An empty namespace matches all namespaces; limit <= 0 means no limit.
func (h *History) Acceptances(ctx context.Context, namespace string, limit int) ([]AcceptanceRecord, error) {
	query := `
		SELECT namespace, artifact, run_id, accepted_at
		FROM acceptances
		WHERE (? = '' OR namespace = ?)
		ORDER BY id DESC
	`
	args := []any{namespace, namespace}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query acceptances: %w", err)
	}
	defer rows.Close()

	var records []AcceptanceRecord
	for rows.Next() {
		var r AcceptanceRecord
		if err := rows.Scan(&r.Namespace, &r.Artifact, &r.RunID, &r.AcceptedAt); err != nil {
			return nil, fmt.Errorf("scan acceptance: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query acceptances: %w", err)
	}
	return records, nil
}
