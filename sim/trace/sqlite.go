package trace

import (
	"context"
	"database/sql"
	"fmt"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS trace_records (
	run_id     TEXT    NOT NULL,
	seq        INTEGER NOT NULL,
	clock      REAL    NOT NULL,
	process_id INTEGER NOT NULL,
	kind       TEXT    NOT NULL,
	process    TEXT    NOT NULL,
	action     TEXT    NOT NULL,
	resource   TEXT    NOT NULL,
	PRIMARY KEY (run_id, seq)
)`

const insertSQL = `INSERT INTO trace_records
	(run_id, seq, clock, process_id, kind, process, action, resource)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const selectSQL = `SELECT seq, clock, process_id, kind, process, action, resource
	FROM trace_records WHERE run_id = ? ORDER BY seq`

// NewRunID returns a globally unique identifier for one exported run, so
// several runs can share a database.
func NewRunID() string {
	return xid.New().String()
}

// ExportSQLite writes every record of st under runID in one transaction,
// creating the trace_records table if needed.
func ExportSQLite(ctx context.Context, db *sql.DB, runID string, st *SimulationTrace) error {
	if st == nil {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin trace export: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create trace table: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("prepare trace insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range st.Records {
		if _, err := stmt.ExecContext(ctx, runID, r.Seq, r.Clock, r.ProcessID, r.Kind, r.Process, r.Action, r.Resource); err != nil {
			return fmt.Errorf("insert trace record %d: %w", r.Seq, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trace export: %w", err)
	}
	return nil
}

// ReadSQLite loads the records of runID in trace order.
func ReadSQLite(ctx context.Context, db *sql.DB, runID string) ([]Record, error) {
	rows, err := db.QueryContext(ctx, selectSQL, runID)
	if err != nil {
		return nil, fmt.Errorf("query trace records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Seq, &r.Clock, &r.ProcessID, &r.Kind, &r.Process, &r.Action, &r.Resource); err != nil {
			return nil, fmt.Errorf("scan trace record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// WriteSQLiteFile opens (or creates) the database at path and exports st.
func WriteSQLiteFile(ctx context.Context, path, runID string, st *SimulationTrace) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open trace database %s: %w", path, err)
	}
	defer db.Close()
	return ExportSQLite(ctx, db, runID, st)
}
