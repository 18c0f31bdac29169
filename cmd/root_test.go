package cmd

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommand_TraceDB_ExportsTrace(t *testing.T) {
	// GIVEN a seeded run exporting its trace to a fresh SQLite file
	path := filepath.Join(t.TempDir(), "trace.db")
	setRunFlags(t, nil)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	rootCmd.SetArgs([]string{"run", "--seed", "3", "--log", "error", "-l", "10", "--trace-db", path})

	// WHEN the command executes
	require.NoError(t, rootCmd.Execute())

	// THEN the database holds one run with records at every trace level
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var runs, records int
	require.NoError(t, db.QueryRowContext(context.Background(),
		"SELECT COUNT(DISTINCT run_id), COUNT(*) FROM trace_records").Scan(&runs, &records))
	assert.Equal(t, 1, runs)
	assert.Greater(t, records, 0)

	var waits int
	require.NoError(t, db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM trace_records WHERE action = 'wait'").Scan(&waits))
	assert.Greater(t, waits, 0, "--trace-db without --trace records every action")
}
