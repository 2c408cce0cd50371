package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/richard-senior/canodds/internal/logger"
	"github.com/richard-senior/canodds/pkg/util/canodds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, logFile string) string {
	t.Helper()
	content := fmt.Sprintf("assets_path = %q\n\n[log]\noutput = \"f\"\nfile = %q\n", dir, logFile)
	path := filepath.Join(dir, "canodds.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Cleanup(func() { require.NoError(t, logger.SetLogOutput('c')) })
	return path
}

func TestRunClosesLogFileOnServerError(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "canodds.log")
	config := writeConfig(t, dir, logFile)

	assert.Equal(t, 1, run([]string{"-config", config, "-http", "no-port"}))

	logger.Error("written after close")
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Server error:")
	assert.NotContains(t, string(data), "written after close")
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	assert.Equal(t, 2, run([]string{"-bogus"}))
}

func TestRunImportLoadsCSVIntoSQLite(t *testing.T) {
	dir := t.TempDir()
	config := writeConfig(t, dir, filepath.Join(dir, "canodds.log"))
	csvPath := filepath.Join(dir, "stats.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Team,Pld,GF,GA,Pts\nMaroc,10,20,5,25\n"), 0o644))

	require.Equal(t, 0, runImport([]string{"-config", config, csvPath}))

	db, err := canodds.OpenStatsDB(canodds.StatsSourceSQLite, filepath.Join(dir, "canodds.db"))
	require.NoError(t, err)
	defer db.Close()
	table, err := canodds.LoadStatsDB(db)
	require.NoError(t, err)
	stats, err := table.Lookup("Maroc")
	require.NoError(t, err)
	assert.Equal(t, 2.0, stats.GoalsMean)
}

func TestRunImportNeedsOneSource(t *testing.T) {
	assert.Equal(t, 2, runImport(nil))
}
