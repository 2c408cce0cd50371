package canodds

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCreateTableSQL(t *testing.T) {
	sql := generateCreateTableSQL(&StatsRow{})
	assert.True(t, strings.HasPrefix(sql, "CREATE TABLE IF NOT EXISTS team_stats ("))
	assert.Contains(t, sql, "team TEXT NOT NULL")
	assert.Contains(t, sql, "gf REAL")
	assert.Contains(t, sql, "PRIMARY KEY (position)")

	indexes := generateIndexSQL(&StatsRow{})
	assert.Equal(t, []string{"CREATE INDEX IF NOT EXISTS idx_team_stats_team ON team_stats(team)"}, indexes)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(StatsSourceSQLite, 3))
	assert.Equal(t, "$1, $2", placeholders(StatsSourcePostgres, 2))
}

func TestImportAndLoadSQLite(t *testing.T) {
	db, err := OpenStatsDB(StatsSourceSQLite, filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	defer db.Close()

	rank := 1
	rows := sampleRows()
	rows[0].Rank = &rank
	rows = append(rows, StatsRow{Team: "Tanzanie", Pld: Float(3), GF: Float(math.NaN())})
	require.NoError(t, ImportStats(db, StatsSourceSQLite, rows))

	table, err := LoadStatsDB(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"Maroc", "Comores", "Tanzanie"}, table.Teams())

	stats, err := table.Lookup("Maroc")
	require.NoError(t, err)
	assert.Equal(t, 2.0, stats.GoalsMean)
	loaded := table.Rows(1)[0]
	require.NotNil(t, loaded.Rank)
	assert.Equal(t, 1, *loaded.Rank)

	// a blank cell survives the round trip, an absent one stays absent
	tanzanie := table.Rows(3)[2]
	require.NotNil(t, tanzanie.GF)
	assert.True(t, math.IsNaN(*tanzanie.GF))
	assert.Nil(t, tanzanie.Pts)
	assert.Equal(t, DefaultTeamStatistics(), table.GetTeamStatistics("Tanzanie"))

	// a second import replaces the first
	require.NoError(t, ImportStats(db, StatsSourceSQLite, rows[:1]))
	table, err = LoadStatsDB(db)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestBlankCellMatchesCSVAcrossSources(t *testing.T) {
	rows, err := ParseStatsCSV(strings.NewReader("Team,Pld,GF,GA,Pts\nSoudan,30,,54,30\n"))
	require.NoError(t, err)

	db, err := OpenStatsDB(StatsSourceSQLite, filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, ImportStats(db, StatsSourceSQLite, rows))

	fromDB, err := LoadStatsDB(db)
	require.NoError(t, err)
	fromCSV := NewStatsTable(rows)

	_, csvErr := fromCSV.Lookup("Soudan")
	_, dbErr := fromDB.Lookup("Soudan")
	assert.ErrorIs(t, csvErr, ErrComputation)
	assert.ErrorIs(t, dbErr, ErrComputation)
	assert.Equal(t, fromCSV.GetTeamStatistics("Soudan"), fromDB.GetTeamStatistics("Soudan"))
}

func TestLoadStatsDBWithoutTable(t *testing.T) {
	db, err := OpenStatsDB(StatsSourceSQLite, filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = LoadStatsDB(db)
	assert.ErrorIs(t, err, ErrMissingResource)
}

func TestOpenStatsDBRejectsUnknownDriver(t *testing.T) {
	_, err := OpenStatsDB("mysql", "whatever")
	assert.Error(t, err)
}
