package canodds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupTrimsButIsCaseSensitive(t *testing.T) {
	table := NewStatsTable([]StatsRow{
		{Team: " Maroc ", Pld: Float(4), GF: Float(8), GA: Float(2), Pts: Float(10)},
	})

	stats, err := table.Lookup("Maroc  ")
	require.NoError(t, err)
	assert.Equal(t, 2.0, stats.GoalsMean)

	_, err = table.Lookup("maroc")
	assert.ErrorIs(t, err, ErrUnknownTeam)
}

func TestLookupOnUnavailableTable(t *testing.T) {
	var table *StatsTable
	_, err := table.Lookup("Maroc")
	assert.ErrorIs(t, err, ErrMissingResource)
	assert.Equal(t, DefaultTeamStatistics(), table.GetTeamStatistics("Maroc"))
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Rows(5))
	assert.Nil(t, table.Teams())
}

func TestGetTeamStatisticsDefaults(t *testing.T) {
	table := NewStatsTable([]StatsRow{
		{Team: "Angola", Pld: Float(2), GF: Float(math.NaN()), GA: Float(1), Pts: Float(1)},
	})
	assert.Equal(t, DefaultTeamStatistics(), table.GetTeamStatistics("Angola"))
	assert.Equal(t, DefaultTeamStatistics(), table.GetTeamStatistics("Atlantis"))
}

func TestDuplicateTeamFirstRowWins(t *testing.T) {
	table := NewStatsTable([]StatsRow{
		{Team: "Bénin", Pld: Float(1), GF: Float(1), GA: Float(1), Pts: Float(1)},
		{Team: "Bénin", Pld: Float(1), GF: Float(9), GA: Float(9), Pts: Float(9)},
	})
	stats, err := table.Lookup("Bénin")
	require.NoError(t, err)
	assert.Equal(t, 1.0, stats.GoalsMean)
	assert.Equal(t, 2, table.Len())
}

func TestRowsLimitAndCopy(t *testing.T) {
	table := NewStatsTable(sampleRows())

	rows := table.Rows(1)
	require.Len(t, rows, 1)
	assert.Equal(t, "Maroc", rows[0].Team)
	assert.Len(t, table.Rows(0), 2)
	assert.Len(t, table.Rows(50), 2)

	rows[0].Team = "changed"
	assert.Equal(t, []string{"Maroc", "Comores"}, table.Teams())
}

func TestRowsCannotWriteThroughToTable(t *testing.T) {
	input := sampleRows()
	table := NewStatsTable(input)

	rows := table.Rows(1)
	*rows[0].GF = 999
	*input[0].Pld = 1

	stats, err := table.Lookup("Maroc")
	require.NoError(t, err)
	assert.Equal(t, 2.0, stats.GoalsMean)
	assert.Equal(t, 20.0, *table.Rows(1)[0].GF)
}
