package canodds

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTeamStatistics(t *testing.T) {
	assert.Equal(t, TeamStatistics{1.2, 1.2, 1.2, 1.2, 1.5, 1.5}, DefaultTeamStatistics())
}

func TestStatisticsPerMatchRates(t *testing.T) {
	row := StatsRow{Team: "Sénégal", Pld: Float(40), GF: Float(60), GA: Float(30), Pts: Float(70)}
	stats, err := row.Statistics()
	require.NoError(t, err)
	assert.InDelta(t, 1.5, stats.GoalsMean, 1e-9)
	assert.InDelta(t, 0.75, stats.GoalsSufMean, 1e-9)
	assert.InDelta(t, 1.75, stats.GamePointsMean, 1e-9)
	assert.Equal(t, stats.GoalsMean, stats.GoalsMeanL5)
	assert.Equal(t, stats.GoalsSufMean, stats.GoalsSufMeanL5)
	assert.Equal(t, stats.GamePointsMean, stats.GamePointsMeanL5)
}

func TestStatisticsGamesPlayedFallsBackToOne(t *testing.T) {
	for name, pld := range map[string]*float64{"zero": Float(0), "absent": nil, "blank": Float(math.NaN())} {
		t.Run(name, func(t *testing.T) {
			row := StatsRow{Team: "Botswana", Pld: pld, GF: Float(3), GA: Float(4), Pts: Float(2)}
			stats, err := row.Statistics()
			require.NoError(t, err)
			assert.Equal(t, 3.0, stats.GoalsMean)
			assert.Equal(t, 4.0, stats.GoalsSufMean)
			assert.Equal(t, 2.0, stats.GamePointsMean)
		})
	}
}

func TestStatisticsAbsentColumnUsesDefaultNumerator(t *testing.T) {
	row := StatsRow{Team: "Gabon", Pld: Float(2)}
	stats, err := row.Statistics()
	require.NoError(t, err)
	assert.InDelta(t, 0.6, stats.GoalsMean, 1e-9)
	assert.InDelta(t, 0.6, stats.GoalsSufMean, 1e-9)
	assert.InDelta(t, 0.75, stats.GamePointsMean, 1e-9)
}

func TestStatisticsRejectsMalformedCells(t *testing.T) {
	blank := StatsRow{Team: "Soudan", Pld: Float(3), GF: Float(math.NaN()), GA: Float(1), Pts: Float(1)}
	_, err := blank.Statistics()
	assert.ErrorIs(t, err, ErrComputation)

	negative := StatsRow{Team: "Soudan", Pld: Float(3), GF: Float(1), GA: Float(-1), Pts: Float(1)}
	_, err = negative.Statistics()
	assert.ErrorIs(t, err, ErrComputation)
}

func TestStatsRowMarshalSkipsBlankCells(t *testing.T) {
	rank := 3
	row := StatsRow{Rank: &rank, Team: " Mali ", Pld: Float(10), GF: Float(math.NaN())}
	data, err := json.Marshal(row)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Mali", decoded["Team"])
	assert.Equal(t, 3.0, decoded["Rank"])
	assert.Equal(t, 10.0, decoded["Pld"])
	assert.NotContains(t, decoded, "GF")
	assert.NotContains(t, decoded, "Pts")
}
