package canodds

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubClassifier returns fixed probabilities
type stubClassifier struct {
	proba  [2]float64
	err    error
	panics bool
	seen   [][]float64
}

func (s *stubClassifier) PredictProbabilities(x []float64) ([2]float64, error) {
	if s.panics {
		panic("stub classifier exploded")
	}
	s.seen = append(s.seen, append([]float64(nil), x...))
	return s.proba, s.err
}

// goalsDifClassifier is neutral for evenly matched sides and leans towards
// whichever side outscores the other by more than half a goal per game
func goalsDifClassifier() *GradientBoostingClassifier {
	return &GradientBoostingClassifier{
		NFeatures:    len(FeatureNames),
		LearningRate: 1,
		InitScore:    0,
		Trees: []Tree{{Nodes: []TreeNode{
			{Feature: 0, Threshold: 0.5, Left: 1, Right: 4},
			{Feature: 0, Threshold: -0.5, Left: 2, Right: 3},
			{Left: -1, Right: -1, Value: 0.5},
			{Left: -1, Right: -1, Value: 0},
			{Left: -1, Right: -1, Value: -0.5},
		}}},
	}
}

func sampleRows() []StatsRow {
	return []StatsRow{
		{Team: "Maroc", Pld: Float(10), GF: Float(20), GA: Float(5), Pts: Float(25)},
		{Team: "Comores", Pld: Float(10), GF: Float(5), GA: Float(20), Pts: Float(5)},
	}
}

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
