package canodds

import "fmt"

// Feature names as used when the classifier was trained
const (
	FeatureGoalsDif        = "goals_dif"
	FeatureGoalsDifL5      = "goals_dif_l5"
	FeatureGoalsSufDif     = "goals_suf_dif"
	FeatureGoalsSufDifL5   = "goals_suf_dif_l5"
	FeatureGamePointsDif   = "game_points_dif"
	FeatureGamePointsDifL5 = "game_points_dif_l5"
	FeatureIsGroupStage    = "is_group_stage"
)

// FeatureNames is the canonical column order of a FeatureVector
var FeatureNames = []string{
	FeatureGoalsDif,
	FeatureGoalsDifL5,
	FeatureGoalsSufDif,
	FeatureGoalsSufDifL5,
	FeatureGamePointsDif,
	FeatureGamePointsDifL5,
	FeatureIsGroupStage,
}

// FeatureVector holds home-minus-away differentials and the stage flag
type FeatureVector struct {
	GoalsDif        float64 `json:"goals_dif"`
	GoalsDifL5      float64 `json:"goals_dif_l5"`
	GoalsSufDif     float64 `json:"goals_suf_dif"`
	GoalsSufDifL5   float64 `json:"goals_suf_dif_l5"`
	GamePointsDif   float64 `json:"game_points_dif"`
	GamePointsDifL5 float64 `json:"game_points_dif_l5"`
	IsGroupStage    float64 `json:"is_group_stage"`
}

// DeriveFeatures computes home - away for each statistic; is_group_stage is 1 or 0
func DeriveFeatures(home, away TeamStatistics, isGroupStage bool) FeatureVector {
	stage := 0.0
	if isGroupStage {
		stage = 1
	}
	return FeatureVector{
		GoalsDif:        home.GoalsMean - away.GoalsMean,
		GoalsDifL5:      home.GoalsMeanL5 - away.GoalsMeanL5,
		GoalsSufDif:     home.GoalsSufMean - away.GoalsSufMean,
		GoalsSufDifL5:   home.GoalsSufMeanL5 - away.GoalsSufMeanL5,
		GamePointsDif:   home.GamePointsMean - away.GamePointsMean,
		GamePointsDifL5: home.GamePointsMeanL5 - away.GamePointsMeanL5,
		IsGroupStage:    stage,
	}
}

// Get returns the named feature
func (v FeatureVector) Get(name string) (float64, bool) {
	switch name {
	case FeatureGoalsDif:
		return v.GoalsDif, true
	case FeatureGoalsDifL5:
		return v.GoalsDifL5, true
	case FeatureGoalsSufDif:
		return v.GoalsSufDif, true
	case FeatureGoalsSufDifL5:
		return v.GoalsSufDifL5, true
	case FeatureGamePointsDif:
		return v.GamePointsDif, true
	case FeatureGamePointsDifL5:
		return v.GamePointsDifL5, true
	case FeatureIsGroupStage:
		return v.IsGroupStage, true
	}
	return 0, false
}

// Project lays the vector out in the given column order. Values are picked by
// name, so a manifest that omits or reorders columns gets the same numbers.
func (v FeatureVector) Project(order []string) ([]float64, error) {
	out := make([]float64, len(order))
	for i, name := range order {
		x, ok := v.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown feature %q", ErrComputation, name)
		}
		out[i] = x
	}
	return out, nil
}
