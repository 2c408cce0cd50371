package canodds

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Per-field numerators used when a statistics column is absent from a row
const (
	defaultGoalsFor     = 1.2
	defaultGoalsAgainst = 1.2
	defaultPoints       = 1.5
)

// TeamStatistics holds a team's per-match rates.
// The L5 fields nominally cover the last five games; the statistics table has no
// recency window so they carry the all-time rates.
type TeamStatistics struct {
	GoalsMean        float64 `json:"goals_mean"`
	GoalsMeanL5      float64 `json:"goals_mean_l5"`
	GoalsSufMean     float64 `json:"goals_suf_mean"`
	GoalsSufMeanL5   float64 `json:"goals_suf_mean_l5"`
	GamePointsMean   float64 `json:"game_points_mean"`
	GamePointsMeanL5 float64 `json:"game_points_mean_l5"`
}

// DefaultTeamStatistics is the record used whenever a lookup cannot produce real figures
func DefaultTeamStatistics() TeamStatistics {
	return TeamStatistics{
		GoalsMean:        1.2,
		GoalsMeanL5:      1.2,
		GoalsSufMean:     1.2,
		GoalsSufMeanL5:   1.2,
		GamePointsMean:   1.5,
		GamePointsMeanL5: 1.5,
	}
}

// StatsRow is one row of the all-time team statistics table.
// Numeric columns are pointers so that an absent cell differs from a zero.
type StatsRow struct {
	Position int      `json:"-" column:"position" dbtype:"INTEGER NOT NULL" primary:"true"`
	Rank     *int     `json:"Rank,omitempty" column:"rank" dbtype:"INTEGER"`
	Team     string   `json:"Team" column:"team" dbtype:"TEXT NOT NULL" index:"true"`
	Pld      *float64 `json:"Pld,omitempty" column:"pld" dbtype:"REAL"`
	W        *float64 `json:"W,omitempty" column:"w" dbtype:"REAL"`
	D        *float64 `json:"D,omitempty" column:"d" dbtype:"REAL"`
	L        *float64 `json:"L,omitempty" column:"l" dbtype:"REAL"`
	GF       *float64 `json:"GF,omitempty" column:"gf" dbtype:"REAL"`
	GA       *float64 `json:"GA,omitempty" column:"ga" dbtype:"REAL"`
	Pts      *float64 `json:"Pts,omitempty" column:"pts" dbtype:"REAL"`
}

// GetTableName returns the table name for team statistics
func (r *StatsRow) GetTableName() string {
	return "team_stats"
}

// Statistics derives per-match rates from the row.
// Games played defaults to 1 when absent, blank or zero. A blank GF, GA or Pts
// cell (NaN) is malformed data; an absent column uses the default numerator.
func (r *StatsRow) Statistics() (TeamStatistics, error) {
	pld := valueOr(r.Pld, 1)
	if pld == 0 || math.IsNaN(pld) {
		pld = 1
	}
	gf := valueOr(r.GF, defaultGoalsFor)
	ga := valueOr(r.GA, defaultGoalsAgainst)
	pts := valueOr(r.Pts, defaultPoints)

	for name, v := range map[string]float64{"Pld": pld, "GF": gf, "GA": ga, "Pts": pts} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return TeamStatistics{}, fmt.Errorf("%w: team %q has invalid %s value %v", ErrComputation, r.Team, name, v)
		}
	}

	goals := gf / pld
	conceded := ga / pld
	points := pts / pld
	return TeamStatistics{
		GoalsMean:        goals,
		GoalsMeanL5:      goals,
		GoalsSufMean:     conceded,
		GoalsSufMeanL5:   conceded,
		GamePointsMean:   points,
		GamePointsMeanL5: points,
	}, nil
}

// MarshalJSON leaves out absent and blank cells, encoding/json cannot encode NaN
func (r StatsRow) MarshalJSON() ([]byte, error) {
	out := map[string]any{"Team": strings.TrimSpace(r.Team)}
	if r.Rank != nil {
		out["Rank"] = *r.Rank
	}
	for name, v := range map[string]*float64{"Pld": r.Pld, "W": r.W, "D": r.D, "L": r.L, "GF": r.GF, "GA": r.GA, "Pts": r.Pts} {
		if v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
			out[name] = *v
		}
	}
	return json.Marshal(out)
}

// clone copies the row along with every pointed-to cell
func (r StatsRow) clone() StatsRow {
	out := r
	if r.Rank != nil {
		rank := *r.Rank
		out.Rank = &rank
	}
	for _, f := range []**float64{&out.Pld, &out.W, &out.D, &out.L, &out.GF, &out.GA, &out.Pts} {
		if *f != nil {
			*f = Float(**f)
		}
	}
	return out
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Float is a convenience for building rows in code
func Float(v float64) *float64 {
	return &v
}
