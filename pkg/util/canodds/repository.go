package canodds

import (
	"errors"
	"fmt"
	"strings"

	"github.com/richard-senior/canodds/internal/logger"
)

// StatsTable is an immutable, name indexed view over the team statistics rows.
// A nil *StatsTable stands for a table that failed to load.
type StatsTable struct {
	rows  []StatsRow
	index map[string]int
}

// NewStatsTable indexes rows by their trimmed team name; the first duplicate wins.
// The rows are deep copied so later writes by the caller cannot reach the table.
func NewStatsTable(rows []StatsRow) *StatsTable {
	t := &StatsTable{
		rows:  make([]StatsRow, len(rows)),
		index: make(map[string]int, len(rows)),
	}
	for i := range rows {
		t.rows[i] = rows[i].clone()
	}
	for i := range t.rows {
		name := strings.TrimSpace(t.rows[i].Team)
		if _, seen := t.index[name]; !seen {
			t.index[name] = i
		}
	}
	return t
}

// Len returns the number of rows, zero for an unavailable table
func (t *StatsTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a deep copy of the first limit rows; limit < 1 returns all of them
func (t *StatsTable) Rows(limit int) []StatsRow {
	if t == nil {
		return []StatsRow{}
	}
	n := len(t.rows)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]StatsRow, n)
	for i := range out {
		out[i] = t.rows[i].clone()
	}
	return out
}

// Teams lists the trimmed team names in table order
func (t *StatsTable) Teams() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.rows))
	for _, r := range t.rows {
		names = append(names, strings.TrimSpace(r.Team))
	}
	return names
}

// Lookup finds a team by exact, case sensitive name after trimming whitespace.
// Errors wrap ErrMissingResource, ErrUnknownTeam or ErrComputation.
func (t *StatsTable) Lookup(team string) (TeamStatistics, error) {
	if t == nil {
		return TeamStatistics{}, fmt.Errorf("%w: team statistics table not loaded", ErrMissingResource)
	}
	i, ok := t.index[strings.TrimSpace(team)]
	if !ok {
		return TeamStatistics{}, fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}
	return t.rows[i].Statistics()
}

// GetTeamStatistics never fails; any Lookup error yields DefaultTeamStatistics
func (t *StatsTable) GetTeamStatistics(team string) TeamStatistics {
	stats, err := t.Lookup(team)
	if err != nil {
		if errors.Is(err, ErrUnknownTeam) {
			logger.Debug("No statistics for team, using defaults:", team)
		} else {
			logger.Warn("Team statistics unavailable, using defaults:", team, err)
		}
		return DefaultTeamStatistics()
	}
	return stats
}
