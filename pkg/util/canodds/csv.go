package canodds

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var footnoteRegexp = regexp.MustCompile(`\[[^\]]*\]`)

// LoadStatsCSV reads the team statistics table from a CSV file
func LoadStatsCSV(path string) (*StatsTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingResource, err)
	}
	defer f.Close()
	rows, err := ParseStatsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return NewStatsTable(rows), nil
}

// ParseStatsCSV reads rows from CSV with a header line.
// Header names are trimmed; only the Team column is mandatory.
func ParseStatsCSV(r io.Reader) ([]StatsRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read csv header: %v", ErrMissingResource, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	columns := indexColumns(header)
	if _, ok := columns["Team"]; !ok {
		return nil, fmt.Errorf("%w: no Team column in header %v", ErrMissingResource, header)
	}

	var rows []StatsRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		rows = append(rows, buildRow(columns, record, len(rows)))
	}
	return rows, nil
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

// buildRow maps cells onto a StatsRow. A column missing from the header stays nil,
// a blank or unparseable cell becomes NaN. The team name is only trimmed.
func buildRow(columns map[string]int, cells []string, position int) StatsRow {
	cell := func(name string) (string, bool) {
		i, ok := columns[name]
		if !ok {
			return "", false
		}
		if i >= len(cells) {
			return "", true
		}
		return cells[i], true
	}
	number := func(name string) *float64 {
		s, ok := cell(name)
		if !ok {
			return nil
		}
		v := ParseNumber(s)
		return &v
	}

	row := StatsRow{Position: position}
	if s, ok := cell("Team"); ok {
		row.Team = strings.TrimSpace(s)
	}
	if s, ok := cell("Rank"); ok {
		if v := ParseNumber(s); !math.IsNaN(v) {
			rank := int(v)
			row.Rank = &rank
		}
	}
	row.Pld = number("Pld")
	row.W = number("W")
	row.D = number("D")
	row.L = number("L")
	row.GF = number("GF")
	row.GA = number("GA")
	row.Pts = number("Pts")
	return row
}

// CleanCell trims a cell and drops footnote markers such as [a] or [12]
func CleanCell(s string) string {
	return strings.TrimSpace(footnoteRegexp.ReplaceAllString(s, ""))
}

// ParseNumber parses a statistics cell, returning NaN when it holds no number.
// Thousands separators, a leading '=' on tied ranks and unicode minus signs are accepted.
func ParseNumber(s string) float64 {
	s = CleanCell(s)
	s = strings.TrimPrefix(s, "=")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "\u2212", "-")
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
