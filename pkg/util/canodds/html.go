package canodds

import (
	"bytes"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/richard-senior/canodds/internal/logger"
	"github.com/richard-senior/canodds/pkg/transport"
)

// FetchStatsHTML downloads a page holding an all-time statistics table and parses it
func FetchStatsHTML(url string) ([]StatsRow, error) {
	logger.Info("Fetching team statistics from", url)
	body, err := transport.GetHtml(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	return ParseStatsHTML(bytes.NewReader(body))
}

// ParseStatsHTML reads the first table whose header row names both Team and Pts.
// Footnote markers are dropped from team names, which the CSV path leaves verbatim.
func ParseStatsHTML(r io.Reader) ([]StatsRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var rows []StatsRow
	found := false
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		trs := table.Find("tr")
		if trs.Length() == 0 {
			return true
		}
		var header []string
		trs.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			header = append(header, CleanCell(cell.Text()))
		})
		columns := indexColumns(header)
		if _, ok := columns["Team"]; !ok {
			return true
		}
		if _, ok := columns["Pts"]; !ok {
			return true
		}

		found = true
		trs.Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cell.Text())
			})
			if len(cells) == 0 {
				return
			}
			row := buildRow(columns, cells, len(rows))
			row.Team = CleanCell(row.Team)
			if row.Team == "" {
				return
			}
			rows = append(rows, row)
		})
		return false
	})

	if !found {
		return nil, fmt.Errorf("%w: no table with Team and Pts columns", ErrMissingResource)
	}
	logger.Info("Parsed team statistics rows from html:", len(rows))
	return rows, nil
}
