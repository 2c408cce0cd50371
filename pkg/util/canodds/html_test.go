package canodds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<html><body>
<table><tr><th>Year</th><th>Host</th></tr><tr><td>2025</td><td>Maroc</td></tr></table>
<table class="wikitable">
<tr><th>Rank</th><th>Team</th><th>Pld</th><th>W</th><th>D</th><th>L</th><th>GF</th><th>GA</th><th>Pts</th></tr>
<tr><td>1</td><td>Égypte<sup>[a]</sup></td><td>111</td><td>60</td><td>27</td><td>24</td><td>180</td><td>99</td><td>207</td></tr>
<tr><td>2</td><th>Nigeria</th><td>98</td><td>52</td><td>23</td><td>23</td><td>150</td><td>96</td><td>179</td></tr>
<tr><td colspan="9">Totals</td></tr>
</table>
</body></html>`

func TestParseStatsHTML(t *testing.T) {
	rows, err := ParseStatsHTML(strings.NewReader(sampleHTML))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Égypte", rows[0].Team)
	assert.Equal(t, 207.0, *rows[0].Pts)
	assert.Equal(t, "Nigeria", rows[1].Team)
	assert.Equal(t, 98.0, *rows[1].Pld)
	assert.Equal(t, 1, rows[1].Position)
}

func TestParseStatsHTMLWithoutStatsTable(t *testing.T) {
	_, err := ParseStatsHTML(strings.NewReader("<table><tr><th>Team</th></tr></table>"))
	assert.ErrorIs(t, err, ErrMissingResource)
}
