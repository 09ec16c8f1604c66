package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenhq/havenctl/internal/portfolio"
)

func exportAssets() []*portfolio.PropertyAsset {
	next := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	return []*portfolio.PropertyAsset{
		{
			ID: "m1", Type: portfolio.AssetTypeMaster,
			Address: `12 Harbour Road, "The Docks"`, Region: "South West",
			TotalUnits: 10, OccupiedUnits: 9, MonthlyRent: 8200.50,
			NextInspection: &next,
		},
		{
			ID: "m2", Type: portfolio.AssetTypeMaster,
			Address: "3 Alder Court", Region: "North West",
			TotalUnits: 6, OccupiedUnits: 2, MonthlyRent: 3100,
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xlsx")
	require.Error(t, err)
}

func TestDefaultFilename(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "properties_2026-08-31.csv", DefaultFilename(FormatCSV, at))
	assert.Equal(t, "properties_2026-08-31.html", DefaultFilename(FormatPrint, at))
}

func TestWriteCSVQuotesStringsNotNumbers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, FormatCSV, Request{
		Assets:  exportAssets(),
		Columns: []string{"address", "totalUnits", "monthlyRent"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Address","Total Units","Monthly Rent"`, lines[0])
	assert.Equal(t, `"12 Harbour Road, ""The Docks""",10,8200.5`, lines[1])
	assert.Equal(t, `"3 Alder Court",6,3100`, lines[2])
}

func TestWriteTSVStartsWithBOM(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, FormatTSV, Request{
		Assets:  exportAssets(),
		Columns: []string{"address", "totalUnits"},
	})
	require.NoError(t, err)

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimRight(string(out[3:]), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Address\tTotal Units", lines[0])
	assert.Equal(t, "12 Harbour Road, \"The Docks\"\t10", lines[1])
}

func TestWriteJSONKeyedByColumnID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, FormatJSON, Request{
		Assets:  exportAssets(),
		Columns: []string{"address", "occupancy", "nextInspection"},
	})
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "3 Alder Court", rows[1]["address"])
	assert.InDelta(t, 90.0, rows[0]["occupancy"].(float64), 0.001)
	assert.Nil(t, rows[1]["nextInspection"])
}

func TestWritePrintRendersTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, FormatPrint, Request{
		Assets:  exportAssets(),
		Columns: []string{"address", "region"},
		Title:   "Void Units",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>Void Units</title>")
	assert.Contains(t, out, "<th>Region</th>")
	assert.Contains(t, out, "2 properties")
	// template escaping keeps quotes safe in cells
	assert.Contains(t, out, "&#34;The Docks&#34;")
}

func TestWriteRejectsUnresolvableColumns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Write(&buf, FormatCSV, Request{
		Assets:  exportAssets(),
		Columns: []string{"ghost"},
	})
	require.Error(t, err)
}
