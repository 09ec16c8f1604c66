package tableview

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/views"
)

func browserFixture(t *testing.T) Browser {
	t.Helper()
	col, dropped := portfolio.NewCollection([]*portfolio.PropertyAsset{
		{
			ID: "m1", Type: portfolio.AssetTypeMaster, Address: "12 Harbour Road",
			Region: "South West", Status: "Occupied", TotalUnits: 2, OccupiedUnits: 1,
			MonthlyRent: 1500,
		},
		{
			ID: "u1", Type: portfolio.AssetTypeUnit, ParentID: "m1",
			Address: "12 Harbour Road, Flat 1",
		},
	})
	require.Zero(t, dropped)
	return Browser{
		Collection: col,
		Manager:    views.NewManager(),
		Title:      "Properties",
		Now:        time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderStaticNonTTY(t *testing.T) {
	t.Parallel()

	b := browserFixture(t)
	var buf bytes.Buffer
	require.NoError(t, b.renderStatic(&buf))

	out := buf.String()
	assert.Contains(t, out, "Properties")
	assert.Contains(t, out, "12 Harbour Road")
	assert.Contains(t, out, "1 properties")
	assert.Contains(t, out, "1 void")
}

func TestStaticTableAlignsColumns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := StaticTable(&buf, "", []string{"Address", "Status"}, [][]string{
		{"12 Harbour Road", "Occupied"},
		{"3 Alder Ct", "Void"},
	}, "")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	// status column starts at the same offset on every line
	assert.Equal(t, strings.Index(lines[1], "Occupied"), strings.Index(lines[2], "Void"))
}

func TestCellText(t *testing.T) {
	t.Parallel()

	d := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-09-20", cellText(&d))
	assert.Equal(t, "", cellText((*time.Time)(nil)))
	assert.Equal(t, "yes", cellText(true))
	assert.Equal(t, "12", cellText(12))
	assert.Equal(t, "87.5", cellText(87.5))
	assert.Equal(t, "90", cellText(90.0))
}

func TestModelSelectionAndExpansion(t *testing.T) {
	t.Parallel()

	m := newModel(browserFixture(t), 120, 40)
	require.Len(t, m.rows, 1, "units start collapsed")

	// space selects the master under the cursor
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(*model)
	assert.Equal(t, 1, m.sel.Len())
	assert.True(t, m.sel.Contains("m1"))

	// enter expands it, revealing the unit row
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*model)
	require.Len(t, m.rows, 2)

	// search narrows to nothing
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = updated.(*model)
	require.True(t, m.searching)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")})
	m = updated.(*model)
	assert.Empty(t, m.result.Masters)
}

func TestModelCopyIDUsesClipboard(t *testing.T) {
	var copied string
	orig := clipboardWriteFn
	clipboardWriteFn = func(s string) error {
		copied = s
		return nil
	}
	defer func() { clipboardWriteFn = orig }()

	m := newModel(browserFixture(t), 120, 40)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = updated.(*model)

	assert.Equal(t, "m1", copied)
	assert.Contains(t, m.status, "copied m1")
}
