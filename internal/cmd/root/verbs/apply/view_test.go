package apply

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenhq/havenctl/internal/portfolio/query"
	"github.com/havenhq/havenctl/internal/portfolio/views"
)

func TestPrintAppliedViewSummary(t *testing.T) {
	t.Parallel()

	v := views.SavedView{
		ID:   "v-1",
		Name: "Voids by occupancy",
		State: views.WorkingState{
			Conditions: []query.Condition{
				{ColumnID: "status", Operator: query.OpEquals, Value: "Void"},
			},
			GroupBy: "region",
			Sort:    query.SortSpec{ColumnID: "occupancy", Direction: query.Ascending},
		},
	}

	var buf bytes.Buffer
	printAppliedView(&buf, v)

	out := buf.String()
	assert.Contains(t, out, `applied view "Voids by occupancy" (v-1)`)
	assert.Contains(t, out, "filters: 1")
	assert.Contains(t, out, "group by: region")
	assert.Contains(t, out, "sort: occupancy:asc")
}

func TestPrintAppliedViewOmitsUnsetParts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printAppliedView(&buf, views.SavedView{ID: "v-2", Name: "Plain"})
	require.Equal(t, "applied view \"Plain\" (v-2)\n", buf.String())
}
