package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/query"
	"github.com/havenhq/havenctl/internal/portfolio/views"
)

func TestParseCondition(t *testing.T) {
	t.Parallel()

	cond, err := ParseCondition("status:equals:Void")
	require.NoError(t, err)
	assert.Equal(t, "status", cond.ColumnID)
	assert.Equal(t, query.OpEquals, cond.Operator)
	assert.Equal(t, "Void", cond.Value)

	cond, err = ParseCondition("complianceStatus:in:Non-Compliant,Expired")
	require.NoError(t, err)
	assert.Equal(t, []string{"Non-Compliant", "Expired"}, cond.Value)

	cond, err = ParseCondition("monthlyRent:between:1000,2000")
	require.NoError(t, err)
	assert.Equal(t, []any{"1000", "2000"}, cond.Value)

	cond, err = ParseCondition("nextInspection:isOverdue")
	require.NoError(t, err)
	assert.Nil(t, cond.Value)

	cond, err = ParseCondition("nextInspection:isDueWithin:30")
	require.NoError(t, err)
	assert.Equal(t, 30, cond.Value)
}

func TestParseConditionRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []string{
		"status",                     // no operator
		"ghost:equals:x",             // unknown column
		"status:like:Void",           // unknown operator
		"status:greaterThan:5",       // operator invalid for select column
		"status:equals",              // missing required value
		"monthlyRent:isTrue",         // boolean op on number column
	}
	for _, c := range cases {
		_, err := ParseCondition(c)
		assert.Error(t, err, c)
	}
}

func TestParseSort(t *testing.T) {
	t.Parallel()

	spec, err := ParseSort("monthlyRent:desc")
	require.NoError(t, err)
	assert.Equal(t, query.SortSpec{ColumnID: "monthlyRent", Direction: query.Descending}, spec)

	spec, err = ParseSort("address")
	require.NoError(t, err)
	assert.Equal(t, query.Ascending, spec.Direction)

	_, err = ParseSort("archived")
	require.Error(t, err, "archived is not sortable")

	_, err = ParseSort("address:sideways")
	require.Error(t, err)
}

func TestResolveOverlaysFlagsOnView(t *testing.T) {
	t.Parallel()

	mgr := views.NewManager()
	f := Flags{
		View:    "Void Units",
		Search:  "harbour",
		Filters: []string{"region:equals:South West"},
		Sort:    "monthlyRent:desc",
		GroupBy: "provider",
	}

	state, err := f.Resolve(mgr)
	require.NoError(t, err)

	assert.Equal(t, "harbour", state.SearchText)
	// the view's own condition plus the flag condition
	require.Len(t, state.Conditions, 2)
	assert.Equal(t, "status", state.Conditions[0].ColumnID)
	assert.Equal(t, "region", state.Conditions[1].ColumnID)
	assert.Equal(t, "monthlyRent", state.Sort.ColumnID)
	assert.Equal(t, "provider", state.GroupBy)
	assert.NotEmpty(t, state.VisibleColumns)
}

func TestResolveUnknownViewErrors(t *testing.T) {
	t.Parallel()

	mgr := views.NewManager()
	f := Flags{View: "nope"}
	_, err := f.Resolve(mgr)
	require.Error(t, err)
}

func TestRunPipelineOrder(t *testing.T) {
	t.Parallel()

	col, dropped := portfolio.NewCollection([]*portfolio.PropertyAsset{
		{
			ID: "m1", Type: portfolio.AssetTypeMaster, Address: "B House",
			Region: "North", Status: "Void", TotalUnits: 4, OccupiedUnits: 1,
		},
		{
			ID: "m2", Type: portfolio.AssetTypeMaster, Address: "A House",
			Region: "North", Status: "Void", TotalUnits: 2, OccupiedUnits: 2,
		},
		{
			ID: "m3", Type: portfolio.AssetTypeMaster, Address: "C House",
			Region: "South", Status: "Occupied", TotalUnits: 6, OccupiedUnits: 6,
		},
	})
	require.Zero(t, dropped)

	state := views.WorkingState{
		Conditions: []query.Condition{
			{ColumnID: "status", Operator: query.OpEquals, Value: "Void"},
		},
		Sort:    query.SortSpec{ColumnID: "address", Direction: query.Ascending},
		GroupBy: "region",
	}

	res := Run(col, state, time.Now())
	require.Len(t, res.Masters, 2)
	assert.Equal(t, "m2", res.Masters[0].ID)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "North", res.Groups[0].Value)
	assert.Equal(t, 2, res.Stats.FilteredCount)
	assert.Equal(t, 3, res.Stats.VoidCount)
}
