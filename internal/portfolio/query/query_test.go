package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenhq/havenctl/internal/portfolio"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func fixtureAssets() []*portfolio.PropertyAsset {
	return []*portfolio.PropertyAsset{
		{
			ID: "m1", Type: portfolio.AssetTypeMaster,
			Address: "12 Harbour Road", Postcode: "BS1 4DJ", Region: "South West",
			Provider: "Haven Living", HousingManager: "Priya Shah",
			Status: portfolio.StatusOccupied, ComplianceStatus: portfolio.ComplianceCompliant,
			TotalUnits: 10, OccupiedUnits: 9, MonthlyRent: 8200,
			NextInspection: date("2026-09-20"),
		},
		{
			ID: "m2", Type: portfolio.AssetTypeMaster,
			Address: "3 Alder Court", Postcode: "M4 5AB", Region: "North West",
			Provider: "Brightstone", HousingManager: "Tom Field",
			Status: portfolio.StatusVoid, ComplianceStatus: portfolio.ComplianceExpired,
			TotalUnits: 6, OccupiedUnits: 2, MonthlyRent: 3100,
			NextInspection: date("2026-08-01"),
		},
		{
			ID: "m3", Type: portfolio.AssetTypeMaster,
			Address: "88 Weaver Street", Postcode: "LS2 7EW", Region: "North West",
			Provider: "Haven Living", HousingManager: "Priya Shah",
			Status: portfolio.StatusOccupied, ComplianceStatus: portfolio.ComplianceNonCompliant,
			TotalUnits: 4, OccupiedUnits: 4, MonthlyRent: 2950,
		},
		{
			ID: "u1", Type: portfolio.AssetTypeUnit, ParentID: "m1",
			Address: "12 Harbour Road, Flat 1", Status: portfolio.StatusOccupied,
		},
		{
			ID: "u2", Type: portfolio.AssetTypeUnit, ParentID: "m1",
			Address: "12 Harbour Road, Flat 2", Status: portfolio.StatusVoid,
		},
		{
			ID: "u9", Type: portfolio.AssetTypeUnit, ParentID: "missing",
			Address: "1 Nowhere Lane",
		},
	}
}

func fixtureCollection(t *testing.T) *portfolio.Collection {
	t.Helper()
	c, dropped := portfolio.NewCollection(fixtureAssets())
	require.Zero(t, dropped)
	return c
}

func TestApplyPreservesOrderAndInput(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	masters := c.Masters()

	got := Apply(masters, "", []Condition{
		{ColumnID: "provider", Operator: OpEquals, Value: "haven living"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m3", got[1].ID)

	// input slice unchanged
	assert.Equal(t, "m1", masters[0].ID)
	assert.Equal(t, "m2", masters[1].ID)
	assert.Equal(t, "m3", masters[2].ID)
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	conds := []Condition{
		{ColumnID: "provider", Operator: OpEquals, Value: "Haven Living"},
		{ColumnID: "status", Operator: OpEquals, Value: portfolio.StatusOccupied},
	}

	once := Apply(c.Masters(), "priya", conds)
	twice := Apply(once, "priya", conds)
	require.Equal(t, once, twice)
	assert.Len(t, once, 2)
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	got := Apply(c.Masters(), "ALDER", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].ID)

	got = Apply(c.Masters(), "priya", nil)
	assert.Len(t, got, 2)
}

func TestApplyConditionsAreConjunctive(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	got := Apply(c.Masters(), "", []Condition{
		{ColumnID: "region", Operator: OpEquals, Value: "North West"},
		{ColumnID: "status", Operator: OpEquals, Value: portfolio.StatusVoid},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].ID)
}

func TestApplyUnknownColumnIsVacuouslyTrue(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	got := Apply(c.Masters(), "", []Condition{
		{ColumnID: "retiredColumn", Operator: OpEquals, Value: "x"},
	})
	assert.Len(t, got, 3)
}

func TestApplyNumericCoercionFailureFailsCondition(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	got := Apply(c.Masters(), "", []Condition{
		{ColumnID: "monthlyRent", Operator: OpGreaterThan, Value: "not-a-number"},
	})
	assert.Empty(t, got)
}

func TestApplyBetweenInclusive(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	got := Apply(c.Masters(), "", []Condition{
		{ColumnID: "monthlyRent", Operator: OpBetween, Value: []any{2950, 3100}},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].ID)
	assert.Equal(t, "m3", got[1].ID)
}

func TestApplyInMembership(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	got := Apply(c.Masters(), "", []Condition{
		{ColumnID: "complianceStatus", Operator: OpIn, Value: []string{
			portfolio.ComplianceNonCompliant, portfolio.ComplianceExpired,
		}},
	})
	assert.Len(t, got, 2)
}

func TestApplyDateOperatorsUseInjectedNow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	c := fixtureCollection(t)

	overdue := ApplyAt(c.Masters(), "", []Condition{
		{ColumnID: "nextInspection", Operator: OpIsOverdue},
	}, now)
	require.Len(t, overdue, 1)
	assert.Equal(t, "m2", overdue[0].ID)

	due := ApplyAt(c.Masters(), "", []Condition{
		{ColumnID: "nextInspection", Operator: OpIsDueWithin, Value: 40},
	}, now)
	require.Len(t, due, 1)
	assert.Equal(t, "m1", due[0].ID)

	// a date equal to today is not overdue
	today := ApplyAt([]*portfolio.PropertyAsset{{
		ID: "x", Type: portfolio.AssetTypeMaster, Address: "a",
		NextInspection: date("2026-08-15"),
	}}, "", []Condition{
		{ColumnID: "nextInspection", Operator: OpIsOverdue},
	}, now)
	assert.Empty(t, today)
}

func TestApplyIsEmptyOnNilDate(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	got := Apply(c.Masters(), "", []Condition{
		{ColumnID: "nextInspection", Operator: OpIsEmpty},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "m3", got[0].ID)
}

func TestSortNullsLastBothDirections(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)

	asc := Sort(c.Masters(), SortSpec{ColumnID: "nextInspection", Direction: Ascending})
	require.Len(t, asc, 3)
	assert.Equal(t, "m2", asc[0].ID)
	assert.Equal(t, "m1", asc[1].ID)
	assert.Equal(t, "m3", asc[2].ID) // nil date stays last

	desc := Sort(c.Masters(), SortSpec{ColumnID: "nextInspection", Direction: Descending})
	require.Len(t, desc, 3)
	assert.Equal(t, "m1", desc[0].ID)
	assert.Equal(t, "m2", desc[1].ID)
	assert.Equal(t, "m3", desc[2].ID)
}

func TestSortReturnsNewSlice(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	masters := c.Masters()
	sorted := Sort(masters, SortSpec{ColumnID: "monthlyRent", Direction: Ascending})

	assert.Equal(t, "m3", sorted[0].ID)
	assert.Equal(t, "m1", masters[0].ID)
}

func TestSortStringUsesCollation(t *testing.T) {
	t.Parallel()

	assets := []*portfolio.PropertyAsset{
		{ID: "a", Type: portfolio.AssetTypeMaster, Address: "x", Provider: "zenith"},
		{ID: "b", Type: portfolio.AssetTypeMaster, Address: "x", Provider: "Acorn"},
		{ID: "c", Type: portfolio.AssetTypeMaster, Address: "x", Provider: "Émeraude"},
	}
	sorted := Sort(assets, SortSpec{ColumnID: "provider", Direction: Ascending})
	require.Len(t, sorted, 3)
	assert.Equal(t, "b", sorted[0].ID)
	assert.Equal(t, "c", sorted[1].ID)
	assert.Equal(t, "a", sorted[2].ID)
}

func TestSortUnknownColumnKeepsOrder(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	got := Sort(c.Masters(), SortSpec{ColumnID: "retired", Direction: Descending})
	require.Len(t, got, 3)
	assert.Equal(t, "m1", got[0].ID)
}

func TestGroupByFirstSeenOrderAndUnknownBucket(t *testing.T) {
	t.Parallel()

	assets := []*portfolio.PropertyAsset{
		{ID: "1", Type: portfolio.AssetTypeMaster, Address: "x", Region: "North West"},
		{ID: "2", Type: portfolio.AssetTypeMaster, Address: "x", Region: ""},
		{ID: "3", Type: portfolio.AssetTypeMaster, Address: "x", Region: "South West"},
		{ID: "4", Type: portfolio.AssetTypeMaster, Address: "x", Region: "North West"},
	}

	groups := GroupBy(assets, "region")
	require.Len(t, groups, 3)
	assert.Equal(t, "North West", groups[0].Value)
	assert.Equal(t, 2, groups[0].Count())
	assert.Equal(t, UnknownGroup, groups[1].Value)
	assert.Equal(t, "South West", groups[2].Value)
}

func TestGroupByUnknownColumnSingleBucket(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	groups := GroupBy(c.Masters(), "")
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0].Value)
	assert.Equal(t, 3, groups[0].Count())
}

func TestMaterializeRowsExpansionAndOrphans(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	groups := GroupBy(c.Masters(), "region")

	rows := MaterializeRows(groups, c, map[string]bool{"m1": true})

	var kinds []RowKind
	for _, r := range rows {
		kinds = append(kinds, r.Kind)
	}
	// South West header, m1, its two units, North West header, m2, m3,
	// then the Unassigned header with the orphan
	require.Equal(t, []RowKind{
		RowGroupHeader, RowMaster, RowUnit, RowUnit,
		RowGroupHeader, RowMaster, RowMaster,
		RowGroupHeader, RowUnit,
	}, kinds)

	assert.Equal(t, "m1", rows[1].Asset.ID)
	assert.Equal(t, 1, rows[2].Depth)
	assert.Equal(t, UnassignedGroup, rows[7].Group.Value)
	assert.Equal(t, "u9", rows[8].Asset.ID)
}

func TestMaterializeRowsUngroupedHasNoHeaders(t *testing.T) {
	t.Parallel()

	assets := fixtureAssets()[:3]
	c, dropped := portfolio.NewCollection(assets)
	require.Zero(t, dropped)

	rows := MaterializeRows(GroupBy(c.Masters(), ""), c, nil)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, RowMaster, r.Kind)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	c := fixtureCollection(t)
	s := Summarize(c.Masters())

	assert.Equal(t, 3, s.FilteredCount)
	assert.Equal(t, 20, s.TotalUnits)
	assert.Equal(t, 5, s.VoidCount)
	assert.InDelta(t, 75.0, s.OccupancyRate, 0.001)
	assert.InDelta(t, 14250.0, s.TotalRent, 0.001)
	assert.Equal(t, 1, s.ComplianceCounts[portfolio.ComplianceExpired])
}

func TestVoidFilterYieldsZeroOccupancy(t *testing.T) {
	t.Parallel()

	records := []*portfolio.PropertyAsset{
		{
			ID: "A", Type: portfolio.AssetTypeMaster, Address: "x",
			Status: portfolio.StatusVoid, TotalUnits: 4, OccupiedUnits: 0,
		},
		{
			ID: "B", Type: portfolio.AssetTypeMaster, Address: "x",
			Status: portfolio.StatusOccupied, TotalUnits: 2, OccupiedUnits: 2,
		},
	}

	got := Apply(records, "", []Condition{
		{ColumnID: "status", Operator: OpEquals, Value: portfolio.StatusVoid},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].ID)

	s := Summarize(got)
	assert.InDelta(t, 0.0, s.OccupancyRate, 0.001)
	assert.Equal(t, 4, s.VoidCount)
}

func TestOperatorsForIsClosed(t *testing.T) {
	t.Parallel()

	_, ok := ParseOperator("like")
	assert.False(t, ok)

	op, ok := ParseOperator("isDueWithin")
	require.True(t, ok)
	assert.True(t, op.HasValue())
	assert.False(t, OpIsOverdue.HasValue())
}
