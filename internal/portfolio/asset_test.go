package portfolio

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollectionDropsInvalidAndDuplicate(t *testing.T) {
	t.Parallel()

	c, dropped := NewCollection([]*PropertyAsset{
		{ID: "m1", Type: AssetTypeMaster, Address: "1 High Street"},
		{ID: "", Type: AssetTypeMaster, Address: "no id"},
		{ID: "m2", Type: "block", Address: "bad type"},
		{ID: "m1", Type: AssetTypeMaster, Address: "duplicate id"},
		{ID: "u1", Type: AssetTypeUnit, ParentID: "m1", Address: "1 High Street, Flat A"},
	})

	assert.Equal(t, 3, dropped)
	assert.Equal(t, 2, c.Len())

	a, ok := c.Lookup("m1")
	require.True(t, ok)
	assert.Equal(t, "1 High Street", a.Address)
	assert.Len(t, c.UnitsOf("m1"), 1)
}

func TestNewCollectionIndexesOrphans(t *testing.T) {
	t.Parallel()

	c, _ := NewCollection([]*PropertyAsset{
		{ID: "u1", Type: AssetTypeUnit, ParentID: "gone", Address: "orphan"},
		{ID: "u2", Type: AssetTypeUnit, Address: "no parent at all"},
	})

	require.Len(t, c.Orphans(), 2)
	assert.Empty(t, c.Masters())
}

func TestVoidUnitsClampsNegative(t *testing.T) {
	t.Parallel()

	a := &PropertyAsset{TotalUnits: 3, OccupiedUnits: 5}
	assert.Zero(t, a.VoidUnits())

	a = &PropertyAsset{TotalUnits: 8, OccupiedUnits: 6}
	assert.Equal(t, 2, a.VoidUnits())
}

func TestOccupancyRateZeroUnits(t *testing.T) {
	t.Parallel()

	a := &PropertyAsset{}
	assert.Zero(t, a.OccupancyRate())

	a = &PropertyAsset{TotalUnits: 4, OccupiedUnits: 3}
	assert.InDelta(t, 75.0, a.OccupancyRate(), 0.001)
}

func TestLoadAcceptsBareListAndWrappedDoc(t *testing.T) {
	t.Parallel()

	bare := `
- id: m1
  type: master
  address: 2 Mill Lane
  totalUnits: 4
`
	c, dropped, err := Load(strings.NewReader(bare))
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, 1, c.Len())

	wrapped := `
assets:
  - id: m1
    type: master
    address: 2 Mill Lane
  - id: u1
    type: unit
    parentId: m1
    address: 2 Mill Lane, Flat 1
`
	c, dropped, err = Load(strings.NewReader(wrapped))
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, 2, c.Len())
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, err := Load(strings.NewReader("{not yaml:::"))
	require.Error(t, err)
}

func TestSaveFileRoundTrip(t *testing.T) {
	t.Parallel()

	c, _ := NewCollection([]*PropertyAsset{
		{ID: "m1", Type: AssetTypeMaster, Address: "1 High Street", Tags: []string{"pilot"}},
		{ID: "u1", Type: AssetTypeUnit, ParentID: "m1", Address: "1 High Street, Flat A"},
	})

	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, c.SaveFile(path))

	loaded, dropped, err := LoadFile(path)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, 2, loaded.Len())

	a, ok := loaded.Lookup("m1")
	require.True(t, ok)
	assert.True(t, a.HasTag("Pilot"), "tag match is case-insensitive")
}

func TestRemoveMasterTakesUnits(t *testing.T) {
	t.Parallel()

	c, _ := NewCollection([]*PropertyAsset{
		{ID: "m1", Type: AssetTypeMaster, Address: "1 High Street"},
		{ID: "u1", Type: AssetTypeUnit, ParentID: "m1", Address: "Flat A"},
		{ID: "u2", Type: AssetTypeUnit, ParentID: "m1", Address: "Flat B"},
		{ID: "m2", Type: AssetTypeMaster, Address: "2 Mill Lane"},
	})

	removed := c.Remove("m1")
	assert.Equal(t, 3, removed)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Lookup("u1")
	assert.False(t, ok)

	assert.Zero(t, c.Remove("missing"))
}

func TestAddTagDeduplicates(t *testing.T) {
	t.Parallel()

	a := &PropertyAsset{}
	a.AddTag("pilot")
	a.AddTag("PILOT")
	a.AddTag(" ")
	assert.Equal(t, []string{"pilot"}, a.Tags)
}
