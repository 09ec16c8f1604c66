package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenhq/havenctl/internal/portfolio"
)

func TestLookupUnknownIsNotFatal(t *testing.T) {
	t.Parallel()

	_, ok := Lookup("retiredColumn")
	assert.False(t, ok)

	d, ok := Lookup("address")
	require.True(t, ok)
	assert.Equal(t, "Address", d.Label)
	assert.Equal(t, FilterText, d.FilterType)
}

func TestResolveSkipsUnknownIDs(t *testing.T) {
	t.Parallel()

	ds := Resolve([]string{"address", "ghost", "monthlyRent"})
	require.Len(t, ds, 2)
	assert.Equal(t, "address", ds[0].ID)
	assert.Equal(t, "monthlyRent", ds[1].ID)
}

func TestDefaultVisibleResolves(t *testing.T) {
	t.Parallel()

	ids := DefaultVisible()
	assert.Len(t, Resolve(ids), len(ids))
}

func TestRegistryIDsUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, d := range All() {
		assert.False(t, seen[d.ID], "duplicate column id %s", d.ID)
		seen[d.ID] = true
		require.NotNil(t, d.Accessor)
	}
}

func TestDerivedAccessors(t *testing.T) {
	t.Parallel()

	a := &portfolio.PropertyAsset{
		TotalUnits: 10, OccupiedUnits: 7,
		Documents: []portfolio.Document{{Name: "gas-cert.pdf"}},
	}

	occ, _ := Lookup("occupancy")
	assert.InDelta(t, 70.0, occ.Accessor(a).(float64), 0.001)

	docs, _ := Lookup("documentCount")
	assert.Equal(t, 1, docs.Accessor(a))
}
