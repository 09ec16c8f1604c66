package views

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenhq/havenctl/internal/portfolio/query"
)

func testManager() *Manager {
	m := NewManager()
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	m.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}
	return m
}

func TestManagerSeedsBuiltInsAndDefault(t *testing.T) {
	t.Parallel()

	m := testManager()
	vs := m.Views()
	require.Len(t, vs, 3)
	assert.Equal(t, "All Properties", vs[0].Name)
	assert.True(t, vs[0].BuiltIn)
	assert.Equal(t, BuiltInAllID, m.ActiveID())

	void, ok := m.Find("Void Units")
	require.True(t, ok)
	require.Len(t, void.State.Conditions, 1)
	assert.Equal(t, query.OpEquals, void.State.Conditions[0].Operator)
}

func TestWorkingEditsDoNotLeakIntoSavedView(t *testing.T) {
	t.Parallel()

	m := testManager()
	w := m.Working()
	w.SearchText = "harbour"
	w.Conditions = append(w.Conditions, query.Condition{
		ColumnID: "region", Operator: query.OpEquals, Value: "South West",
	})
	m.SetWorking(w)

	assert.True(t, m.Dirty())
	saved, _ := m.Find(BuiltInAllID)
	assert.Empty(t, saved.State.SearchText)
	assert.Empty(t, saved.State.Conditions)
}

func TestApplyReplacesWholeWorkingState(t *testing.T) {
	t.Parallel()

	m := testManager()
	w := m.Working()
	w.SearchText = "edit to be discarded"
	w.GroupBy = "region"
	m.SetWorking(w)

	require.NoError(t, m.Apply("Void Units"))
	assert.Equal(t, BuiltInVoidID, m.ActiveID())

	got := m.Working()
	assert.Empty(t, got.SearchText)
	assert.Empty(t, got.GroupBy)
	assert.Equal(t, "occupancy", got.Sort.ColumnID)
	assert.False(t, m.Dirty())
}

func TestApplyUnknownViewErrors(t *testing.T) {
	t.Parallel()

	m := testManager()
	require.Error(t, m.Apply("does not exist"))
	assert.Equal(t, BuiltInAllID, m.ActiveID())
}

func TestCreateSnapshotsWorkingState(t *testing.T) {
	t.Parallel()

	m := testManager()
	w := m.Working()
	w.SearchText = "alder"
	m.SetWorking(w)

	v, err := m.Create("My Search")
	require.NoError(t, err)
	assert.Equal(t, "id-1", v.ID)
	assert.Equal(t, v.ID, m.ActiveID())
	assert.False(t, m.Dirty())

	// later edits don't touch the snapshot
	w = m.Working()
	w.SearchText = "changed"
	m.SetWorking(w)
	saved, _ := m.Find("My Search")
	assert.Equal(t, "alder", saved.State.SearchText)
}

func TestCreateRejectsDuplicateAndEmptyNames(t *testing.T) {
	t.Parallel()

	m := testManager()
	_, err := m.Create("  ")
	require.Error(t, err)

	_, err = m.Create("all properties")
	require.Error(t, err, "name collision with a built-in is case-insensitive")
}

func TestUpdateAndRenameRejectBuiltIns(t *testing.T) {
	t.Parallel()

	m := testManager()
	_, err := m.Update(BuiltInAllID)
	require.Error(t, err)

	_, err = m.Rename("Void Units", "Empties")
	require.Error(t, err)
}

func TestUpdateOverwritesDefinition(t *testing.T) {
	t.Parallel()

	m := testManager()
	_, err := m.Create("Mine")
	require.NoError(t, err)

	w := m.Working()
	w.GroupBy = "provider"
	m.SetWorking(w)
	require.True(t, m.Dirty())

	_, err = m.Update("Mine")
	require.NoError(t, err)
	assert.False(t, m.Dirty())
	saved, _ := m.Find("Mine")
	assert.Equal(t, "provider", saved.State.GroupBy)
}

func TestDeleteActiveFallsBackToDefault(t *testing.T) {
	t.Parallel()

	m := testManager()
	_, err := m.Create("Doomed")
	require.NoError(t, err)
	require.NotEqual(t, BuiltInAllID, m.ActiveID())

	require.NoError(t, m.Delete("Doomed"))
	assert.Equal(t, BuiltInAllID, m.ActiveID())
	_, ok := m.Find("Doomed")
	assert.False(t, ok)
}

func TestDeleteBuiltInRejected(t *testing.T) {
	t.Parallel()

	m := testManager()
	require.Error(t, m.Delete(BuiltInAllID))
	assert.Len(t, m.Views(), 3)
}

func TestPinWorksOnBuiltIns(t *testing.T) {
	t.Parallel()

	m := testManager()
	v, err := m.Pin(BuiltInVoidID, true)
	require.NoError(t, err)
	assert.True(t, v.IsPinned)

	v, err = m.Pin(BuiltInVoidID, false)
	require.NoError(t, err)
	assert.False(t, v.IsPinned)
}

func TestSetDefaultIsExclusive(t *testing.T) {
	t.Parallel()

	m := testManager()
	_, err := m.Create("Mine")
	require.NoError(t, err)

	_, err = m.SetDefault("Mine")
	require.NoError(t, err)
	mine, _ := m.Find("Mine")
	assert.Equal(t, mine.ID, m.DefaultID())

	_, err = m.SetDefault(BuiltInVoidID)
	require.NoError(t, err)
	assert.Equal(t, BuiltInVoidID, m.DefaultID())
	mine, _ = m.Find("Mine")
	assert.False(t, mine.IsDefault)
}

func TestDeleteActiveFallsBackToCustomDefault(t *testing.T) {
	t.Parallel()

	m := testManager()
	_, err := m.Create("Keeper")
	require.NoError(t, err)
	_, err = m.SetDefault("Keeper")
	require.NoError(t, err)

	doomed, err := m.Create("Doomed")
	require.NoError(t, err)
	require.Equal(t, doomed.ID, m.ActiveID())

	require.NoError(t, m.Delete("Doomed"))
	keeper, _ := m.Find("Keeper")
	assert.Equal(t, keeper.ID, m.ActiveID())
}

func TestStoreRoundTripAndMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewStore(dir)

	loaded, _, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	m := testManager()
	w := m.Working()
	w.Conditions = []query.Condition{
		{ColumnID: "status", Operator: query.OpEquals, Value: "Void"},
	}
	m.SetWorking(w)
	_, err = m.Create("Persisted")
	require.NoError(t, err)

	require.NoError(t, store.Save(m.CustomViews(), m.BuiltInFlagOverrides()))
	assert.Equal(t, filepath.Join(dir, "views.yaml"), store.Path())

	loaded, builtIns, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Empty(t, builtIns)
	assert.Equal(t, "Persisted", loaded[0].Name)
	if diff := cmp.Diff(m.CustomViews()[0].State, loaded[0].State); diff != "" {
		t.Errorf("state changed across save/load (-saved +loaded):\n%s", diff)
	}

	fresh := NewManager()
	fresh.Restore(loaded, builtIns)
	assert.Len(t, fresh.Views(), 4)
}

func TestStoreRoundTripsBuiltInFlags(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	m := testManager()
	_, err := m.Pin(BuiltInVoidID, true)
	require.NoError(t, err)
	_, err = m.SetDefault(BuiltInComplianceID)
	require.NoError(t, err)

	require.NoError(t, store.Save(m.CustomViews(), m.BuiltInFlagOverrides()))

	loaded, builtIns, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
	require.Len(t, builtIns, 2)

	fresh := NewManager()
	fresh.Restore(loaded, builtIns)

	void, _ := fresh.Find(BuiltInVoidID)
	assert.True(t, void.IsPinned)
	assert.Equal(t, BuiltInComplianceID, fresh.DefaultID())
}
