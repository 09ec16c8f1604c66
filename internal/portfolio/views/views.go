// Package views manages saved view configurations: named snapshots of
// the listing's filter, sort, grouping, and column state. The manager
// separates saved definitions from the live working state so edits never
// leak into a saved view until explicitly persisted.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/havenhq/havenctl/internal/portfolio/columns"
	"github.com/havenhq/havenctl/internal/portfolio/query"
)

// Combinator is recorded on saved views for forward compatibility.
// Evaluation is AND-only; the value round-trips through persistence
// untouched.
type Combinator string

const (
	CombinatorAnd Combinator = "and"
	CombinatorOr  Combinator = "or"
)

// Density is a presentational row-sizing preference carried by views.
// It has no effect on filtering or sorting.
type Density string

const (
	DensityCompact  Density = "compact"
	DensityNormal   Density = "normal"
	DensitySpacious Density = "spacious"
)

// WorkingState is the live, mutable configuration of the listing. It is
// always a copy of whatever view was last applied; mutating it never
// touches the saved definition.
type WorkingState struct {
	SearchText     string            `json:"searchText,omitempty" yaml:"searchText,omitempty"`
	Conditions     []query.Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Combinator     Combinator        `json:"combinator,omitempty" yaml:"combinator,omitempty"`
	Sort           query.SortSpec    `json:"sort,omitempty" yaml:"sort,omitempty"`
	GroupBy        string            `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`
	VisibleColumns []string          `json:"visibleColumns,omitempty" yaml:"visibleColumns,omitempty"`
	PinnedColumns  []string          `json:"pinnedColumns,omitempty" yaml:"pinnedColumns,omitempty"`
	Density        Density           `json:"density,omitempty" yaml:"density,omitempty"`
}

// Clone deep-copies the state so the caller owns every slice.
func (s WorkingState) Clone() WorkingState {
	rv := s
	rv.Conditions = append([]query.Condition(nil), s.Conditions...)
	rv.VisibleColumns = append([]string(nil), s.VisibleColumns...)
	rv.PinnedColumns = append([]string(nil), s.PinnedColumns...)
	return rv
}

// SavedView is a named, persisted snapshot of a working state.
type SavedView struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty"`
	BuiltIn     bool      `json:"builtIn,omitempty" yaml:"builtIn,omitempty"`
	IsDefault   bool      `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
	IsPinned    bool      `json:"isPinned,omitempty" yaml:"isPinned,omitempty"`
	IsShared    bool      `json:"isShared,omitempty" yaml:"isShared,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`

	State WorkingState `json:"state" yaml:"state"`
}

// Manager owns the set of saved views and the active working state.
// It is not safe for concurrent use; the command layer drives it from a
// single goroutine.
type Manager struct {
	views    []SavedView
	activeID string
	working  WorkingState

	now   func() time.Time
	newID func() string
}

// NewManager seeds a manager with the built-in views and activates the
// default.
func NewManager() *Manager {
	m := &Manager{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	m.seedBuiltIns()
	// default activation can't fail: built-ins were just seeded
	_ = m.Apply(m.views[0].ID)
	return m
}

// Built-in view ids are stable across runs so persisted references to
// them survive restarts.
const (
	BuiltInAllID        = "builtin-all"
	BuiltInVoidID       = "builtin-void"
	BuiltInComplianceID = "builtin-compliance"
)

func (m *Manager) seedBuiltIns() {
	base := m.now()
	m.views = append(m.views,
		SavedView{
			ID: BuiltInAllID, Name: "All Properties", BuiltIn: true,
			CreatedAt: base, UpdatedAt: base,
			State: WorkingState{
				Combinator:     CombinatorAnd,
				Sort:           query.SortSpec{ColumnID: "address", Direction: query.Ascending},
				VisibleColumns: columns.DefaultVisible(),
				Density:        DensityNormal,
			},
		},
		SavedView{
			ID: BuiltInVoidID, Name: "Void Units", BuiltIn: true,
			CreatedAt: base, UpdatedAt: base,
			State: WorkingState{
				Combinator: CombinatorAnd,
				Conditions: []query.Condition{
					{ColumnID: "status", Operator: query.OpEquals, Value: "Void"},
				},
				Sort:           query.SortSpec{ColumnID: "occupancy", Direction: query.Ascending},
				VisibleColumns: columns.DefaultVisible(),
				Density:        DensityNormal,
			},
		},
		SavedView{
			ID: BuiltInComplianceID, Name: "Compliance Issues", BuiltIn: true,
			CreatedAt: base, UpdatedAt: base,
			State: WorkingState{
				Combinator: CombinatorAnd,
				Conditions: []query.Condition{
					{ColumnID: "complianceStatus", Operator: query.OpIn, Value: []string{
						"Non-Compliant", "Expired",
					}},
				},
				Sort:           query.SortSpec{ColumnID: "nextInspection", Direction: query.Ascending},
				VisibleColumns: columns.DefaultVisible(),
				Density:        DensityNormal,
			},
		},
	)
}

// Views lists saved views in creation order, built-ins first.
func (m *Manager) Views() []SavedView {
	rv := make([]SavedView, len(m.views))
	copy(rv, m.views)
	return rv
}

// ActiveID returns the id of the currently applied view.
func (m *Manager) ActiveID() string {
	return m.activeID
}

// Working returns a copy of the live working state.
func (m *Manager) Working() WorkingState {
	return m.working.Clone()
}

// SetWorking replaces the live working state. The saved definition of
// the active view is untouched; this is how unsaved edits accumulate.
func (m *Manager) SetWorking(s WorkingState) {
	m.working = s.Clone()
}

// Dirty reports whether the working state has diverged from the active
// view's saved definition.
func (m *Manager) Dirty() bool {
	v, ok := m.lookup(m.activeID)
	if !ok {
		return true
	}
	return !statesEqual(v.State, m.working)
}

func (m *Manager) lookup(id string) (*SavedView, bool) {
	for i := range m.views {
		if m.views[i].ID == id {
			return &m.views[i], true
		}
	}
	return nil, false
}

// Find resolves a view by id or (case-insensitive) name.
func (m *Manager) Find(ref string) (SavedView, bool) {
	if v, ok := m.lookup(ref); ok {
		return *v, true
	}
	for i := range m.views {
		if strings.EqualFold(m.views[i].Name, ref) {
			return m.views[i], true
		}
	}
	return SavedView{}, false
}

// Apply activates a view, replacing the entire working state with a
// copy of the view's definition in one step. Unsaved edits to the
// previous view are discarded; there is no partial application.
func (m *Manager) Apply(ref string) error {
	v, ok := m.Find(ref)
	if !ok {
		return fmt.Errorf("no view named or identified by %q", ref)
	}
	m.activeID = v.ID
	m.working = v.State.Clone()
	return nil
}

// Create saves the current working state as a new named view and
// activates it.
func (m *Manager) Create(name string) (SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedView{}, fmt.Errorf("view name must not be empty")
	}
	if _, exists := m.Find(name); exists {
		return SavedView{}, fmt.Errorf("a view named %q already exists", name)
	}

	now := m.now()
	v := SavedView{
		ID:        m.newID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		State:     m.working.Clone(),
	}
	m.views = append(m.views, v)
	m.activeID = v.ID
	return v, nil
}

// Update overwrites a saved view's definition with the current working
// state. Built-in views cannot be updated.
func (m *Manager) Update(ref string) (SavedView, error) {
	v, ok := m.Find(ref)
	if !ok {
		return SavedView{}, fmt.Errorf("no view named or identified by %q", ref)
	}
	if v.BuiltIn {
		return SavedView{}, fmt.Errorf("built-in view %q cannot be modified", v.Name)
	}

	target, _ := m.lookup(v.ID)
	target.State = m.working.Clone()
	target.UpdatedAt = m.now()
	return *target, nil
}

// Rename changes a saved view's name. Built-ins are immutable.
func (m *Manager) Rename(ref, name string) (SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedView{}, fmt.Errorf("view name must not be empty")
	}
	v, ok := m.Find(ref)
	if !ok {
		return SavedView{}, fmt.Errorf("no view named or identified by %q", ref)
	}
	if v.BuiltIn {
		return SavedView{}, fmt.Errorf("built-in view %q cannot be modified", v.Name)
	}
	if other, exists := m.Find(name); exists && other.ID != v.ID {
		return SavedView{}, fmt.Errorf("a view named %q already exists", name)
	}

	target, _ := m.lookup(v.ID)
	target.Name = name
	target.UpdatedAt = m.now()
	return *target, nil
}

// Pin marks or unmarks a view as pinned. Pinning is user preference,
// so it works on built-ins too.
func (m *Manager) Pin(ref string, pinned bool) (SavedView, error) {
	v, ok := m.Find(ref)
	if !ok {
		return SavedView{}, fmt.Errorf("no view named or identified by %q", ref)
	}
	target, _ := m.lookup(v.ID)
	target.IsPinned = pinned
	target.UpdatedAt = m.now()
	return *target, nil
}

// SetDefault marks a view as the fallback applied when the active view
// is deleted. Exactly one view holds the flag at a time.
func (m *Manager) SetDefault(ref string) (SavedView, error) {
	v, ok := m.Find(ref)
	if !ok {
		return SavedView{}, fmt.Errorf("no view named or identified by %q", ref)
	}
	for i := range m.views {
		m.views[i].IsDefault = m.views[i].ID == v.ID
	}
	target, _ := m.lookup(v.ID)
	target.UpdatedAt = m.now()
	return *target, nil
}

// DefaultID returns the id of the fallback view. Without an explicit
// default this is the first built-in, which always exists.
func (m *Manager) DefaultID() string {
	for i := range m.views {
		if m.views[i].IsDefault {
			return m.views[i].ID
		}
	}
	return BuiltInAllID
}

// Delete removes a saved view. Built-ins cannot be deleted. When the
// deleted view was active, the manager falls back to the default view
// so there is always an active view.
func (m *Manager) Delete(ref string) error {
	v, ok := m.Find(ref)
	if !ok {
		return fmt.Errorf("no view named or identified by %q", ref)
	}
	if v.BuiltIn {
		return fmt.Errorf("built-in view %q cannot be deleted", v.Name)
	}

	for i := range m.views {
		if m.views[i].ID == v.ID {
			m.views = append(m.views[:i], m.views[i+1:]...)
			break
		}
	}

	if m.activeID == v.ID {
		return m.Apply(m.DefaultID())
	}
	return nil
}

// BuiltInFlags carries the user-adjustable metadata of a built-in view.
// Built-in definitions stay authoritative in code, so only these flags
// are persisted for them.
type BuiltInFlags struct {
	IsPinned  bool `json:"isPinned,omitempty" yaml:"isPinned,omitempty"`
	IsDefault bool `json:"isDefault,omitempty" yaml:"isDefault,omitempty"`
}

// Restore replaces the manager's custom views with a persisted set and
// re-applies pin/default overrides to the built-ins. Persisted copies
// of whole built-in views are ignored.
func (m *Manager) Restore(saved []SavedView, builtIns map[string]BuiltInFlags) {
	for _, v := range saved {
		if v.BuiltIn {
			continue
		}
		if _, dup := m.lookup(v.ID); dup {
			continue
		}
		m.views = append(m.views, v)
	}

	for id, f := range builtIns {
		target, ok := m.lookup(id)
		if !ok || !target.BuiltIn {
			continue
		}
		target.IsPinned = f.IsPinned
		target.IsDefault = f.IsDefault
	}
}

// CustomViews returns only the user-created views, for persistence.
func (m *Manager) CustomViews() []SavedView {
	var rv []SavedView
	for _, v := range m.views {
		if !v.BuiltIn {
			rv = append(rv, v)
		}
	}
	return rv
}

// BuiltInFlagOverrides returns the pin/default flags set on built-in
// views, keyed by view id, for persistence. Unset flags are omitted.
func (m *Manager) BuiltInFlagOverrides() map[string]BuiltInFlags {
	rv := make(map[string]BuiltInFlags)
	for _, v := range m.views {
		if v.BuiltIn && (v.IsPinned || v.IsDefault) {
			rv[v.ID] = BuiltInFlags{IsPinned: v.IsPinned, IsDefault: v.IsDefault}
		}
	}
	if len(rv) == 0 {
		return nil
	}
	return rv
}

func statesEqual(a, b WorkingState) bool {
	if a.SearchText != b.SearchText ||
		a.Combinator != b.Combinator ||
		a.Sort != b.Sort ||
		a.GroupBy != b.GroupBy ||
		a.Density != b.Density {
		return false
	}
	if len(a.Conditions) != len(b.Conditions) ||
		len(a.VisibleColumns) != len(b.VisibleColumns) ||
		len(a.PinnedColumns) != len(b.PinnedColumns) {
		return false
	}
	for i := range a.VisibleColumns {
		if a.VisibleColumns[i] != b.VisibleColumns[i] {
			return false
		}
	}
	for i := range a.PinnedColumns {
		if a.PinnedColumns[i] != b.PinnedColumns[i] {
			return false
		}
	}
	for i := range a.Conditions {
		if a.Conditions[i].ColumnID != b.Conditions[i].ColumnID ||
			a.Conditions[i].Operator != b.Conditions[i].Operator ||
			stringifyConditionValue(a.Conditions[i].Value) != stringifyConditionValue(b.Conditions[i].Value) {
			return false
		}
	}
	return true
}

func stringifyConditionValue(v any) string {
	return fmt.Sprintf("%v", v)
}
