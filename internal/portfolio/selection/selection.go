// Package selection tracks which properties are selected for bulk work
// and routes bulk actions to their handlers. Selection is defined over
// Masters only: selecting a Unit selects its parent property, because
// bulk actions operate on whole properties.
package selection

import (
	"fmt"
	"sort"

	"github.com/havenhq/havenctl/internal/portfolio"
)

// Set is the current selection, keyed by Master id.
type Set struct {
	col *portfolio.Collection
	ids map[string]struct{}
}

// NewSet creates an empty selection over a collection.
func NewSet(col *portfolio.Collection) *Set {
	return &Set{col: col, ids: make(map[string]struct{})}
}

// normalize maps any asset id to the Master id that owns it. Unknown
// ids and orphaned units resolve to nothing.
func (s *Set) normalize(id string) (string, bool) {
	a, ok := s.col.Lookup(id)
	if !ok {
		return "", false
	}
	if a.IsMaster() {
		return a.ID, true
	}
	if parent, ok := s.col.Lookup(a.ParentID); ok && parent.IsMaster() {
		return parent.ID, true
	}
	return "", false
}

// Toggle flips the selection of the Master owning id. It reports the
// resulting state and whether the id resolved at all.
func (s *Set) Toggle(id string) (selected, ok bool) {
	mid, ok := s.normalize(id)
	if !ok {
		return false, false
	}
	if _, on := s.ids[mid]; on {
		delete(s.ids, mid)
		return false, true
	}
	s.ids[mid] = struct{}{}
	return true, true
}

// Select adds the Master owning id to the selection.
func (s *Set) Select(id string) bool {
	mid, ok := s.normalize(id)
	if !ok {
		return false
	}
	s.ids[mid] = struct{}{}
	return true
}

// Contains reports whether the Master owning id is selected.
func (s *Set) Contains(id string) bool {
	mid, ok := s.normalize(id)
	if !ok {
		return false
	}
	_, on := s.ids[mid]
	return on
}

// SelectAll selects every Master in the given filtered set.
func (s *Set) SelectAll(masters []*portfolio.PropertyAsset) {
	for _, a := range masters {
		if a.IsMaster() {
			s.ids[a.ID] = struct{}{}
		}
	}
}

// Clear empties the selection.
func (s *Set) Clear() {
	s.ids = make(map[string]struct{})
}

// AllSelected reports whether every Master in the filtered set is
// selected, false for an empty set.
func (s *Set) AllSelected(masters []*portfolio.PropertyAsset) bool {
	if len(masters) == 0 {
		return false
	}
	for _, a := range masters {
		if _, on := s.ids[a.ID]; !on {
			return false
		}
	}
	return true
}

// Len returns the number of selected Masters.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the selected Master ids in stable order.
func (s *Set) IDs() []string {
	rv := make([]string, 0, len(s.ids))
	for id := range s.ids {
		rv = append(rv, id)
	}
	sort.Strings(rv)
	return rv
}

// Assets resolves the selection to records in stable id order.
func (s *Set) Assets() []*portfolio.PropertyAsset {
	rv := make([]*portfolio.PropertyAsset, 0, len(s.ids))
	for _, id := range s.IDs() {
		if a, ok := s.col.Lookup(id); ok {
			rv = append(rv, a)
		}
	}
	return rv
}

// Action names a bulk operation over the selection.
type Action string

const (
	ActionExport  Action = "export"
	ActionTag     Action = "tag"
	ActionAssign  Action = "assign"
	ActionArchive Action = "archive"
	ActionDelete  Action = "delete"
)

// ParseAction validates an action tag.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionExport, ActionTag, ActionAssign, ActionArchive, ActionDelete:
		return a, true
	default:
		return "", false
	}
}

// Destructive reports whether the action requires explicit confirmation
// before dispatch.
func (a Action) Destructive() bool {
	return a == ActionDelete
}

// Handler executes one bulk action over the selected records.
type Handler func(assets []*portfolio.PropertyAsset) error

// Dispatcher routes bulk actions to registered handlers and enforces
// the confirmation gate on destructive actions.
type Dispatcher struct {
	handlers map[Action]Handler
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Action]Handler)}
}

// Register installs the handler for an action, replacing any previous
// registration.
func (d *Dispatcher) Register(action Action, h Handler) {
	d.handlers[action] = h
}

// Dispatch runs the action's handler over the selection. Destructive
// actions refuse to run unless confirmed is true; an empty selection is
// an error for every action.
func (d *Dispatcher) Dispatch(action Action, sel *Set, confirmed bool) error {
	if sel.Len() == 0 {
		return fmt.Errorf("no properties selected for %s", action)
	}
	if action.Destructive() && !confirmed {
		return fmt.Errorf("%s requires confirmation", action)
	}
	h, ok := d.handlers[action]
	if !ok {
		return fmt.Errorf("no handler registered for action %s", action)
	}
	return h(sel.Assets())
}
