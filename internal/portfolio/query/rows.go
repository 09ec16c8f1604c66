package query

import (
	"github.com/havenhq/havenctl/internal/portfolio"
)

// RowKind tags the three shapes a display row can take.
type RowKind int

const (
	RowGroupHeader RowKind = iota
	RowMaster
	RowUnit
)

// UnassignedGroup labels units whose parent is absent from the dataset.
const UnassignedGroup = "Unassigned"

// Row is one line of the materialized listing. Exactly one of Group or
// Asset is set depending on Kind.
type Row struct {
	Kind  RowKind
	Group *Group
	Asset *portfolio.PropertyAsset
	// Depth is 1 for unit rows nested under an expanded Master.
	Depth int
}

// MaterializeRows flattens groups into the display row sequence: each
// group header, then its Masters, with each expanded Master immediately
// followed by its units. With a single unnamed group (the ungrouped
// case) no header row is emitted.
//
// Orphaned units are appended under a trailing "Unassigned" header so
// they stay visible without a parent to expand.
func MaterializeRows(
	groups []Group,
	col *portfolio.Collection,
	expanded map[string]bool,
) []Row {
	var rv []Row

	grouped := len(groups) != 1 || groups[0].Value != ""
	for i := range groups {
		g := &groups[i]
		if grouped {
			rv = append(rv, Row{Kind: RowGroupHeader, Group: g})
		}
		for _, a := range g.Items {
			rv = append(rv, Row{Kind: RowMaster, Asset: a})
			if !expanded[a.ID] {
				continue
			}
			for _, u := range col.UnitsOf(a.ID) {
				rv = append(rv, Row{Kind: RowUnit, Asset: u, Depth: 1})
			}
		}
	}

	if orphans := col.Orphans(); len(orphans) > 0 {
		g := &Group{Value: UnassignedGroup, Items: orphans}
		rv = append(rv, Row{Kind: RowGroupHeader, Group: g})
		for _, u := range orphans {
			rv = append(rv, Row{Kind: RowUnit, Asset: u, Depth: 1})
		}
	}

	return rv
}
