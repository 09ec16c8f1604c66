package query

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/columns"
)

// Direction orders a sort ascending or descending.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection validates a direction tag, defaulting empty to ascending.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Ascending, "":
		return Ascending, true
	case Descending:
		return Descending, true
	default:
		return "", false
	}
}

// SortSpec is a single-key sort over one sortable column.
type SortSpec struct {
	ColumnID  string    `json:"columnId" yaml:"columnId"`
	Direction Direction `json:"direction" yaml:"direction"`
}

var sortCollator = collate.New(language.English, collate.Loose)

// Sort orders assets by the spec and returns a new slice; the input is
// untouched. Sorting is stable so equal keys keep their filtered order.
// Records with a missing key sort after all present keys in either
// direction. An unknown or unsortable column returns the input order.
func Sort(assets []*portfolio.PropertyAsset, spec SortSpec) []*portfolio.PropertyAsset {
	rv := make([]*portfolio.PropertyAsset, len(assets))
	copy(rv, assets)

	col, ok := columns.Lookup(spec.ColumnID)
	if !ok || !col.Sortable {
		return rv
	}

	desc := spec.Direction == Descending
	sort.SliceStable(rv, func(i, j int) bool {
		cmp, iNull, jNull := compareValues(col.Accessor(rv[i]), col.Accessor(rv[j]), col.FilterType)
		// nulls always last, regardless of direction
		if iNull || jNull {
			return !iNull && jNull
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
	return rv
}

// compareValues compares two accessor values under a column's filter
// type. It reports the ordering and whether either side is null.
func compareValues(a, b any, ft columns.FilterType) (cmp int, aNull, bNull bool) {
	switch ft {
	case columns.FilterNumber:
		aF, aOK := toFloat(a)
		bF, bOK := toFloat(b)
		if !aOK || !bOK {
			return 0, !aOK, !bOK
		}
		switch {
		case aF < bF:
			return -1, false, false
		case aF > bF:
			return 1, false, false
		}
		return 0, false, false

	case columns.FilterDate:
		aT, aOK := toTime(a)
		bT, bOK := toTime(b)
		if !aOK || !bOK {
			return 0, !aOK, !bOK
		}
		switch {
		case aT.Before(bT):
			return -1, false, false
		case aT.After(bT):
			return 1, false, false
		}
		return 0, false, false

	case columns.FilterBoolean:
		aB, aOK := a.(bool)
		bB, bOK := b.(bool)
		if !aOK || !bOK {
			return 0, !aOK, !bOK
		}
		switch {
		case !aB && bB:
			return -1, false, false
		case aB && !bB:
			return 1, false, false
		}
		return 0, false, false

	default:
		aS := stringify(a)
		bS := stringify(b)
		if aS == "" || bS == "" {
			return 0, aS == "", bS == ""
		}
		return sortCollator.CompareString(aS, bS), false, false
	}
}
