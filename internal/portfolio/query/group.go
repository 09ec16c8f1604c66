package query

import (
	"github.com/havenhq/havenctl/internal/portfolio"
	"github.com/havenhq/havenctl/internal/portfolio/columns"
)

// UnknownGroup labels records whose grouping column has no value.
const UnknownGroup = "Unknown"

// Group is one bucket of Masters sharing a grouping column value.
type Group struct {
	Value string
	Items []*portfolio.PropertyAsset
}

// Count returns the number of records in the bucket.
func (g Group) Count() int {
	return len(g.Items)
}

// GroupBy buckets Masters by the given column. Buckets appear in
// first-seen order of the (already sorted) input, so the bucket whose
// first member sorts earliest comes first. Records with an empty value
// land in the "Unknown" bucket. Units never participate in grouping;
// they stay attached to their parent Master in the row model.
//
// An unknown column id yields a single unnamed bucket holding every
// record, which callers render as the ungrouped listing.
func GroupBy(assets []*portfolio.PropertyAsset, columnID string) []Group {
	col, ok := columns.Lookup(columnID)
	if !ok {
		return []Group{{Items: assets}}
	}

	var order []string
	buckets := make(map[string]*Group)
	for _, a := range assets {
		key := stringify(col.Accessor(a))
		if key == "" {
			key = UnknownGroup
		}
		g, seen := buckets[key]
		if !seen {
			g = &Group{Value: key}
			buckets[key] = g
			order = append(order, key)
		}
		g.Items = append(g.Items, a)
	}

	rv := make([]Group, 0, len(order))
	for _, key := range order {
		rv = append(rv, *buckets[key])
	}
	return rv
}
