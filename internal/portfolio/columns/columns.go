// Package columns holds the static catalog of column descriptors used by
// the listing pipeline. The registry is defined once at process start and
// is the single source of truth: filters, sorts, groups, and exports all
// resolve columns by id here. Visibility and ordering are view state and
// live in the views package, not in the registry.
package columns

import (
	"github.com/havenhq/havenctl/internal/portfolio"
)

// FilterType determines which operators apply to a column.
type FilterType string

const (
	FilterText        FilterType = "text"
	FilterSelect      FilterType = "select"
	FilterMultiSelect FilterType = "multiselect"
	FilterNumber      FilterType = "number"
	FilterDate        FilterType = "date"
	FilterBoolean     FilterType = "boolean"
)

// Accessor extracts a column's value from a record. Date accessors return
// *time.Time so a nil pointer can represent a missing value.
type Accessor func(*portfolio.PropertyAsset) any

// Descriptor describes a single column. Descriptors are immutable; saved
// views reference them by ID only, which keeps view state serializable.
type Descriptor struct {
	ID            string
	Label         string
	Accessor      Accessor
	Sortable      bool
	Filterable    bool
	FilterType    FilterType
	FilterOptions []string
	Group         string
}

var registry []Descriptor

var byID map[string]Descriptor

func init() {
	registry = []Descriptor{
		{
			ID: "address", Label: "Address", Group: "General",
			Sortable: true, Filterable: true, FilterType: FilterText,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.Address },
		},
		{
			ID: "name", Label: "Name", Group: "General",
			Sortable: true, Filterable: true, FilterType: FilterText,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.Name },
		},
		{
			ID: "type", Label: "Type", Group: "General",
			Sortable: true, Filterable: true, FilterType: FilterSelect,
			FilterOptions: []string{string(portfolio.AssetTypeMaster), string(portfolio.AssetTypeUnit)},
			Accessor:      func(a *portfolio.PropertyAsset) any { return string(a.Type) },
		},
		{
			ID: "region", Label: "Region", Group: "General",
			Sortable: true, Filterable: true, FilterType: FilterSelect,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.Region },
		},
		{
			ID: "postcode", Label: "Postcode", Group: "General",
			Sortable: true, Filterable: true, FilterType: FilterText,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.Postcode },
		},
		{
			ID: "provider", Label: "Provider", Group: "Management",
			Sortable: true, Filterable: true, FilterType: FilterText,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.Provider },
		},
		{
			ID: "housingManager", Label: "Housing Manager", Group: "Management",
			Sortable: true, Filterable: true, FilterType: FilterText,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.HousingManager },
		},
		{
			ID: "propertyManager", Label: "Property Manager", Group: "Management",
			Sortable: true, Filterable: true, FilterType: FilterText,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.PropertyManager },
		},
		{
			ID: "status", Label: "Status", Group: "Occupancy",
			Sortable: true, Filterable: true, FilterType: FilterSelect,
			FilterOptions: []string{
				portfolio.StatusOccupied, portfolio.StatusVoid,
				portfolio.StatusUnderOffer, portfolio.StatusMaintenance,
			},
			Accessor: func(a *portfolio.PropertyAsset) any { return a.Status },
		},
		{
			ID: "complianceStatus", Label: "Compliance", Group: "Compliance",
			Sortable: true, Filterable: true, FilterType: FilterMultiSelect,
			FilterOptions: []string{
				portfolio.ComplianceCompliant, portfolio.ComplianceNonCompliant,
				portfolio.ComplianceExpired, portfolio.CompliancePending,
			},
			Accessor: func(a *portfolio.PropertyAsset) any { return a.ComplianceStatus },
		},
		{
			ID: "archived", Label: "Archived", Group: "General",
			Sortable: false, Filterable: true, FilterType: FilterBoolean,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.Archived },
		},
		{
			ID: "totalUnits", Label: "Total Units", Group: "Occupancy",
			Sortable: true, Filterable: true, FilterType: FilterNumber,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.TotalUnits },
		},
		{
			ID: "occupiedUnits", Label: "Occupied Units", Group: "Occupancy",
			Sortable: true, Filterable: true, FilterType: FilterNumber,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.OccupiedUnits },
		},
		{
			ID: "occupancy", Label: "Occupancy %", Group: "Occupancy",
			Sortable: true, Filterable: true, FilterType: FilterNumber,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.OccupancyRate() },
		},
		{
			ID: "monthlyRent", Label: "Monthly Rent", Group: "Financial",
			Sortable: true, Filterable: true, FilterType: FilterNumber,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.MonthlyRent },
		},
		{
			ID: "leaseStart", Label: "Lease Start", Group: "Dates",
			Sortable: true, Filterable: true, FilterType: FilterDate,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.LeaseStart },
		},
		{
			ID: "leaseEnd", Label: "Lease End", Group: "Dates",
			Sortable: true, Filterable: true, FilterType: FilterDate,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.LeaseEnd },
		},
		{
			ID: "lastInspection", Label: "Last Inspection", Group: "Compliance",
			Sortable: true, Filterable: true, FilterType: FilterDate,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.LastInspection },
		},
		{
			ID: "nextInspection", Label: "Next Inspection", Group: "Compliance",
			Sortable: true, Filterable: true, FilterType: FilterDate,
			Accessor: func(a *portfolio.PropertyAsset) any { return a.NextInspection },
		},
		{
			ID: "documentCount", Label: "Documents", Group: "General",
			Sortable: true, Filterable: true, FilterType: FilterNumber,
			Accessor: func(a *portfolio.PropertyAsset) any { return len(a.Documents) },
		},
		{
			ID: "tenantCount", Label: "Tenants", Group: "General",
			Sortable: true, Filterable: true, FilterType: FilterNumber,
			Accessor: func(a *portfolio.PropertyAsset) any { return len(a.Tenants) },
		},
	}

	byID = make(map[string]Descriptor, len(registry))
	for _, d := range registry {
		byID[d.ID] = d
	}
}

// All returns every descriptor in registry order.
func All() []Descriptor {
	rv := make([]Descriptor, len(registry))
	copy(rv, registry)
	return rv
}

// Lookup returns the descriptor for the given id. Unknown ids are a
// normal condition (saved views can reference columns removed in a later
// registry version) so callers must treat a false return as a no-op,
// never as an error.
func Lookup(id string) (Descriptor, bool) {
	d, ok := byID[id]
	return d, ok
}

// Resolve maps ids to descriptors, skipping unknown ids.
func Resolve(ids []string) []Descriptor {
	rv := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			rv = append(rv, d)
		}
	}
	return rv
}

// DefaultVisible is the column set used by the built-in default view.
func DefaultVisible() []string {
	return []string{
		"address", "region", "status", "complianceStatus",
		"totalUnits", "occupiedUnits", "occupancy", "monthlyRent",
		"housingManager", "nextInspection",
	}
}
