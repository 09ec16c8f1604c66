package query

import (
	"github.com/havenhq/havenctl/internal/portfolio"
)

// Stats summarizes a filtered set of Masters for the footer bar and the
// text output header.
type Stats struct {
	FilteredCount    int            `json:"filteredCount"`
	TotalUnits       int            `json:"totalUnits"`
	VoidCount        int            `json:"voidCount"`
	OccupancyRate    float64        `json:"occupancyRate"`
	TotalRent        float64        `json:"totalRent"`
	ComplianceCounts map[string]int `json:"complianceCounts"`
}

// Summarize computes aggregate stats over the filtered Masters. The
// occupancy rate is unit-weighted: total occupied over total units, not
// a mean of per-property rates.
func Summarize(masters []*portfolio.PropertyAsset) Stats {
	s := Stats{
		FilteredCount:    len(masters),
		ComplianceCounts: make(map[string]int),
	}

	occupied := 0
	for _, a := range masters {
		s.TotalUnits += a.TotalUnits
		s.VoidCount += a.VoidUnits()
		s.TotalRent += a.MonthlyRent
		occupied += a.OccupiedUnits
		if a.ComplianceStatus != "" {
			s.ComplianceCounts[a.ComplianceStatus]++
		}
	}

	if s.TotalUnits > 0 {
		s.OccupancyRate = float64(occupied) / float64(s.TotalUnits) * 100
	}
	return s
}
