package analytics

import (
	"cmp"
	"fmt"
	"slices"

	"property-analytics/models"
)

// TopN returns up to n listings with the lowest value of metric, cheapest
// first. Only AttrPricePerArea and AttrPricePerBedroom are rankable.
// Listings without the metric are left out; ties keep input order.
func TopN(listings []models.DerivedListing, metric Attribute, n int) ([]models.DerivedListing, error) {
	if metric != AttrPricePerArea && metric != AttrPricePerBedroom {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetric, string(metric))
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, n)
	}

	ranked := make([]models.DerivedListing, 0, len(listings))
	for _, l := range listings {
		if _, ok := metric.Value(l); ok {
			ranked = append(ranked, l)
		}
	}

	slices.SortStableFunc(ranked, func(a, b models.DerivedListing) int {
		av, _ := metric.Value(a)
		bv, _ := metric.Value(b)
		return cmp.Compare(av, bv)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}
