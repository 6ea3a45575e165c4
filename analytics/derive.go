// Package analytics turns a flat list of property listings into derived
// metrics, filtered and sorted views, histograms, rankings and grouped
// averages. Every function is pure: inputs are never modified and nothing
// is retained between calls.
package analytics

import (
	"math"

	"property-analytics/models"
)

// Derive computes price per area and price per bedroom for every listing,
// preserving order. A metric is nil when either operand is missing or the
// denominator is zero.
func Derive(listings []models.Listing) []models.DerivedListing {
	out := make([]models.DerivedListing, len(listings))
	for i, l := range listings {
		out[i] = deriveOne(l)
	}
	return out
}

func deriveOne(l models.Listing) models.DerivedListing {
	d := models.DerivedListing{Listing: l}
	if l.Price != nil && l.Area != nil && *l.Area != 0 {
		d.PricePerArea = ratio(*l.Price, *l.Area)
	}
	if l.Price != nil && l.Bedrooms != nil && *l.Bedrooms != 0 {
		d.PricePerBedroom = ratio(*l.Price, float64(*l.Bedrooms))
	}
	return d
}

func ratio(num, den float64) *float64 {
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
