package analytics

import (
	"math"

	"property-analytics/models"
)

// Attribute names a numeric field of a DerivedListing.
type Attribute string

const (
	AttrPrice           Attribute = "price"
	AttrBedrooms        Attribute = "bedrooms"
	AttrBathrooms       Attribute = "bathrooms"
	AttrArea            Attribute = "area"
	AttrPricePerArea    Attribute = "pricePerArea"
	AttrPricePerBedroom Attribute = "pricePerBedroom"
)

// Valid reports whether a is a known attribute.
func (a Attribute) Valid() bool {
	switch a {
	case AttrPrice, AttrBedrooms, AttrBathrooms, AttrArea, AttrPricePerArea, AttrPricePerBedroom:
		return true
	}
	return false
}

// Value returns the attribute of l and whether it is present.
// NaN counts as absent.
func (a Attribute) Value(l models.DerivedListing) (float64, bool) {
	switch a {
	case AttrPrice:
		return floatValue(l.Price)
	case AttrBedrooms:
		return intValue(l.Bedrooms)
	case AttrBathrooms:
		return intValue(l.Bathrooms)
	case AttrArea:
		return floatValue(l.Area)
	case AttrPricePerArea:
		return floatValue(l.PricePerArea)
	case AttrPricePerBedroom:
		return floatValue(l.PricePerBedroom)
	}
	return 0, false
}

// valueOrZero is the range-filter view of an attribute: absent reads as 0.
func (a Attribute) valueOrZero(l models.DerivedListing) float64 {
	v, ok := a.Value(l)
	if !ok {
		return 0
	}
	return v
}

func floatValue(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) {
		return 0, false
	}
	return *p, true
}

func intValue(p *int) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return float64(*p), true
}
