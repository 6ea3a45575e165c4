package analytics

import (
	"fmt"
	"math"

	"property-analytics/models"
)

// Range is an inclusive [Min, Max] bound. Min > Max is legal and matches nothing.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether Min <= v <= Max.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) validate(name string) error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return fmt.Errorf("%w: %s bound is not a number", ErrInvalidRange, name)
	}
	return nil
}

// Ranges are the four independent filter dimensions.
type Ranges struct {
	Price     Range `json:"price" yaml:"price"`
	Bedrooms  Range `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms Range `json:"bathrooms" yaml:"bathrooms"`
	Area      Range `json:"area" yaml:"area"`
}

// Validate rejects ranges with NaN bounds.
func (r Ranges) Validate() error {
	for _, c := range r.checks() {
		if err := c.rng.validate(string(c.attr)); err != nil {
			return err
		}
	}
	return nil
}

// Match reports whether every attribute of l, read as 0 when absent, lies in its range.
func (r Ranges) Match(l models.DerivedListing) bool {
	for _, c := range r.checks() {
		if !c.rng.Contains(c.attr.valueOrZero(l)) {
			return false
		}
	}
	return true
}

type rangeCheck struct {
	attr Attribute
	rng  Range
}

func (r Ranges) checks() [4]rangeCheck {
	return [4]rangeCheck{
		{AttrPrice, r.Price},
		{AttrBedrooms, r.Bedrooms},
		{AttrBathrooms, r.Bathrooms},
		{AttrArea, r.Area},
	}
}

// Filter returns the listings that pass all four ranges, in input order.
func Filter(listings []models.DerivedListing, ranges Ranges) ([]models.DerivedListing, error) {
	if err := ranges.Validate(); err != nil {
		return nil, err
	}

	out := make([]models.DerivedListing, 0, len(listings))
	for _, l := range listings {
		if ranges.Match(l) {
			out = append(out, l)
		}
	}
	return out, nil
}
