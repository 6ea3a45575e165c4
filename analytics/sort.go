package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"property-analytics/models"
)

// SortKey is a listing attribute the view can be ordered by.
type SortKey string

const (
	SortByPrice    SortKey = "price"
	SortByArea     SortKey = "area"
	SortByBedrooms SortKey = "bedrooms"
)

func (k SortKey) attribute() (Attribute, error) {
	switch k {
	case SortByPrice:
		return AttrPrice, nil
	case SortByArea:
		return AttrArea, nil
	case SortByBedrooms:
		return AttrBedrooms, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, string(k))
}

// Direction is ascending or descending order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) validate() error {
	if d != Asc && d != Desc {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, string(d))
	}
	return nil
}

// SortSpec pairs a key with a direction.
type SortSpec struct {
	Key       SortKey   `json:"key" yaml:"key"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Validate rejects unknown keys and directions.
func (s SortSpec) Validate() error {
	if _, err := s.Key.attribute(); err != nil {
		return err
	}
	return s.Direction.validate()
}

// String renders the sort as a combined option such as "price_asc".
func (s SortSpec) String() string {
	key := string(s.Key)
	if s.Key == SortByArea {
		key = "sqft"
	}
	return key + "_" + string(s.Direction)
}

// ParseSortOption parses combined options like "price_asc", "sqft_desc"
// or "bedrooms_asc". "area" is accepted as a synonym for "sqft".
func ParseSortOption(opt string) (SortSpec, error) {
	i := strings.LastIndexByte(opt, '_')
	if i <= 0 {
		return SortSpec{}, fmt.Errorf("%w: %q", ErrInvalidSortKey, opt)
	}

	key := SortKey(opt[:i])
	if key == "sqft" {
		key = SortByArea
	}
	spec := SortSpec{Key: key, Direction: Direction(opt[i+1:])}
	if err := spec.Validate(); err != nil {
		return SortSpec{}, err
	}
	return spec, nil
}

// Sort returns a new slice ordered by key in the given direction.
// Listings without a value for key always go last, whatever the direction.
// The sort is stable.
func Sort(listings []models.DerivedListing, key SortKey, dir Direction) ([]models.DerivedListing, error) {
	attr, err := key.attribute()
	if err != nil {
		return nil, err
	}
	if err := dir.validate(); err != nil {
		return nil, err
	}

	out := make([]models.DerivedListing, len(listings))
	copy(out, listings)

	slices.SortStableFunc(out, func(a, b models.DerivedListing) int {
		av, aok := attr.Value(a)
		bv, bok := attr.Value(b)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		if dir == Desc {
			return cmp.Compare(bv, av)
		}
		return cmp.Compare(av, bv)
	})
	return out, nil
}
