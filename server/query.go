package server

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"property-analytics/analytics"
)

var errBadParam = errors.New("invalid query parameter")

// parseViewParams overlays query parameters on defaults and validates the result.
func parseViewParams(q url.Values, defaults analytics.ViewParams) (analytics.ViewParams, error) {
	p := defaults
	p.BedroomGroups = slices.Clone(defaults.BedroomGroups)

	floats := []struct {
		name string
		dst  *float64
	}{
		{"price_min", &p.Ranges.Price.Min},
		{"price_max", &p.Ranges.Price.Max},
		{"bedrooms_min", &p.Ranges.Bedrooms.Min},
		{"bedrooms_max", &p.Ranges.Bedrooms.Max},
		{"bathrooms_min", &p.Ranges.Bathrooms.Min},
		{"bathrooms_max", &p.Ranges.Bathrooms.Max},
		{"sqft_min", &p.Ranges.Area.Min},
		{"sqft_max", &p.Ranges.Area.Max},
		{"price_bin", &p.PriceBinSize},
		{"sqft_bin", &p.AreaBinSize},
	}
	for _, f := range floats {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("%w: %s=%q is not a number", errBadParam, f.name, raw)
		}
		*f.dst = v
	}

	if raw := q.Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("%w: top=%q is not an integer", errBadParam, raw)
		}
		p.TopN = n
	}

	if raw := q.Get("sort"); raw != "" {
		spec, err := analytics.ParseSortOption(raw)
		if err != nil {
			return p, err
		}
		p.Sort = spec
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
