package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"property-analytics/models"
)

// Histogram counts listings into fixed-width buckets of attr. A listing lands
// in floor(v/binSize)*binSize. Listings without the attribute are skipped.
// Only occupied buckets are returned, ascending.
func Histogram(listings []models.DerivedListing, attr Attribute, binSize float64) ([]models.Bin, error) {
	if err := validateBinSize(binSize); err != nil {
		return nil, err
	}
	if !attr.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAttribute, string(attr))
	}

	counts := make(map[float64]int)
	for _, l := range listings {
		v, ok := attr.Value(l)
		if !ok {
			continue
		}
		b, err := bucket(v, binSize)
		if err != nil {
			return nil, err
		}
		counts[b]++
	}

	bins := make([]models.Bin, 0, len(counts))
	for b, n := range counts {
		bins = append(bins, models.Bin{Bin: b, Count: n})
	}
	slices.SortFunc(bins, func(a, b models.Bin) int {
		return cmp.Compare(a.Bin, b.Bin)
	})
	return bins, nil
}

// bucket fails when v/binSize overflows, which a tiny bin size can cause.
func bucket(v, binSize float64) (float64, error) {
	q := v / binSize
	if math.IsInf(q, 0) {
		return 0, fmt.Errorf("%w: %v is too small to bin %v", ErrInvalidBinSize, binSize, v)
	}
	b := math.Floor(q) * binSize
	if b == 0 {
		// normalise -0
		return 0, nil
	}
	return b, nil
}

func validateBinSize(binSize float64) error {
	if !(binSize > 0) || math.IsInf(binSize, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidBinSize, binSize)
	}
	return nil
}
