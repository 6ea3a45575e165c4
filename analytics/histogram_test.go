package analytics

import (
	"errors"
	"math"
	"testing"

	"property-analytics/models"
)

func TestHistogramPrice(t *testing.T) {
	got, err := Histogram(Derive(sampleListings()), AttrPrice, 500000)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	want := []models.Bin{{Bin: 0, Count: 2}, {Bin: 500000, Count: 2}, {Bin: 1000000, Count: 1}}
	if !equalBins(got, want) {
		t.Errorf("Histogram(price) = %v; want %v", got, want)
	}
}

func TestHistogramArea(t *testing.T) {
	got, err := Histogram(Derive(sampleListings()), AttrArea, 500)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	want := []models.Bin{{Bin: 500, Count: 1}, {Bin: 1000, Count: 1}, {Bin: 1500, Count: 1}, {Bin: 2000, Count: 2}}
	if !equalBins(got, want) {
		t.Errorf("Histogram(area) = %v; want %v", got, want)
	}
}

func TestHistogramCountsOnlyPresentValues(t *testing.T) {
	derived := Derive(sampleListings())
	for _, attr := range []Attribute{AttrPrice, AttrArea, AttrBathrooms, AttrPricePerArea} {
		bins, err := Histogram(derived, attr, 250)
		if err != nil {
			t.Fatalf("Histogram(%s): %v", attr, err)
		}
		var sum, present int
		for _, b := range bins {
			sum += b.Count
		}
		for _, l := range derived {
			if _, ok := attr.Value(l); ok {
				present++
			}
		}
		if sum != present {
			t.Errorf("Histogram(%s): counts sum to %d, want %d", attr, sum, present)
		}
		for k := 1; k < len(bins); k++ {
			if bins[k-1].Bin >= bins[k].Bin {
				t.Errorf("Histogram(%s): bins not ascending at %d: %v", attr, k, bins)
			}
		}
	}
}

func TestHistogramRejectsBadBinSize(t *testing.T) {
	derived := Derive(sampleListings())
	for _, size := range []float64{0, -500, math.NaN(), math.Inf(1)} {
		if _, err := Histogram(derived, AttrPrice, size); !errors.Is(err, ErrInvalidBinSize) {
			t.Errorf("Histogram(binSize=%v) err = %v; want ErrInvalidBinSize", size, err)
		}
	}
}

func TestHistogramRejectsOverflowingBinSize(t *testing.T) {
	derived := Derive([]models.Listing{mk("A", fp(500000), nil, nil, nil)})

	bins, err := Histogram(derived, AttrPrice, 1e-320)
	if !errors.Is(err, ErrInvalidBinSize) {
		t.Fatalf("Histogram(binSize=1e-320) = %v, %v; want ErrInvalidBinSize", bins, err)
	}

	// The same size is fine when nothing is binned.
	if _, err := Histogram(nil, AttrPrice, 1e-320); err != nil {
		t.Errorf("empty input should not fail, got %v", err)
	}
}

func TestHistogramRejectsUnknownAttribute(t *testing.T) {
	if _, err := Histogram(nil, Attribute("rating"), 1); !errors.Is(err, ErrInvalidAttribute) {
		t.Errorf("expected ErrInvalidAttribute, got %v", err)
	}
}

func TestHistogramEmpty(t *testing.T) {
	bins, err := Histogram(nil, AttrPrice, 500000)
	if err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if bins == nil || len(bins) != 0 {
		t.Errorf("expected empty non-nil bins, got %#v", bins)
	}
}

func equalBins(a, b []models.Bin) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}
