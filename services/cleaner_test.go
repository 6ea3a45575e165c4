package services

import (
	"testing"
	"time"

	"property-analytics/models"
	"property-analytics/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func TestCleanerParsePrice(t *testing.T) {
	c := NewCleaner(newTestLogger())

	tests := []struct {
		raw  string
		want *float64
	}{
		{"£450,000", models.Float(450000)},
		{"Offers in Excess of £1,250,000", models.Float(1250000)},
		{"  £99,950  ", models.Float(99950)},
		{"£1,200.50", models.Float(1200.50)},
		{"POA", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := c.parsePrice(tt.raw)
		if !sameFloat(got, tt.want) {
			t.Errorf("parsePrice(%q) = %v; want %v", tt.raw, show(got), show(tt.want))
		}
	}
}

func TestCleanerParseSqFt(t *testing.T) {
	c := NewCleaner(newTestLogger())

	tests := []struct {
		text string
		want *float64
	}{
		{"SIZE | 1,250 sq ft / 116 sq m", models.Float(1250)},
		{"1200 sq ft", models.Float(1200)},
		{"Approx. 980 sq. ft.", models.Float(980)},
		{"2,150 SQ FT", models.Float(2150)},
		{"Ask agent", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := c.parseSqFt(tt.text)
		if !sameFloat(got, tt.want) {
			t.Errorf("parseSqFt(%q) = %v; want %v", tt.text, show(got), show(tt.want))
		}
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{"3", models.Int(3)},
		{" 0 ", models.Int(0)},
		{"N/A", nil},
		{"2+", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := parseCount(tt.raw)
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("parseCount(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerBuildsTitle(t *testing.T) {
	c := NewCleaner(newTestLogger())
	cleaned := c.Clean([]*models.RawListing{
		{Address: "  Flat 2,  Baker Street ", RawBedrooms: "2", RawBathrooms: "", URL: "https://www.rightmove.co.uk/properties/1"},
	})
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(cleaned))
	}
	want := "Flat 2, Baker Street, 2 bedrooms, N/A bathrooms"
	if cleaned[0].Title != want {
		t.Errorf("Title = %q; want %q", cleaned[0].Title, want)
	}
	if cleaned[0].Bathrooms != nil {
		t.Errorf("Bathrooms should be absent, got %d", *cleaned[0].Bathrooms)
	}
}

func TestCleanerDropsEmptyURL(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Address: "No URL", RawPrice: "£100,000", URL: "", ScrapedAt: time.Now()},
		{Address: "Has URL", RawPrice: "£200,000", URL: "https://www.rightmove.co.uk/properties/1", ScrapedAt: time.Now()},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Errorf("expected 1 listing after dropping empty URL, got %d", len(cleaned))
	}
}

func TestCleanerDeduplicatesURL(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Address: "A", URL: "https://www.rightmove.co.uk/properties/1", ScrapedAt: time.Now()},
		{Address: "B", URL: "https://www.rightmove.co.uk/properties/1", ScrapedAt: time.Now()},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Errorf("expected 1 listing after deduplication, got %d", len(cleaned))
	}
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func show(p *float64) any {
	if p == nil {
		return "<nil>"
	}
	return *p
}
