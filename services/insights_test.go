package services

import (
	"bytes"
	"strings"
	"testing"

	"property-analytics/analytics"
	"property-analytics/models"
)

func sampleListings() []models.Listing {
	return []models.Listing{
		{Title: "Flat A", Price: models.Float(500000), Bedrooms: models.Int(1), Area: models.Float(1000), URL: "https://www.rightmove.co.uk/properties/1"},
		{Title: "House B", Price: models.Float(750000), Bedrooms: models.Int(1), Area: models.Float(1500), URL: "https://www.rightmove.co.uk/properties/2"},
		{Title: "Studio C", Price: models.Float(300000), Bedrooms: models.Int(0), URL: "https://www.rightmove.co.uk/properties/3"},
		{Title: "Plot D", Bedrooms: models.Int(3), Area: models.Float(2001), URL: "https://www.rightmove.co.uk/properties/4"},
	}
}

func TestSummarizeAverages(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	s := svc.Summarize(sampleListings())

	// (500000+750000+300000)/3 = 516666.67 → floored
	if s.AveragePrice != 516666 {
		t.Errorf("AveragePrice: got %v, want 516666", s.AveragePrice)
	}
	// (1000+1500+2001)/3 = 1500.33 → floored
	if s.AvgSquareFootage != 1500 {
		t.Errorf("AvgSquareFootage: got %v, want 1500", s.AvgSquareFootage)
	}
	if s.PricePerSqFt != 344 {
		t.Errorf("PricePerSqFt: got %v, want 344", s.PricePerSqFt)
	}
	if s.SqFtDistribution != "1000-2001" {
		t.Errorf("SqFtDistribution: got %q, want %q", s.SqFtDistribution, "1000-2001")
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	s := svc.Summarize(nil)
	if s.AveragePrice != 0 || s.AvgSquareFootage != 0 || s.PricePerSqFt != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
	if s.SqFtDistribution != "N/A" {
		t.Errorf("SqFtDistribution: got %q, want N/A", s.SqFtDistribution)
	}
}

func TestFprintReport(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	listings := sampleListings()

	report, err := analytics.Run(listings, analytics.DefaultViewParams())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var buf bytes.Buffer
	svc.Fprint(&buf, report, svc.Summarize(listings))
	out := buf.String()

	for _, want := range []string{
		"Displaying 4 out of 4 properties",
		"£516,666",
		"Price Distribution",
		"£500k",
		"Best Value by Price per Sq Ft",
		"£500/sq ft",
		"£625,000",
		"3   bedrooms : N/A",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{625000, "625,000"},
		{1234567.891, "1,234,567.89"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := formatMoney(tt.in); got != tt.want {
			t.Errorf("formatMoney(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
