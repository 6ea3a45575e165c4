package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"property-analytics/models"
)

func TestCSVWriterWritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "raw.csv")

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	scraped := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	raw := make([]*models.RawListing, 0, 12)
	for i := 0; i < 12; i++ {
		raw = append(raw, &models.RawListing{
			Address:      "Baker Street, London",
			RawPrice:     "£450,000",
			RawBedrooms:  "2",
			RawBathrooms: "1",
			SizeText:     "850 sq ft",
			URL:          "https://www.rightmove.co.uk/properties/" + string(rune('a'+i)),
			SearchOrigin: "https://www.rightmove.co.uk/property-for-sale/find.html",
			ScrapedAt:    scraped,
		})
	}

	if err := w.WriteRaw(raw); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 13 {
		t.Fatalf("expected header + 12 rows, got %d records", len(records))
	}
	if records[0][0] != "search_url_origin" || records[0][7] != "property_url" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][2] != "£450,000" {
		t.Errorf("raw_price = %q; want £450,000", records[1][2])
	}
	if records[1][8] != "2024-03-01T12:00:00Z" {
		t.Errorf("scraped_at = %q", records[1][8])
	}
}
