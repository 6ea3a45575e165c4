package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"property-analytics/models"
)

type fakeStore struct {
	mu       sync.Mutex
	rows     map[string][]models.Listing
	fetches  atomic.Int32
	pruned   int
	fetchErr error
	onFetch  func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string][]models.Listing)}
}

func (f *fakeStore) FetchBySearchOrigin(_ context.Context, origin string, limit int) ([]models.Listing, error) {
	f.fetches.Add(1)
	if f.onFetch != nil {
		f.onFetch()
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.rows[origin]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return append([]models.Listing(nil), rows...), nil
}

func (f *fakeStore) Write(_ context.Context, listings []models.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range listings {
		f.rows[l.SearchOrigin] = append(f.rows[l.SearchOrigin], l)
	}
	return nil
}

func (f *fakeStore) Prune(_ context.Context, _, _ int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruned++
	return 0, nil
}

func (f *fakeStore) Close() error { return nil }

type fakeScraper struct {
	calls   atomic.Int32
	release chan struct{}
	raw     []*models.RawListing
	err     error
}

func (f *fakeScraper) Scrape(ctx context.Context, _ string) ([]*models.RawListing, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.RawListing, len(f.raw))
	for i, r := range f.raw {
		c := *r
		out[i] = &c
	}
	return out, nil
}

func rawPage() []*models.RawListing {
	return []*models.RawListing{
		{Address: "Baker Street", RawPrice: "£500,000", RawBedrooms: "1", SizeText: "1,000 sq ft", URL: "https://www.rightmove.co.uk/properties/1"},
		{Address: "Abbey Road", RawPrice: "£750,000", RawBedrooms: "2", SizeText: "1,500 sq ft", URL: "https://www.rightmove.co.uk/properties/2"},
	}
}

const testOrigin = "https://www.rightmove.co.uk/property-for-sale/find.html?locationIdentifier=REGION%5E87490"

func TestPropertyServiceRejectsEmptyOrigin(t *testing.T) {
	svc := NewPropertyService(newFakeStore(), &fakeScraper{}, newTestLogger(), PropertyOptions{})
	if _, err := svc.Get(context.Background(), "  "); !errors.Is(err, ErrMissingOrigin) {
		t.Errorf("expected ErrMissingOrigin, got %v", err)
	}
}

func TestPropertyServiceServesStoredRows(t *testing.T) {
	store := newFakeStore()
	store.rows[testOrigin] = []models.Listing{
		{Title: "Stored", Price: models.Float(200000), Area: models.Float(800), URL: "u", SearchOrigin: testOrigin},
	}
	scraper := &fakeScraper{}
	svc := NewPropertyService(store, scraper, newTestLogger(), PropertyOptions{})

	resp, err := svc.Get(context.Background(), testOrigin)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if scraper.calls.Load() != 0 {
		t.Errorf("scraper should not run on a hit, ran %d times", scraper.calls.Load())
	}
	if len(resp.Properties) != 1 || resp.AveragePrice != 200000 || resp.PricePerSqFt != 250 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestPropertyServiceScrapesOnMiss(t *testing.T) {
	store := newFakeStore()
	scraper := &fakeScraper{raw: rawPage()}
	svc := NewPropertyService(store, scraper, newTestLogger(), PropertyOptions{QueryLimit: 37})

	resp, err := svc.Get(context.Background(), testOrigin)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(resp.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(resp.Properties))
	}
	if resp.Properties[0].SearchOrigin != testOrigin {
		t.Errorf("SearchOrigin = %q; want %q", resp.Properties[0].SearchOrigin, testOrigin)
	}
	if resp.AveragePrice != 625000 || resp.SqFtDistribution != "1000-1500" {
		t.Errorf("unexpected summary: %+v", resp.Summary)
	}
	if store.pruned != 1 {
		t.Errorf("expected one prune after write, got %d", store.pruned)
	}
}

func TestPropertyServiceNoProperties(t *testing.T) {
	svc := NewPropertyService(newFakeStore(), &fakeScraper{}, newTestLogger(), PropertyOptions{})
	if _, err := svc.Get(context.Background(), testOrigin); !errors.Is(err, ErrNoProperties) {
		t.Errorf("expected ErrNoProperties, got %v", err)
	}
}

func TestPropertyServiceWrapsScrapeError(t *testing.T) {
	boom := errors.New("browser crashed")
	svc := NewPropertyService(newFakeStore(), &fakeScraper{err: boom}, newTestLogger(), PropertyOptions{})

	_, err := svc.Get(context.Background(), testOrigin)
	if !errors.Is(err, ErrScrapeFailed) || !errors.Is(err, boom) {
		t.Errorf("expected ErrScrapeFailed wrapping cause, got %v", err)
	}
}

func TestPropertyServiceFetchError(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = errors.New("connection refused")
	svc := NewPropertyService(store, &fakeScraper{}, newTestLogger(), PropertyOptions{})

	if _, err := svc.Get(context.Background(), testOrigin); !errors.Is(err, store.fetchErr) {
		t.Errorf("expected fetch error, got %v", err)
	}
}

func TestPropertyServiceSharesConcurrentScrape(t *testing.T) {
	const callers = 5

	store := newFakeStore()
	var arrived sync.WaitGroup
	arrived.Add(callers)
	store.onFetch = func() {
		// Only the first fetch of each caller counts towards arrival.
		if store.fetches.Load() <= callers {
			arrived.Done()
		}
	}

	scraper := &fakeScraper{raw: rawPage(), release: make(chan struct{})}
	svc := NewPropertyService(store, scraper, newTestLogger(), PropertyOptions{})

	var wg sync.WaitGroup
	errs := make([]error, callers)
	counts := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.Get(context.Background(), testOrigin)
			errs[i] = err
			if resp != nil {
				counts[i] = len(resp.Properties)
			}
		}(i)
	}

	arrived.Wait()
	time.Sleep(50 * time.Millisecond)
	close(scraper.release)
	wg.Wait()

	if n := scraper.calls.Load(); n != 1 {
		t.Errorf("expected a single shared scrape, got %d", n)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Errorf("caller %d: %v", i, errs[i])
		}
		if counts[i] != 2 {
			t.Errorf("caller %d got %d properties; want 2", i, counts[i])
		}
	}
}
