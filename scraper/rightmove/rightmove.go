package rightmove

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"property-analytics/config"
	"property-analytics/models"
	"property-analytics/utils"
)

const (
	baseURL = "https://www.rightmove.co.uk"
	// pageSize is the number of result cards Rightmove shows per index step.
	pageSize = 24
)

// Scraper loads Rightmove search result pages in a headless browser.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Rightmove Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

type cardData struct {
	Address   string `json:"address"`
	Price     string `json:"price"`
	Bedrooms  string `json:"bedrooms"`
	Bathrooms string `json:"bathrooms"`
	AddedOn   string `json:"addedOn"`
	URL       string `json:"url"`
}

// Scrape walks PagesToScrape result pages of searchURL and returns the raw
// cards, each enriched with the size text from its detail page.
func (s *Scraper) Scrape(ctx context.Context, searchURL string) ([]*models.RawListing, error) {
	s.logger.Info("[rightmove] Starting scrape of %s (%d pages)", searchURL, s.cfg.PagesToScrape)

	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Info("[rightmove] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...any) {}))
	defer cancelBrowser()

	// Start the browser once so every page and detail tab shares it.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("rightmove: start browser: %w", err)
	}

	visited := utils.NewURLSet()
	pool := utils.NewWorkerPool(s.cfg.MaxConcurrency, time.Duration(s.cfg.RateLimitMs)*time.Millisecond)

	var listings []*models.RawListing
	pages := max(s.cfg.PagesToScrape, 1)
	for page := 0; page < pages; page++ {
		pageURL := PageURL(searchURL, page)
		s.logger.Info("[rightmove] Scraping page %d: %s", page+1, pageURL)

		cards, err := s.scrapePage(browserCtx, pageURL, page+1)
		if err != nil {
			if page == 0 {
				return nil, fmt.Errorf("rightmove: first page: %w", err)
			}
			s.logger.Error("[rightmove] Page %d failed: %v", page+1, err)
			break
		}
		if len(cards) == 0 {
			s.logger.Warn("[rightmove] Page %d returned 0 cards, stopping", page+1)
			break
		}

		pageListings := make([]*models.RawListing, 0, len(cards))
		for _, c := range cards {
			u := absoluteURL(c.URL)
			if u == "" || !visited.Add(u) {
				s.logger.Debug("[rightmove] Skipping empty or duplicate card: %q", c.URL)
				continue
			}
			pageListings = append(pageListings, &models.RawListing{
				Address:      c.Address,
				RawPrice:     c.Price,
				RawBedrooms:  c.Bedrooms,
				RawBathrooms: c.Bathrooms,
				AddedOn:      c.AddedOn,
				URL:          u,
				SearchOrigin: searchURL,
				ScrapedAt:    time.Now().UTC(),
			})
		}

		s.enrichSizes(browserCtx, pool, pageListings)
		listings = append(listings, pageListings...)
		s.logger.Info("[rightmove] Page %d done, %d listings so far", page+1, len(listings))

		if ctx.Err() != nil {
			return listings, ctx.Err()
		}
	}

	s.logger.Info("[rightmove] Scrape complete, total raw listings: %d", len(listings))
	return listings, nil
}

// PageURL returns the result page URL for a zero-based page number by
// setting Rightmove's index query parameter.
func PageURL(searchURL string, page int) string {
	index := strconv.Itoa(page * pageSize)
	u, err := url.Parse(searchURL)
	if err != nil {
		return searchURL + "&index=" + index
	}
	q := u.Query()
	q.Set("index", index)
	u.RawQuery = q.Encode()
	return u.String()
}

func absoluteURL(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return baseURL + href
	}
	return baseURL + "/" + href
}

// acceptCookies clicks the consent banner when one shows up.
func acceptCookies() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		_ = chromedp.Click(`//button[contains(text(), 'Accept all')]`, chromedp.BySearch).Do(tctx)
		return nil
	})
}

// scrapePage loads one search results page and extracts the property cards.
func (s *Scraper) scrapePage(browserCtx context.Context, pageURL string, pageNum int) ([]cardData, error) {
	var cards []cardData

	err := s.retry.Do(browserCtx, fmt.Sprintf("scrape-page-%d", pageNum), func(context.Context) error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 90*time.Second)
		defer cancelTimeout()

		cards = nil
		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			acceptCookies(),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(cardsScript, &cards),
		)
		if err != nil {
			return fmt.Errorf("chromedp page scrape: %w", err)
		}
		return nil
	})

	s.logger.Debug("[rightmove] Page %d: found %d cards", pageNum, len(cards))
	return cards, err
}

// enrichSizes visits each detail page through the pool and records the
// lines mentioning square footage.
func (s *Scraper) enrichSizes(browserCtx context.Context, pool *utils.WorkerPool, listings []*models.RawListing) {
	for _, l := range listings {
		l := l // per-iteration copy (pre-Go 1.22 loop semantics)
		pool.Submit(func() {
			text, err := s.scrapeDetailPage(browserCtx, l.URL)
			if err != nil {
				s.logger.Warn("[rightmove] Detail page failed for %s: %v", l.URL, err)
				return
			}
			l.SizeText = text
		})
	}
	pool.Wait()
}

func (s *Scraper) scrapeDetailPage(browserCtx context.Context, pageURL string) (string, error) {
	var sizeText string

	err := s.retry.Do(browserCtx, "detail-page", func(context.Context) error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		return chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Evaluate(sizeScript, &sizeText),
		)
	})
	return sizeText, err
}

const cardsScript = `
(function() {
	var cards = document.querySelectorAll('div.propertyCard');
	if (cards.length === 0) {
		cards = document.querySelectorAll('[data-testid^="propertyCard"], div[class*="PropertyCard_propertyCardContainer"]');
	}

	function text(el) { return el ? (el.innerText || el.textContent || '').trim() : ''; }

	var results = [];
	for (var i = 0; i < cards.length; i++) {
		var card = cards[i];

		var addrMeta = card.querySelector('meta[itemprop="streetAddress"]');
		var address = addrMeta ? addrMeta.getAttribute('content') : text(card.querySelector('address'));

		var beds = text(card.querySelector('span.no-svg-bed-icon + span')) ||
		           text(card.querySelector('[class*="bedroomsCount"]'));
		var baths = text(card.querySelector('span.no-svg-bathroom-icon + span')) ||
		            text(card.querySelector('[class*="bathroomsCount"]'));

		var price = text(card.querySelector('div.propertyCard-priceValue')) ||
		            text(card.querySelector('[class*="PropertyPrice_price"]'));

		var added = text(card.querySelector('span.propertyCard-branchSummary-addedOrReduced')) ||
		            text(card.querySelector('[class*="MarketedBy_addedOrReduced"]'));

		var link = card.querySelector('a.propertyCard-link') || card.querySelector('a[href*="/properties/"]');
		var href = link ? link.getAttribute('href') : '';

		if (!href) continue;
		results.push({address: address || '', price: price, bedrooms: beds, bathrooms: baths, addedOn: added, url: href});
	}
	return results;
})()
`

const sizeScript = `
(function() {
	var lines = (document.body.innerText || '').split('\n');
	var hits = [];
	for (var i = 0; i < lines.length && hits.length < 5; i++) {
		var l = lines[i].trim();
		if (/sq\.?\s*ft/i.test(l)) hits.push(l);
	}
	return hits.join(' | ');
})()
`

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
