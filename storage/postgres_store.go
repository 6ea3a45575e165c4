package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"property-analytics/models"
)

const (
	insertColumns = 10
	batchSize     = 50
)

// PostgresStore persists cleaned listings to PostgreSQL, keyed by the search
// URL they were scraped from.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS properties (
			id                SERIAL PRIMARY KEY,
			search_url_origin TEXT          NOT NULL,
			title             TEXT          NOT NULL DEFAULT '',
			address           TEXT          NOT NULL DEFAULT '',
			price             NUMERIC(14,2),
			bedrooms          INTEGER,
			bathrooms         INTEGER,
			square_footage    NUMERIC(10,2),
			added_on          TEXT          NOT NULL DEFAULT '',
			property_url      TEXT          NOT NULL,
			scraped_at        TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
			UNIQUE (search_url_origin, property_url)
		);

		CREATE INDEX IF NOT EXISTS idx_properties_origin     ON properties(search_url_origin);
		CREATE INDEX IF NOT EXISTS idx_properties_scraped_at ON properties(scraped_at);
	`)
	return err
}

// Write batch-inserts cleaned listings. Rows already stored for the same
// search origin and URL are left untouched.
func (ps *PostgresStore) Write(ctx context.Context, listings []models.Listing) error {
	for i := 0; i < len(listings); i += batchSize {
		end := min(i+batchSize, len(listings))
		query, args := buildInsert(listings[i:end])
		if _, err := ps.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}
	return nil
}

func buildInsert(batch []models.Listing) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*insertColumns)

	for idx, l := range batch {
		base := idx * insertColumns
		placeholders := make([]string, insertColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		scrapedAt := l.ScrapedAt
		if scrapedAt.IsZero() {
			scrapedAt = time.Now().UTC()
		}
		valueArgs = append(valueArgs,
			l.SearchOrigin, l.Title, l.Address, nullFloat(l.Price), nullInt(l.Bedrooms),
			nullInt(l.Bathrooms), nullFloat(l.Area), l.AddedOn, l.URL, scrapedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO properties (search_url_origin, title, address, price, bedrooms,
			bathrooms, square_footage, added_on, property_url, scraped_at)
		VALUES %s
		ON CONFLICT (search_url_origin, property_url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	return query, valueArgs
}

// FetchBySearchOrigin returns up to limit listings stored for origin, in
// insertion order.
func (ps *PostgresStore) FetchBySearchOrigin(ctx context.Context, origin string, limit int) ([]models.Listing, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, search_url_origin, title, address, price, bedrooms, bathrooms,
		       square_footage, added_on, property_url, scraped_at
		FROM properties
		WHERE search_url_origin = $1
		ORDER BY id
		LIMIT $2
	`, origin, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch %q: %w", origin, err)
	}
	defer rows.Close()

	listings := make([]models.Listing, 0, limit)
	for rows.Next() {
		var (
			l                   models.Listing
			price, area         sql.NullFloat64
			bedrooms, bathrooms sql.NullInt64
		)
		if err := rows.Scan(
			&l.ID, &l.SearchOrigin, &l.Title, &l.Address, &price, &bedrooms,
			&bathrooms, &area, &l.AddedOn, &l.URL, &l.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l.Price = floatPtr(price)
		l.Area = floatPtr(area)
		l.Bedrooms = intPtr(bedrooms)
		l.Bathrooms = intPtr(bathrooms)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Prune keeps the table bounded: once it holds more than maxEntries rows,
// every row of the dropOrigins search origins with the earliest scrape time
// is deleted. It returns the number of rows removed.
func (ps *PostgresStore) Prune(ctx context.Context, maxEntries, dropOrigins int) (int64, error) {
	var count int64
	if err := ps.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	if count <= int64(maxEntries) || dropOrigins <= 0 {
		return 0, nil
	}

	res, err := ps.db.ExecContext(ctx, `
		DELETE FROM properties
		WHERE search_url_origin IN (
			SELECT search_url_origin
			FROM properties
			GROUP BY search_url_origin
			ORDER BY MIN(scraped_at)
			LIMIT $1
		)
	`, dropOrigins)
	if err != nil {
		return 0, fmt.Errorf("postgres: prune: %w", err)
	}
	return res.RowsAffected()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
