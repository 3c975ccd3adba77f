// Package scrapestore keeps a history of scrape outcomes in sqlite so
// repeated runs can be audited and failures investigated later.
package scrapestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"
	"vendorscrape/lib/catalog"
	"vendorscrape/lib/scraper"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Open opens (and migrates) a sqlite scrape history at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (Store, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	if _, err := database.Exec(Schema); err != nil {
		database.Close()
		return Store{}, err
	}
	return NewStore(database), nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// Entry is one stored scrape outcome. Record is nil for failures and
// for rows whose stored JSON no longer parses.
type Entry struct {
	ID           int64
	Vendor       string
	PartNumber   string
	URL          string
	Success      bool
	ErrorMessage string
	HTTPStatus   int
	ElapsedMs    int64
	Record       *catalog.CanonicalRecord
	ScrapedAt    time.Time
}

// Push stores the outcome of one scrape.
func (s Store) Push(ctx context.Context, url string, vendor string, result *scraper.Result) error {
	var partNumber string
	var recordJSON any
	scrapedAt := time.Now()
	if result.Record != nil {
		partNumber = result.Record.VendorPartNumber
		scrapedAt = result.Record.ScrapedAt
		data, err := json.Marshal(result.Record)
		if err != nil {
			return err
		}
		recordJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		insert into scrapes
			(vendor, part_number, url, success, error_message, http_status, elapsed_ms, record, scraped_at)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		vendor,
		partNumber,
		url,
		result.Success,
		result.ErrorMessage,
		result.HTTPStatus,
		result.ElapsedMs,
		recordJSON,
		scrapedAt.Unix(),
	)
	return err
}

// Recent returns the newest entries first, at most limit of them.
// Pass an empty vendor to include every vendor.
func (s Store) Recent(ctx context.Context, vendor string, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, vendor, part_number, url, success, error_message, http_status, elapsed_ms, record, scraped_at
		from scrapes
		where (?1 = '' or vendor = ?1)
		order by scraped_at desc, id desc
		limit ?2`,
		vendor, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var recordJSON sql.NullString
		var scrapedAt int64
		err := rows.Scan(
			&entry.ID,
			&entry.Vendor,
			&entry.PartNumber,
			&entry.URL,
			&entry.Success,
			&entry.ErrorMessage,
			&entry.HTTPStatus,
			&entry.ElapsedMs,
			&recordJSON,
			&scrapedAt,
		)
		if err != nil {
			return nil, err
		}
		entry.ScrapedAt = time.Unix(scrapedAt, 0)
		if recordJSON.Valid {
			var record catalog.CanonicalRecord
			if err := json.Unmarshal([]byte(recordJSON.String), &record); err != nil {
				slog.WarnContext(ctx, "failed to unmarshal stored record", "id", entry.ID, "err", err)
			} else {
				entry.Record = &record
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// VendorStats is the per-vendor success/failure tally.
type VendorStats struct {
	Vendor    string
	Succeeded int64
	Failed    int64
}

// Stats tallies outcomes per vendor over the whole history.
func (s Store) Stats(ctx context.Context) ([]VendorStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		select vendor,
			sum(case when success then 1 else 0 end),
			sum(case when success then 0 else 1 end)
		from scrapes
		group by vendor
		order by vendor`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []VendorStats
	for rows.Next() {
		var row VendorStats
		if err := rows.Scan(&row.Vendor, &row.Succeeded, &row.Failed); err != nil {
			return nil, err
		}
		stats = append(stats, row)
	}
	return stats, rows.Err()
}
