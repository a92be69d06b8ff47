package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pagelens/pagelens/internal/model"
)

// DefaultCacheTTL is how long cached fetch results stay valid.
const DefaultCacheTTL = time.Hour

// Store provides SQLite-based storage for the fetch cache and report
// history. It satisfies fetch.Cache, so the fetch client can read
// through it transparently.
//
// Design decision: One database file holds both the cache and the
// report history. This keeps backup/cleanup a single-file operation and
// lets history queries join against cached fetches.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// cacheTTL bounds how long cached fetches are served.
	cacheTTL time.Duration
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance.
	EnableWAL bool

	// CacheTTL overrides the fetch-cache TTL. Zero means DefaultCacheTTL.
	CacheTTL time.Duration
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		CacheTTL:          DefaultCacheTTL,
	}
}

// Open opens or creates a Store at the specified directory.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "pagelens.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to forbid creating new files and
	// mode=rwc to allow it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	store := &Store{
		db:       db,
		dbPath:   dbPath,
		cacheTTL: ttl,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Fetch cache stores raw page HTML keyed by URL
	CREATE TABLE IF NOT EXISTS fetch_cache (
		url TEXT PRIMARY KEY,
		html TEXT NOT NULL,
		used_fallback INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cache_fetched ON fetch_cache(fetched_at);

	-- Report history stores complete extraction reports as JSON
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		domain TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		seo_score INTEGER,
		content_score INTEGER,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_url ON reports(url);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON reports(timestamp);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Get returns a cached fetch result for the URL when present and fresh.
// Expired entries are treated as misses. Lookup failures are misses
// too; the cache must never fail a fetch.
func (s *Store) Get(ctx context.Context, url string) (*model.FetchResult, bool) {
	row := s.db.QueryRowContext(ctx,
		"SELECT html, used_fallback, fetched_at FROM fetch_cache WHERE url = ?", url)

	var html string
	var usedFallback bool
	var fetchedAt time.Time
	if err := row.Scan(&html, &usedFallback, &fetchedAt); err != nil {
		return nil, false
	}

	if time.Since(fetchedAt) > s.cacheTTL {
		return nil, false
	}

	return &model.FetchResult{
		HTML:         html,
		UsedFallback: usedFallback,
		FetchedAt:    fetchedAt,
	}, true
}

// Put stores a fetch result, replacing any previous entry for the URL.
func (s *Store) Put(ctx context.Context, url string, result *model.FetchResult) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO fetch_cache (url, html, used_fallback, fetched_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		html = excluded.html,
		used_fallback = excluded.used_fallback,
		fetched_at = excluded.fetched_at
	`, url, result.HTML, result.UsedFallback, result.FetchedAt)
	if err != nil {
		return fmt.Errorf("store fetch cache entry: %w", err)
	}
	return nil
}

// PruneCache deletes cache entries older than the TTL and returns how
// many were removed.
func (s *Store) PruneCache(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM fetch_cache WHERE fetched_at < ?", time.Now().Add(-s.cacheTTL))
	if err != nil {
		return 0, fmt.Errorf("prune fetch cache: %w", err)
	}
	return res.RowsAffected()
}

// ReportRecord is one stored extraction report row.
type ReportRecord struct {
	ID           int64
	URL          string
	Domain       string
	Timestamp    time.Time
	SEOScore     int
	ContentScore int
	Report       *model.ExtractionReport
}

// SaveReport stores a completed extraction report in the history table.
func (s *Store) SaveReport(ctx context.Context, report *model.ExtractionReport) (int64, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("serialize report: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
	INSERT INTO reports (url, domain, timestamp, seo_score, content_score, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		report.Page.URL,
		report.Page.Domain,
		report.Page.Timestamp,
		report.SEOHealth.OverallScore,
		report.Summary.OverallContentScore,
		string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("store report: %w", err)
	}
	return res.LastInsertId()
}

// RecentReports returns the most recent stored reports, newest first.
func (s *Store) RecentReports(ctx context.Context, limit int) ([]*ReportRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT id, url, domain, timestamp, seo_score, content_score, report_json
	FROM reports ORDER BY timestamp DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*ReportRecord, 0, limit)
	for rows.Next() {
		var rec ReportRecord
		var reportJSON string
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Domain, &rec.Timestamp,
			&rec.SEOScore, &rec.ContentScore, &reportJSON); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}

		var report model.ExtractionReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			return nil, fmt.Errorf("deserialize report %d: %w", rec.ID, err)
		}
		rec.Report = &report

		records = append(records, &rec)
	}
	return records, rows.Err()
}

// ReportsForURL returns stored reports for one URL, newest first.
func (s *Store) ReportsForURL(ctx context.Context, url string, limit int) ([]*ReportRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT id, url, domain, timestamp, seo_score, content_score, report_json
	FROM reports WHERE url = ? ORDER BY timestamp DESC LIMIT ?
	`, url, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports for url: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*ReportRecord, 0, limit)
	for rows.Next() {
		var rec ReportRecord
		var reportJSON string
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Domain, &rec.Timestamp,
			&rec.SEOScore, &rec.ContentScore, &reportJSON); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}

		var report model.ExtractionReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			return nil, fmt.Errorf("deserialize report %d: %w", rec.ID, err)
		}
		rec.Report = &report

		records = append(records, &rec)
	}
	return records, rows.Err()
}
