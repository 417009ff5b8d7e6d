package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"newswatch/internal/domain"
	"newswatch/internal/ports"
)

const timeLayout = time.RFC3339

// Store persists sites, articles, schedules, and scrape logs in SQLite.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var (
	_ ports.Store   = (*Store)(nil)
	_ ports.LogSink = (*Store)(nil)
)

// ErrSiteNotFound is returned when a site id has no row.
var ErrSiteNotFound = errors.New("site not found")

// New opens (or creates) the database at path and ensures the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS websites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		feed_url TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'General',
		title_selector TEXT NOT NULL,
		date_selector TEXT NOT NULL,
		content_selector TEXT NOT NULL,
		category_selector TEXT NOT NULL,
		use_render INTEGER NOT NULL DEFAULT 0,
		proxy_http TEXT NOT NULL DEFAULT '',
		proxy_https TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		auto_scrape INTEGER NOT NULL DEFAULT 0,
		scrape_interval INTEGER NOT NULL DEFAULT 3600,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		website_id INTEGER NOT NULL REFERENCES websites(id),
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		published_date TEXT,
		category TEXT NOT NULL DEFAULT '',
		sentiment TEXT NOT NULL DEFAULT 'neutral',
		sentiment_score REAL NOT NULL DEFAULT 0,
		scraped_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scrape_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		website_id INTEGER,
		run_id TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		articles_scraped INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schedules (
		site_id INTEGER PRIMARY KEY REFERENCES websites(id),
		interval_seconds INTEGER NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		last_run TEXT,
		next_run TEXT,
		total_runs INTEGER NOT NULL DEFAULT 0,
		successful_runs INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	);`

	_, err := s.db.Exec(schema)
	return err
}

// InsertArticle inserts the article unless its URL already exists. The
// conflict clause makes check-and-insert a single atomic statement, safe
// under concurrently ticking site timers.
func (s *Store) InsertArticle(ctx context.Context, article domain.Article) (int64, bool, error) {
	var published interface{}
	if article.PublishedAt != nil {
		published = article.PublishedAt.UTC().Format(timeLayout)
	}

	scrapedAt := article.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now().UTC()
	}

	query := s.sb.Insert("articles").
		Columns("website_id", "title", "url", "content", "summary", "author",
			"published_date", "category", "sentiment", "sentiment_score", "scraped_at").
		Values(article.SiteID, article.Title, article.URL, article.Content,
			article.Summary, article.Author, published, article.Category,
			string(article.Sentiment), article.SentimentScore, scrapedAt.UTC().Format(timeLayout)).
		Suffix("ON CONFLICT(url) DO NOTHING")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, false, fmt.Errorf("insert article: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return 0, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("last insert id: %w", err)
	}
	return id, true, nil
}

// ExistsByURL reports whether an article with this URL is already stored.
func (s *Store) ExistsByURL(ctx context.Context, url string) (bool, error) {
	sqlStr, args, err := s.sb.Select("1").From("articles").Where(sq.Eq{"url": url}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query exists: %w", err)
	}
	return true, nil
}

// SaveSite upserts a site keyed on URL and returns its id.
func (s *Store) SaveSite(ctx context.Context, site domain.Site) (int64, error) {
	site.Normalize()
	now := time.Now().UTC().Format(timeLayout)

	query := s.sb.Insert("websites").
		Columns("name", "url", "feed_url", "category",
			"title_selector", "date_selector", "content_selector", "category_selector",
			"use_render", "proxy_http", "proxy_https",
			"is_active", "auto_scrape", "scrape_interval", "created_at", "updated_at").
		Values(site.Name, site.URL, site.FeedURL, site.Category,
			joinChain(site.TitleSelectors), joinChain(site.DateSelectors),
			joinChain(site.ContentSelectors), joinChain(site.CategorySelectors),
			site.UseRender, site.ProxyHTTP, site.ProxyHTTPS,
			site.Active, site.AutoScrape, int64(site.ScrapeInterval/time.Second), now, now).
		Suffix(`ON CONFLICT(url) DO UPDATE SET
			name = excluded.name,
			feed_url = excluded.feed_url,
			category = excluded.category,
			title_selector = excluded.title_selector,
			date_selector = excluded.date_selector,
			content_selector = excluded.content_selector,
			category_selector = excluded.category_selector,
			use_render = excluded.use_render,
			proxy_http = excluded.proxy_http,
			proxy_https = excluded.proxy_https,
			is_active = excluded.is_active,
			auto_scrape = excluded.auto_scrape,
			scrape_interval = excluded.scrape_interval,
			updated_at = excluded.updated_at`)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build site upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return 0, fmt.Errorf("upsert site: %w", err)
	}

	sqlStr, args, err = s.sb.Select("id").From("websites").Where(sq.Eq{"url": site.URL}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build site id query: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("query site id: %w", err)
	}
	return id, nil
}

var siteColumns = []string{
	"id", "name", "url", "feed_url", "category",
	"title_selector", "date_selector", "content_selector", "category_selector",
	"use_render", "proxy_http", "proxy_https",
	"is_active", "auto_scrape", "scrape_interval",
}

// GetSite loads one site by id.
func (s *Store) GetSite(ctx context.Context, id int64) (domain.Site, error) {
	sqlStr, args, err := s.sb.Select(siteColumns...).From("websites").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Site{}, fmt.Errorf("build site query: %w", err)
	}

	site, err := scanSite(s.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Site{}, ErrSiteNotFound
	}
	if err != nil {
		return domain.Site{}, fmt.Errorf("scan site: %w", err)
	}
	return site, nil
}

// ListActiveSites returns all active sites ordered by id.
func (s *Store) ListActiveSites(ctx context.Context) ([]domain.Site, error) {
	sqlStr, args, err := s.sb.Select(siteColumns...).From("websites").
		Where(sq.Eq{"is_active": true}).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sites query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query sites: %w", err)
	}
	defer rows.Close()

	var sites []domain.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return sites, nil
}

// SaveSchedule upserts the schedule row for one site.
func (s *Store) SaveSchedule(ctx context.Context, entry domain.ScheduleEntry) error {
	query := s.sb.Insert("schedules").
		Columns("site_id", "interval_seconds", "is_active", "last_run", "next_run",
			"total_runs", "successful_runs", "updated_at").
		Values(entry.SiteID, int64(entry.Interval/time.Second), entry.Active,
			nullableTime(entry.LastRun), nullableTime(entry.NextRun),
			entry.TotalRuns, entry.SuccessfulRuns, time.Now().UTC().Format(timeLayout)).
		Suffix(`ON CONFLICT(site_id) DO UPDATE SET
			interval_seconds = excluded.interval_seconds,
			is_active = excluded.is_active,
			last_run = excluded.last_run,
			next_run = excluded.next_run,
			total_runs = excluded.total_runs,
			successful_runs = excluded.successful_runs,
			updated_at = excluded.updated_at`)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build schedule upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

// DeleteSchedule removes the schedule row for one site; no-op when absent.
func (s *Store) DeleteSchedule(ctx context.Context, siteID int64) error {
	sqlStr, args, err := s.sb.Delete("schedules").Where(sq.Eq{"site_id": siteID}).ToSql()
	if err != nil {
		return fmt.Errorf("build schedule delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

// Append writes one scrape-log record.
func (s *Store) Append(ctx context.Context, record domain.ScrapeLog) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var siteID interface{}
	if record.SiteID != 0 {
		siteID = record.SiteID
	}

	query := s.sb.Insert("scrape_logs").
		Columns("website_id", "run_id", "action", "message", "articles_scraped", "created_at").
		Values(siteID, record.RunID.String(), string(record.Action), record.Message,
			record.ArticlesScraped, createdAt.UTC().Format(timeLayout))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build log insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSite(row rowScanner) (domain.Site, error) {
	var (
		site            domain.Site
		titleChain      string
		dateChain       string
		contentChain    string
		categoryChain   string
		intervalSeconds int64
	)

	err := row.Scan(&site.ID, &site.Name, &site.URL, &site.FeedURL, &site.Category,
		&titleChain, &dateChain, &contentChain, &categoryChain,
		&site.UseRender, &site.ProxyHTTP, &site.ProxyHTTPS,
		&site.Active, &site.AutoScrape, &intervalSeconds)
	if err != nil {
		return domain.Site{}, err
	}

	site.TitleSelectors = splitChain(titleChain)
	site.DateSelectors = splitChain(dateChain)
	site.ContentSelectors = splitChain(contentChain)
	site.CategorySelectors = splitChain(categoryChain)
	site.ScrapeInterval = time.Duration(intervalSeconds) * time.Second
	site.Normalize()
	return site, nil
}

func joinChain(chain []string) string {
	return strings.Join(chain, ",")
}

func splitChain(joined string) []string {
	var chain []string
	for _, part := range strings.Split(joined, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			chain = append(chain, part)
		}
	}
	return chain
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}
