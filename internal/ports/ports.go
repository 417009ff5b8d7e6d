package ports

import (
	"context"
	"time"

	"newswatch/internal/domain"
)

// Fetcher retrieves raw markup for a URL, honoring the site's rendering
// mode and proxy settings.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string, site domain.Site) (domain.Page, error)
}

// Renderer is an opaque full-page-render capability (headless browser or
// equivalent). It may be absent; the fetcher then degrades to static mode.
type Renderer interface {
	Render(ctx context.Context, pageURL string, timeout time.Duration) (string, error)
}

// Store persists sites, articles, and schedule state.
type Store interface {
	// InsertArticle is a single atomic insert-if-absent keyed on URL. It
	// reports whether a row was actually inserted; an existing URL is left
	// untouched.
	InsertArticle(ctx context.Context, article domain.Article) (id int64, inserted bool, err error)
	ExistsByURL(ctx context.Context, url string) (bool, error)

	SaveSite(ctx context.Context, site domain.Site) (int64, error)
	GetSite(ctx context.Context, id int64) (domain.Site, error)
	ListActiveSites(ctx context.Context) ([]domain.Site, error)

	SaveSchedule(ctx context.Context, entry domain.ScheduleEntry) error
	DeleteSchedule(ctx context.Context, siteID int64) error
}

// LogSink appends scrape-log records. The core never reads them back.
type LogSink interface {
	Append(ctx context.Context, record domain.ScrapeLog) error
}
