package domain

import "time"

// Built-in selector chains used when a site leaves a field chain empty.
var (
	DefaultTitleSelectors    = []string{"h1", ".title", ".article-title"}
	DefaultDateSelectors     = []string{"time", ".date", ".published"}
	DefaultContentSelectors  = []string{"article", ".content", ".article-content"}
	DefaultCategorySelectors = []string{".category", ".tag"}
)

const (
	DefaultCategory       = "General"
	DefaultScrapeInterval = time.Hour
)

// Site describes one configured news site. Read-only to the scrape core
// within a run.
type Site struct {
	ID       int64
	Name     string
	URL      string
	FeedURL  string
	Category string

	TitleSelectors    []string
	DateSelectors     []string
	ContentSelectors  []string
	CategorySelectors []string

	// UseRender requests a full-page render instead of a static fetch.
	UseRender bool

	ProxyHTTP  string
	ProxyHTTPS string

	Active         bool
	AutoScrape     bool
	ScrapeInterval time.Duration
}

// Normalize fills defaults in place. After Normalize no selector chain is
// empty and the scrape interval is positive.
func (s *Site) Normalize() {
	if len(s.TitleSelectors) == 0 {
		s.TitleSelectors = DefaultTitleSelectors
	}
	if len(s.DateSelectors) == 0 {
		s.DateSelectors = DefaultDateSelectors
	}
	if len(s.ContentSelectors) == 0 {
		s.ContentSelectors = DefaultContentSelectors
	}
	if len(s.CategorySelectors) == 0 {
		s.CategorySelectors = DefaultCategorySelectors
	}
	if s.Category == "" {
		s.Category = DefaultCategory
	}
	if s.ScrapeInterval <= 0 {
		s.ScrapeInterval = DefaultScrapeInterval
	}
}
