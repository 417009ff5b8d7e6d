package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sentiment classifies article body text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Article is one extracted article page, immutable once assembled.
type Article struct {
	ID             int64
	SiteID         int64
	Title          string
	URL            string
	Content        string
	Summary        string
	Author         string
	PublishedAt    *time.Time
	Category       string
	Sentiment      Sentiment
	SentimentScore float64
	ScrapedAt      time.Time
}

const summaryLimit = 200

// Summarize derives the stored summary from full content: the first 200
// characters plus an ellipsis marker when truncated.
func Summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryLimit {
		return content
	}
	return string(runes[:summaryLimit]) + "..."
}

// RunSummary is the per-invocation result of one scrape run. Transient; it
// is handed to the log sink and the schedule manager and not retained.
type RunSummary struct {
	RunID           uuid.UUID
	SiteID          int64
	Success         bool
	ArticlesScraped int
	Errors          []string
}

// LogAction enumerates scrape-log record kinds.
type LogAction string

const (
	LogStart   LogAction = "start"
	LogSuccess LogAction = "success"
	LogError   LogAction = "error"
	LogWarning LogAction = "warning"
)

// ScrapeLog is one append-only record emitted during a run.
type ScrapeLog struct {
	ID              int64
	SiteID          int64
	RunID           uuid.UUID
	Action          LogAction
	Message         string
	ArticlesScraped int
	CreatedAt       time.Time
}

// Page is one fetched document. RenderFallback is set when rendered mode was
// requested but the render capability was unavailable and the body came from
// a static fetch instead.
type Page struct {
	HTML           string
	RenderFallback bool
}
