package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"newswatch/internal/domain"
	"newswatch/internal/infrastructure/parser"
	"newswatch/internal/ports"
)

const (
	maxArticlesPerRun = 10

	minArticleDelay = 500 * time.Millisecond
	maxArticleDelay = 1500 * time.Millisecond
)

// EngineDeps wires the fetcher, store, and log sink into the orchestrator.
type EngineDeps struct {
	Fetcher ports.Fetcher
	Store   ports.Store
	Logs    ports.LogSink
	Logger  *slog.Logger

	// Delay overrides the randomized inter-fetch delay; nil means the
	// default 0.5-1.5s sleep.
	Delay func(ctx context.Context)
}

// Engine runs one full scrape for one site: listing fetch, link discovery,
// per-article extraction, and dedup-gated insertion.
type Engine struct {
	fetcher ports.Fetcher
	store   ports.Store
	logs    ports.LogSink
	logger  *slog.Logger
	delay   func(ctx context.Context)
}

// NewEngine constructs the orchestration component.
func NewEngine(deps EngineDeps) *Engine {
	delay := deps.Delay
	if delay == nil {
		delay = randomDelay
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		fetcher: deps.Fetcher,
		store:   deps.Store,
		logs:    deps.Logs,
		logger:  logger,
		delay:   delay,
	}
}

// RunOnce executes one scrape run for the site and returns its summary. A
// listing fetch failure fails the run; per-article failures are absorbed
// and reported as warnings.
func (e *Engine) RunOnce(ctx context.Context, site domain.Site) domain.RunSummary {
	site.Normalize()

	summary := domain.RunSummary{RunID: uuid.New(), SiteID: site.ID}
	e.appendLog(ctx, site.ID, summary.RunID, domain.LogStart, "Starting scrape", 0)
	e.logger.Info("scrape run started", "site", site.Name, "run_id", summary.RunID)

	links, err := e.discoverLinks(ctx, site, &summary)
	if err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		e.appendLog(ctx, site.ID, summary.RunID, domain.LogError, err.Error(), 0)
		e.logger.Error("scrape run failed", "site", site.Name, "error", err)
		return summary
	}

	if len(links) > maxArticlesPerRun {
		links = links[:maxArticlesPerRun]
	}

	inserted := 0
	for i, link := range links {
		if link == site.URL {
			continue
		}

		// Bound the request rate before every fetch after the first.
		if i > 0 {
			e.delay(ctx)
		}

		article, err := e.scrapeArticle(ctx, link, site)
		if err != nil {
			msg := fmt.Sprintf("Error scraping article %s: %v", link, err)
			summary.Errors = append(summary.Errors, msg)
			e.appendLog(ctx, site.ID, summary.RunID, domain.LogWarning, msg, 0)
			e.logger.Warn("article skipped", "site", site.Name, "url", link, "error", err)
			continue
		}

		_, ok, err := e.store.InsertArticle(ctx, article)
		if err != nil {
			msg := fmt.Sprintf("Error storing article %s: %v", link, err)
			summary.Errors = append(summary.Errors, msg)
			e.appendLog(ctx, site.ID, summary.RunID, domain.LogWarning, msg, 0)
			e.logger.Warn("article not stored", "site", site.Name, "url", link, "error", err)
			continue
		}
		if ok {
			inserted++
		}
	}

	summary.Success = true
	summary.ArticlesScraped = inserted
	e.appendLog(ctx, site.ID, summary.RunID, domain.LogSuccess,
		fmt.Sprintf("Successfully scraped %d articles", inserted), inserted)
	e.logger.Info("scrape run finished", "site", site.Name, "run_id", summary.RunID, "inserted", inserted)
	return summary
}

// discoverLinks fetches the listing page (or declared feed) and returns
// candidate article URLs.
func (e *Engine) discoverLinks(ctx context.Context, site domain.Site, summary *domain.RunSummary) ([]string, error) {
	if site.FeedURL != "" {
		// Feeds are plain XML; never rendered.
		feedSite := site
		feedSite.UseRender = false

		page, err := e.fetcher.Fetch(ctx, site.FeedURL, feedSite)
		if err != nil {
			return nil, fmt.Errorf("fetch feed: %w", err)
		}
		links, err := parser.DiscoverFeedLinks(page.HTML)
		if err != nil {
			return nil, err
		}
		return links, nil
	}

	page, err := e.fetcher.Fetch(ctx, site.URL, site)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	if page.RenderFallback {
		msg := "Render capability unavailable, fell back to static fetch"
		e.appendLog(ctx, site.ID, summary.RunID, domain.LogWarning, msg, 0)
		e.logger.Warn("render fallback", "site", site.Name)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	base, err := url.Parse(site.URL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return parser.DiscoverLinks(doc, base), nil
}

// scrapeArticle fetches one article page and assembles the immutable
// article record from it.
func (e *Engine) scrapeArticle(ctx context.Context, link string, site domain.Site) (domain.Article, error) {
	page, err := e.fetcher.Fetch(ctx, link, site)
	if err != nil {
		return domain.Article{}, err
	}
	if page.RenderFallback {
		e.logger.Warn("render fallback", "site", site.Name, "url", link)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return domain.Article{}, fmt.Errorf("parse article: %w", err)
	}

	title := parser.ExtractField(doc, site.TitleSelectors)
	content := parser.ExtractField(doc, site.ContentSelectors)
	dateText := parser.ExtractField(doc, site.DateSelectors)
	category := parser.ExtractField(doc, site.CategorySelectors)
	if category == "" {
		category = site.Category
	}

	var published *time.Time
	if ts, ok := parser.NormalizeDate(dateText); ok {
		published = &ts
	}

	sentiment, score := parser.ScoreSentiment(content)

	return domain.Article{
		SiteID:         site.ID,
		Title:          title,
		URL:            link,
		Content:        content,
		Summary:        domain.Summarize(content),
		PublishedAt:    published,
		Category:       category,
		Sentiment:      sentiment,
		SentimentScore: score,
		ScrapedAt:      time.Now().UTC(),
	}, nil
}

func (e *Engine) appendLog(ctx context.Context, siteID int64, runID uuid.UUID, action domain.LogAction, message string, count int) {
	if e.logs == nil {
		return
	}
	record := domain.ScrapeLog{
		SiteID:          siteID,
		RunID:           runID,
		Action:          action,
		Message:         message,
		ArticlesScraped: count,
		CreatedAt:       time.Now().UTC(),
	}
	if err := e.logs.Append(ctx, record); err != nil {
		e.logger.Warn("log sink append failed", "error", err)
	}
}

func randomDelay(ctx context.Context) {
	d := minArticleDelay + time.Duration(rand.Int63n(int64(maxArticleDelay-minArticleDelay)))
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
