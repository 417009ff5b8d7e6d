package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newswatch/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedSite(t *testing.T, store *Store) int64 {
	t.Helper()
	id, err := store.SaveSite(context.Background(), domain.Site{
		Name:   "Example News",
		URL:    "https://news.example.com",
		Active: true,
	})
	require.NoError(t, err)
	return id
}

func TestInsertArticleIsInsertIfAbsent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	siteID := seedSite(t, store)

	article := domain.Article{
		SiteID:    siteID,
		Title:     "First",
		URL:       "https://news.example.com/article/1",
		Content:   "body",
		Summary:   "body",
		Sentiment: domain.SentimentNeutral,
	}

	id, inserted, err := store.InsertArticle(ctx, article)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, id)

	// Same URL again: the existing record must be left untouched.
	article.Title = "Republished"
	_, inserted, err = store.InsertArticle(ctx, article)
	require.NoError(t, err)
	assert.False(t, inserted)

	exists, err := store.ExistsByURL(ctx, article.URL)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.ExistsByURL(ctx, "https://news.example.com/other")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSaveSiteUpsertsByURL(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := seedSite(t, store)

	id, err := store.SaveSite(ctx, domain.Site{
		Name:           "Renamed",
		URL:            "https://news.example.com",
		UseRender:      true,
		Active:         true,
		AutoScrape:     true,
		ScrapeInterval: 30 * time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, first, id, "same URL must keep the same site id")

	site, err := store.GetSite(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", site.Name)
	assert.True(t, site.UseRender)
	assert.True(t, site.AutoScrape)
	assert.Equal(t, 30*time.Minute, site.ScrapeInterval)
	assert.Equal(t, domain.DefaultTitleSelectors, site.TitleSelectors, "empty chains come back defaulted")
}

func TestGetSiteNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	_, err := store.GetSite(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrSiteNotFound)
}

func TestListActiveSitesSkipsInactive(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveSite(ctx, domain.Site{Name: "Active", URL: "https://a.example.com", Active: true})
	require.NoError(t, err)
	_, err = store.SaveSite(ctx, domain.Site{Name: "Dormant", URL: "https://b.example.com", Active: false})
	require.NoError(t, err)

	sites, err := store.ListActiveSites(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "Active", sites[0].Name)
}

func TestSaveAndDeleteSchedule(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	siteID := seedSite(t, store)

	now := time.Now().UTC()
	entry := domain.ScheduleEntry{
		SiteID:         siteID,
		Interval:       time.Hour,
		Active:         true,
		LastRun:        &now,
		TotalRuns:      3,
		SuccessfulRuns: 2,
	}
	require.NoError(t, store.SaveSchedule(ctx, entry))

	entry.TotalRuns = 4
	require.NoError(t, store.SaveSchedule(ctx, entry), "second save upserts the same row")

	require.NoError(t, store.DeleteSchedule(ctx, siteID))
	require.NoError(t, store.DeleteSchedule(ctx, siteID), "deleting a missing schedule is a no-op")
}

func TestAppendLog(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	siteID := seedSite(t, store)

	require.NoError(t, store.Append(ctx, domain.ScrapeLog{
		SiteID:          siteID,
		RunID:           uuid.New(),
		Action:          domain.LogSuccess,
		Message:         "Successfully scraped 3 articles",
		ArticlesScraped: 3,
	}))

	// Sink records may omit the site association.
	require.NoError(t, store.Append(ctx, domain.ScrapeLog{
		RunID:   uuid.New(),
		Action:  domain.LogError,
		Message: "boom",
	}))
}

func TestSelectorChainRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveSite(ctx, domain.Site{
		Name:           "Custom",
		URL:            "https://c.example.com",
		TitleSelectors: []string{"h1.headline", ".post-title"},
		DateSelectors:  []string{"time[datetime]"},
		Active:         true,
	})
	require.NoError(t, err)

	site, err := store.GetSite(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"h1.headline", ".post-title"}, site.TitleSelectors)
	assert.Equal(t, []string{"time[datetime]"}, site.DateSelectors)
}
