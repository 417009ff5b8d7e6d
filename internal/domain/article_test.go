package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeShortContentUnchanged(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "brief", Summarize("brief"))
	assert.Equal(t, "", Summarize(""))
}

func TestSummarizeExactBoundary(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("a", 200)
	assert.Equal(t, content, Summarize(content))
}

func TestSummarizeTruncatesWithEllipsis(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("a", 201)
	got := Summarize(content)
	assert.Equal(t, strings.Repeat("a", 200)+"...", got)
}

func TestSummarizeCountsRunesNotBytes(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("ä", 200)
	assert.Equal(t, content, Summarize(content))
}

func TestSiteNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	site := Site{Name: "n", URL: "https://example.com"}
	site.Normalize()

	assert.Equal(t, DefaultTitleSelectors, site.TitleSelectors)
	assert.Equal(t, DefaultDateSelectors, site.DateSelectors)
	assert.Equal(t, DefaultContentSelectors, site.ContentSelectors)
	assert.Equal(t, DefaultCategorySelectors, site.CategorySelectors)
	assert.Equal(t, DefaultCategory, site.Category)
	assert.Equal(t, DefaultScrapeInterval, site.ScrapeInterval)
}

func TestSiteNormalizeKeepsExplicitChains(t *testing.T) {
	t.Parallel()

	site := Site{
		TitleSelectors: []string{".custom-title"},
		ScrapeInterval: 42,
	}
	site.Normalize()

	assert.Equal(t, []string{".custom-title"}, site.TitleSelectors)
	assert.Equal(t, DefaultDateSelectors, site.DateSelectors)
}
