package parser

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBase(t *testing.T, raw string) *url.URL {
	t.Helper()
	base, err := url.Parse(raw)
	require.NoError(t, err)
	return base
}

func TestDiscoverLinksFirstPatternWins(t *testing.T) {
	t.Parallel()

	// Both "article a" and "h2 a" would match; only the first pattern's
	// links may appear -- patterns are never merged.
	doc := mustDoc(t, `
		<article><a href="/article/one">One</a></article>
		<h2><a href="/heading/two">Two</a></h2>`)

	links := DiscoverLinks(doc, mustBase(t, "https://news.example.com"))
	assert.Equal(t, []string{"https://news.example.com/article/one"}, links)
}

func TestDiscoverLinksFallsThroughPatterns(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `
		<h3><a href="/a">A</a></h3>
		<h3><a href="/b">B</a></h3>`)

	links := DiscoverLinks(doc, mustBase(t, "https://news.example.com"))
	assert.Equal(t, []string{
		"https://news.example.com/a",
		"https://news.example.com/b",
	}, links, "document order must be preserved")
}

func TestDiscoverLinksDropsFragmentAndScriptHrefs(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<article>
		<a href="#comments">comments</a>
		<a href="javascript:void(0)">popup</a>
		<a href="/article/real">real</a>
	</article>`)

	links := DiscoverLinks(doc, mustBase(t, "https://news.example.com"))
	assert.Equal(t, []string{"https://news.example.com/article/real"}, links)
}

func TestDiscoverLinksCapsAtTwenty(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("<article>")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, `<a href="/article/%d">n</a>`, i)
	}
	sb.WriteString("</article>")

	links := DiscoverLinks(mustDoc(t, sb.String()), mustBase(t, "https://news.example.com"))
	require.Len(t, links, 20)
	assert.Equal(t, "https://news.example.com/article/0", links[0])
	assert.Equal(t, "https://news.example.com/article/19", links[19])
}

func TestDiscoverLinksDeduplicates(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<article>
		<a href="/article/x">x</a>
		<a href="/article/x">x again</a>
	</article>`)

	links := DiscoverLinks(doc, mustBase(t, "https://news.example.com"))
	assert.Len(t, links, 1)
}

func TestDiscoverLinksNoMatch(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<p>no links here</p>`)
	assert.Empty(t, DiscoverLinks(doc, mustBase(t, "https://news.example.com")))
}
