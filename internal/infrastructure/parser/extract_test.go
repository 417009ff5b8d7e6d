package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractFieldFirstNonEmptyWins(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<div class="a">   </div><div class="b">X</div>`)

	got := ExtractField(doc, []string{".a", ".b"})
	assert.Equal(t, "X", got, "empty match should fall through to next selector")
}

func TestExtractFieldEarlierSelectorShadowsLater(t *testing.T) {
	t.Parallel()

	// .a matches an irrelevant element with text; .b would be the better
	// match but must never be consulted.
	doc := mustDoc(t, `<span class="a">Y</span><h1 class="b">Real Title</h1>`)

	got := ExtractField(doc, []string{".a", ".b"})
	assert.Equal(t, "Y", got)
}

func TestExtractFieldInvalidSelectorSkipped(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<p class="ok">text</p>`)

	got := ExtractField(doc, []string{"[[broken", " ", ".ok"})
	assert.Equal(t, "text", got)
}

func TestExtractFieldNoMatch(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<p>something</p>`)

	assert.Equal(t, "", ExtractField(doc, []string{".missing", "#nope"}))
}

func TestExtractFieldTrimsWhitespace(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, "<h1>\n  Spaced Title \t</h1>")

	assert.Equal(t, "Spaced Title", ExtractField(doc, []string{"h1"}))
}
