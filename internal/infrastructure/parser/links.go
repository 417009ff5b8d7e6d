package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxCandidateLinks = 20

// linkPatterns are tried in order against a listing page. The first pattern
// yielding at least one match wins; patterns are never merged.
var linkPatterns = []string{
	"article a",
	".article-link",
	".post-link",
	".news-link",
	`a[href*="/article"]`,
	`a[href*="/news"]`,
	`a[href*="/post"]`,
	"h2 a",
	"h3 a",
}

// DiscoverLinks returns up to 20 candidate article URLs from a listing page,
// in document order, resolved against base. Fragment-only and
// script-triggered hrefs are dropped.
func DiscoverLinks(doc *goquery.Document, base *url.URL) []string {
	var matched *goquery.Selection
	for _, pattern := range linkPatterns {
		sel := doc.Find(pattern)
		if sel.Length() > 0 {
			matched = sel
			break
		}
	}
	if matched == nil {
		return nil
	}

	links := make([]string, 0, maxCandidateLinks)
	seen := map[string]struct{}{}
	matched.EachWithBreak(func(i int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript") {
			return true
		}

		resolved := href
		if base != nil {
			ref, err := url.Parse(href)
			if err != nil {
				return true
			}
			resolved = base.ResolveReference(ref).String()
		}

		if _, ok := seen[resolved]; ok {
			return true
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)

		return len(links) < maxCandidateLinks
	})

	return links
}
