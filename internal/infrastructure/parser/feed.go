package parser

import (
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// DiscoverFeedLinks extracts candidate article URLs from RSS/Atom markup.
// Used for sites that declare a feed URL instead of relying on listing-page
// selectors; the same 20-link bound and feed order apply.
func DiscoverFeedLinks(feedXML string) ([]string, error) {
	fp := gofeed.NewParser()
	feed, err := fp.ParseString(feedXML)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	links := make([]string, 0, maxCandidateLinks)
	seen := map[string]struct{}{}
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
		if len(links) == maxCandidateLinks {
			break
		}
	}

	return links, nil
}
