package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// ExtractField tries each selector in the chain strictly in order and
// returns the first non-empty trimmed text. An unparsable selector is
// treated as a miss. First success wins: a later, more specific selector
// never overrides an earlier match.
func ExtractField(doc *goquery.Document, chain []string) string {
	for _, selector := range chain {
		selector = strings.TrimSpace(selector)
		if selector == "" {
			continue
		}

		matcher, err := cascadia.Compile(selector)
		if err != nil {
			continue
		}

		text := strings.TrimSpace(doc.FindMatcher(matcher).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}
