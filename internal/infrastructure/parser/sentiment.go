package parser

import (
	"strings"

	"newswatch/internal/domain"
)

var positiveKeywords = []string{
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"positive", "success", "win", "best", "love", "happy", "joy",
	"breakthrough", "achievement", "improve", "growth", "increase",
}

var negativeKeywords = []string{
	"bad", "terrible", "awful", "horrible", "poor", "worst", "hate",
	"negative", "fail", "failure", "loss", "decrease", "decline",
	"crisis", "problem", "issue", "concern", "risk", "danger",
}

// ScoreSentiment classifies text by lexical keyword matching. Each keyword
// counts once when present anywhere as a substring, so "increase" also hits
// inside "increased". Score = (positive - negative) / (positive + negative);
// thresholds at +-0.2 pick the label.
func ScoreSentiment(text string) (domain.Sentiment, float64) {
	if text == "" {
		return domain.SentimentNeutral, 0.0
	}

	lower := strings.ToLower(text)

	var positive, negative int
	for _, word := range positiveKeywords {
		if strings.Contains(lower, word) {
			positive++
		}
	}
	for _, word := range negativeKeywords {
		if strings.Contains(lower, word) {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return domain.SentimentNeutral, 0.0
	}

	score := float64(positive-negative) / float64(total)
	switch {
	case score > 0.2:
		return domain.SentimentPositive, score
	case score < -0.2:
		return domain.SentimentNegative, score
	default:
		return domain.SentimentNeutral, score
	}
}
