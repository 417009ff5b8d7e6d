package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"newswatch/internal/domain"
)

func TestScoreSentimentAllPositive(t *testing.T) {
	t.Parallel()

	label, score := ScoreSentiment("A great day: excellent results and a breakthrough")
	assert.Equal(t, domain.SentimentPositive, label)
	assert.Equal(t, 1.0, score)
}

func TestScoreSentimentBalanced(t *testing.T) {
	t.Parallel()

	label, score := ScoreSentiment("good news despite the terrible weather")
	assert.Equal(t, domain.SentimentNeutral, label)
	assert.Equal(t, 0.0, score)
}

func TestScoreSentimentEmptyText(t *testing.T) {
	t.Parallel()

	label, score := ScoreSentiment("")
	assert.Equal(t, domain.SentimentNeutral, label)
	assert.Equal(t, 0.0, score)
}

func TestScoreSentimentNoKeywords(t *testing.T) {
	t.Parallel()

	label, score := ScoreSentiment("the committee met on tuesday")
	assert.Equal(t, domain.SentimentNeutral, label)
	assert.Equal(t, 0.0, score)
}

func TestScoreSentimentSubstringMatching(t *testing.T) {
	t.Parallel()

	// "increase" must hit inside "increased" -- matching is not
	// token-boundary aware.
	label, score := ScoreSentiment("Profits increased sharply")
	assert.Equal(t, domain.SentimentPositive, label)
	assert.Equal(t, 1.0, score)
}

func TestScoreSentimentNonZeroButNeutral(t *testing.T) {
	t.Parallel()

	// Two positive, three negative: score -0.2 sits on the threshold and
	// stays neutral while remaining non-zero.
	label, score := ScoreSentiment("good win bad poor hate")
	assert.Equal(t, domain.SentimentNeutral, label)
	assert.InDelta(t, -0.2, score, 1e-9)
}

func TestScoreSentimentNegative(t *testing.T) {
	t.Parallel()

	label, score := ScoreSentiment("a terrible crisis and a horrible failure")
	assert.Equal(t, domain.SentimentNegative, label)
	assert.Less(t, score, -0.2)
}
