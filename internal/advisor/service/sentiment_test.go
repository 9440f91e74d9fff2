package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreText_Positive(t *testing.T) {
	a := NewSentimentAnalyzer()

	// "record" matches both the positive lexicon and the amplifier list, so
	// the raw 1.0 is amplified and clamped back to 1.0.
	score := a.ScoreText("Stock surges on record profit")
	assert.Equal(t, 1.0, score)
}

func TestScoreText_Negative(t *testing.T) {
	a := NewSentimentAnalyzer()

	score := a.ScoreText("Company faces fraud investigation")
	assert.Equal(t, -1.0, score)
}

func TestScoreText_NoLexiconMatches(t *testing.T) {
	a := NewSentimentAnalyzer()

	assert.Equal(t, 0.0, a.ScoreText("Quarterly report scheduled for Tuesday"))
	assert.Equal(t, 0.0, a.ScoreText(""))
}

func TestScoreText_Negation(t *testing.T) {
	a := NewSentimentAnalyzer()

	// "not" flips and dampens the positive "beat".
	score := a.ScoreText("Company did not beat expectations")
	assert.Equal(t, -0.5, score)
}

func TestScoreText_Mixed(t *testing.T) {
	a := NewSentimentAnalyzer()

	// One positive ("growth") and one negative ("concern") cancel out.
	score := a.ScoreText("Growth stalls amid margin concern")
	assert.Equal(t, 0.0, score)
}

func TestScoreText_StripsPunctuation(t *testing.T) {
	a := NewSentimentAnalyzer()

	assert.Equal(t, 1.0, a.ScoreText("Analysts say: buy!"))
	assert.Equal(t, -1.0, a.ScoreText("Shares drop."))
}

func TestScoreText_Clamped(t *testing.T) {
	a := NewSentimentAnalyzer()

	// Amplified unanimous negatives would be -1.5 unclamped.
	score := a.ScoreText("Massive loss and decline")
	assert.Equal(t, -1.0, score)
}

func TestAggregate(t *testing.T) {
	a := NewSentimentAnalyzer()

	assert.Nil(t, a.Aggregate(nil))
	assert.Nil(t, a.Aggregate([]string{}))

	agg := a.Aggregate([]string{
		"Company faces fraud investigation",
		"Quarterly report scheduled for Tuesday",
	})
	require.NotNil(t, agg)
	assert.Equal(t, -0.5, *agg)
}

func TestSentimentLabel(t *testing.T) {
	assert.Equal(t, "Very Positive", SentimentLabel(0.5))
	assert.Equal(t, "Positive", SentimentLabel(0.2))
	assert.Equal(t, "Neutral", SentimentLabel(0.0))
	assert.Equal(t, "Neutral", SentimentLabel(-0.19))
	assert.Equal(t, "Negative", SentimentLabel(-0.2))
	assert.Equal(t, "Very Negative", SentimentLabel(-0.5))
}
