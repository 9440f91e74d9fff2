package service

import (
	"strings"
)

// Lexicons for headline sentiment. Kept as immutable package data and wired
// into the analyzer at construction so tests can substitute their own.
var (
	defaultPositiveWords = wordSet(
		"surge", "soar", "jump", "rally", "boom", "breakout", "record", "best",
		"beat", "exceed", "outperform", "upgrade", "bullish", "gain", "profit",
		"growth", "expand", "rise", "climb", "advance", "recover", "rebound",
		"up", "higher", "positive", "strong", "good", "better", "improve",
		"increase", "win", "success", "opportunity", "optimistic", "confident",
		"buy", "accumulate", "overweight", "recommend", "approve", "launch",
		"innovation", "breakthrough", "milestone", "partnership", "deal",
	)

	defaultNegativeWords = wordSet(
		"crash", "plunge", "tank", "collapse", "crisis", "disaster", "worst",
		"miss", "fail", "downgrade", "bearish", "loss", "decline", "drop",
		"fall", "sink", "tumble", "slump", "selloff", "sell-off", "warning",
		"down", "lower", "negative", "weak", "bad", "worse", "concern",
		"decrease", "cut", "reduce", "risk", "threat", "uncertainty", "fear",
		"sell", "underweight", "avoid", "reject", "delay", "lawsuit", "fraud",
		"investigation", "recall", "layoff", "layoffs", "restructure",
	)

	defaultAmplifiers = wordSet(
		"very", "extremely", "significantly", "sharply", "dramatically",
		"massive", "huge", "major", "big", "substantial", "record",
	)

	defaultNegators = wordSet(
		"not", "no", "never", "neither", "without", "lack", "fail", "failed",
		"barely", "hardly", "unlikely", "despite",
	)
)

const tokenPunctuation = ".,!?;:'\"()[]"

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// SentimentAnalyzer scores headlines by lexicon matching with amplification
// and negation handling. It holds no mutable state.
type SentimentAnalyzer struct {
	positive   map[string]struct{}
	negative   map[string]struct{}
	amplifiers map[string]struct{}
	negators   map[string]struct{}
}

// NewSentimentAnalyzer creates an analyzer with the default financial
// lexicons.
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{
		positive:   defaultPositiveWords,
		negative:   defaultNegativeWords,
		amplifiers: defaultAmplifiers,
		negators:   defaultNegators,
	}
}

// ScoreText scores one headline in [-1, 1]. A headline with no lexicon
// matches scores 0.
func (a *SentimentAnalyzer) ScoreText(text string) float64 {
	if text == "" {
		return 0.0
	}

	words := strings.Fields(strings.ToLower(text))

	// Amplifier and negator presence is checked on the raw tokens; counting
	// uses punctuation-stripped tokens.
	amplified := false
	negated := false
	for _, w := range words {
		if _, ok := a.amplifiers[w]; ok {
			amplified = true
		}
		if _, ok := a.negators[w]; ok {
			negated = true
		}
	}

	var positiveCount, negativeCount int
	for _, w := range words {
		clean := strings.Trim(w, tokenPunctuation)
		if _, ok := a.positive[clean]; ok {
			positiveCount++
		} else if _, ok := a.negative[clean]; ok {
			negativeCount++
		}
	}

	total := positiveCount + negativeCount
	if total == 0 {
		return 0.0
	}

	score := float64(positiveCount-negativeCount) / float64(total)
	if amplified {
		score *= 1.5
	}
	if negated {
		// Partial flip only: word-presence negation is often imperfect.
		score *= -0.5
	}

	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

// Aggregate returns the mean sentiment across headlines, or nil when there
// are none so the caller can distinguish "no news" from "neutral news".
func (a *SentimentAnalyzer) Aggregate(texts []string) *float64 {
	if len(texts) == 0 {
		return nil
	}
	var sum float64
	for _, t := range texts {
		sum += a.ScoreText(t)
	}
	mean := sum / float64(len(texts))
	return &mean
}

// SentimentLabel converts a sentiment score to a human-readable label.
func SentimentLabel(score float64) string {
	switch {
	case score >= 0.5:
		return "Very Positive"
	case score >= 0.2:
		return "Positive"
	case score > -0.2:
		return "Neutral"
	case score > -0.5:
		return "Negative"
	default:
		return "Very Negative"
	}
}
