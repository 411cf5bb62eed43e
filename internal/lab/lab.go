// Package lab holds the lexicon scoring behind the portfolio's demo widgets:
// a coarse sentiment label and resume keyword coverage.
package lab

import (
	"regexp"
	"strings"
)

// Sentiment labels.
const (
	Positive = "Positive"
	Negative = "Negative"
	Neutral  = "Neutral"
)

// sentimentThreshold is the net hit rate a text must exceed to leave Neutral.
const sentimentThreshold = 0.02

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_']+`)

var positiveTerms = map[string]bool{
	"confident": true, "delight": true, "excellent": true, "fast": true, "improved": true,
	"seamless": true, "stable": true, "successful": true, "wins": true,
}

var negativeTerms = map[string]bool{
	"bug": true, "crash": true, "delay": true, "friction": true, "issue": true,
	"lag": true, "risk": true, "slow": true, "unstable": true,
}

// DefaultKeywords are the stacks resume coverage is scored against.
var DefaultKeywords = []string{
	"pytorch", "transformer", "mlops", "langchain", "huggingface",
	"fastapi", "vector", "streamlit", "monitoring",
}

// SentimentResult is the outcome of a sentiment scan.
type SentimentResult struct {
	Label    string  `json:"label"`
	Score    float64 `json:"score"`
	Words    int     `json:"words"`
	Positive int     `json:"positive_hits"`
	Negative int     `json:"negative_hits"`
}

// Sentiment scores text as (positive hits - negative hits) / words, where
// words are lowercase runs of letters, digits, underscores and apostrophes.
// Text with no words is Neutral with a zero score.
func Sentiment(text string) SentimentResult {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	res := SentimentResult{Label: Neutral, Words: len(words)}
	if len(words) == 0 {
		return res
	}

	for _, w := range words {
		switch {
		case positiveTerms[w]:
			res.Positive++
		case negativeTerms[w]:
			res.Negative++
		}
	}
	res.Score = float64(res.Positive-res.Negative) / float64(len(words))

	switch {
	case res.Score > sentimentThreshold:
		res.Label = Positive
	case res.Score < -sentimentThreshold:
		res.Label = Negative
	}
	return res
}

// ResumeResult is the keyword coverage of a resume snippet.
type ResumeResult struct {
	Coverage int      `json:"coverage"` // percent, rounded down
	Hits     []string `json:"hits"`
	Total    int      `json:"total"`
}

// ScoreResume reports which keywords occur (as lowercase substrings) in text.
// Hits keep the keyword order. An empty keyword list uses DefaultKeywords.
func ScoreResume(text string, keywords []string) ResumeResult {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lower := strings.ToLower(text)

	hits := []string{}
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits = append(hits, kw)
		}
	}
	return ResumeResult{
		Coverage: len(hits) * 100 / len(keywords),
		Hits:     hits,
		Total:    len(keywords),
	}
}
