package worker

import (
	"fmt"
	"sort"
	"strings"
)

// EchoGenerator is a deterministic Generator for development and testing.
// It derives every result from the input text alone.
type EchoGenerator struct{}

func (EchoGenerator) Translate(text, targetLanguage string) string {
	return fmt.Sprintf("[%s] %s", targetLanguage, text)
}

func (EchoGenerator) Summarize(text string, maxLength int) string {
	words := strings.Fields(text)
	if len(words) > maxLength {
		words = words[:maxLength]
	}
	return strings.Join(words, " ")
}

func (EchoGenerator) Analyze(text string) Analysis {
	complexity := "simple"
	if len(strings.Fields(text)) > 50 {
		complexity = "complex"
	} else if len(strings.Fields(text)) > 15 {
		complexity = "medium"
	}
	return Analysis{
		Sentiment:  "neutral",
		Entities:   []string{},
		Topics:     []string{"general"},
		Complexity: complexity,
	}
}

func (EchoGenerator) Improve(text, style string) string {
	return fmt.Sprintf("(%s) %s", style, text)
}

func (EchoGenerator) Keywords(text string, maxKeywords int) []string {
	seen := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		if len(word) > 3 {
			seen[word]++
		}
	}
	keywords := make([]string, 0, len(seen))
	for word := range seen {
		keywords = append(keywords, word)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if seen[keywords[i]] != seen[keywords[j]] {
			return seen[keywords[i]] > seen[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}
