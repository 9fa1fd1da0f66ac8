package extract

import (
	"regexp"
	"sort"
	"strings"
)

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// stopwords are filler terms excluded from per-recipe keyword extraction.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "will": {}, "have": {}, "also": {}, "when": {}, "which": {},
	"your": {}, "more": {}, "make": {}, "them": {}, "their": {}, "just": {},
	"than": {},
}

// Keywords extracts the top-n most frequent words from the description and
// instruction text, skipping stopwords and words of three characters or fewer.
// Ties break alphabetically so output is deterministic.
func Keywords(description string, steps []string, n int) []string {
	blob := strings.ToLower(description + " " + strings.Join(steps, " "))
	counts := make(map[string]int)
	for _, word := range wordPattern.FindAllString(blob, -1) {
		if len(word) <= 3 {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if n > 0 && len(words) > n {
		words = words[:n]
	}
	return words
}
