// Package mapreduce aggregates per-item word frequencies into site-wide
// keyword rankings for the archive report.
package mapreduce

import (
	"sort"

	"github.com/mlockett/wp-archiver/pkg/analytics"
)

// Map generates the word frequency map for a single item's text.
func Map(text string, a *analytics.Analytics) map[string]int {
	return a.WordFrequency(text)
}

// Reduce merges a slice of word frequency maps into one.
func Reduce(intermediate []map[string]int) map[string]int {
	final := make(map[string]int)
	for _, counts := range intermediate {
		for word, count := range counts {
			final[word] += count
		}
	}
	return final
}

// Keyword is one ranked entry in a keyword list.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TopKeywords returns the n most frequent words, ties broken alphabetically
// so rankings are stable across runs.
func TopKeywords(counts map[string]int, n int) []Keyword {
	ranked := make([]Keyword, 0, len(counts))
	for w, c := range counts {
		ranked = append(ranked, Keyword{Word: w, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
