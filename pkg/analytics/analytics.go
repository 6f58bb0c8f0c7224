// Package analytics computes per-item text statistics and word frequencies
// for the archive report: word/character/line counts, sentence metrics, a
// simplified Flesch reading-ease score, and stopword-filtered frequency
// maps.
package analytics

import (
	"strings"
)

type Analytics struct{}

// stopwords are skipped during frequency analysis. The list covers the most
// frequent English function words plus web-navigation noise; it is not
// meant to be complete.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {},
	"and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"been": {}, "but": {}, "by": {}, "can": {}, "do": {}, "does": {},
	"for": {}, "from": {}, "had": {}, "has": {}, "have": {}, "he": {},
	"her": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "more": {},
	"most": {}, "my": {}, "no": {}, "not": {}, "of": {}, "on": {},
	"one": {}, "only": {}, "or": {}, "other": {}, "our": {}, "out": {},
	"over": {}, "so": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"the": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "to": {}, "up": {}, "us": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"which": {}, "who": {}, "will": {}, "with": {}, "would": {},
	"you": {}, "your": {},

	// navigation noise common in WordPress page bodies
	"click": {}, "here": {}, "menu": {}, "page": {}, "read": {},
	"home": {}, "contact": {}, "link": {},
}

// IsStopword reports whether a word is filtered from frequency analysis.
func IsStopword(word string) bool {
	_, exists := stopwords[strings.ToLower(word)]
	return exists
}

// WordFrequency counts content words in text, lowercased and stripped of
// surrounding punctuation.
func (a *Analytics) WordFrequency(text string) map[string]int {
	frequencies := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return ('a' > r || r > 'z') && ('0' > r || r > '9')
		})
		if word == "" {
			continue
		}
		if _, exists := stopwords[word]; exists {
			continue
		}
		frequencies[word]++
	}
	return frequencies
}

// TextStats summarizes one item's extracted text.
type TextStats struct {
	Words             int     `json:"words"`
	Characters        int     `json:"characters"`
	Lines             int     `json:"lines"`
	Sentences         int     `json:"sentences"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	ReadingEase       float64 `json:"reading_ease"`
}

// Stats computes the summary metrics for text.
func (a *Analytics) Stats(text string) TextStats {
	words := strings.Fields(text)
	st := TextStats{
		Words:      len(words),
		Characters: len(text),
	}
	if text != "" {
		st.Lines = len(strings.Split(text, "\n"))
	}

	sentences := splitSentences(text)
	st.Sentences = len(sentences)
	if st.Sentences > 0 {
		total := 0
		for _, s := range sentences {
			total += len(strings.Fields(s))
		}
		st.AvgSentenceLength = round2(float64(total) / float64(st.Sentences))
	}
	st.ReadingEase = round2(readingEase(words, st.Sentences))
	return st
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// readingEase is a simplified Flesch reading-ease score clamped to [0,100].
func readingEase(words []string, sentences int) float64 {
	if len(words) == 0 || sentences == 0 {
		return 0
	}
	wordsPerSentence := float64(len(words)) / float64(sentences)
	totalSyllables := 0
	for _, w := range words {
		totalSyllables += syllables(w)
	}
	syllablesPerWord := float64(totalSyllables) / float64(len(words))

	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// syllables approximates the syllable count of a word by counting vowel
// groups, with the usual silent-e adjustment.
func syllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
