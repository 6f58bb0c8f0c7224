// Package langdetect wraps lingua-go to tag each archived item's text with
// its most likely language in the analytics report.
package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// minWords is the floor below which detection is too unreliable to report.
const minWords = 5

// Detector identifies the language of extracted plain text.
type Detector struct {
	inner lingua.LanguageDetector
}

// New builds a detector over the languages WordPress archives plausibly
// contain. Restricting the set keeps model loading cheap.
func New() *Detector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Spanish,
		lingua.French,
		lingua.German,
		lingua.Italian,
		lingua.Portuguese,
		lingua.Dutch,
		lingua.Swedish,
		lingua.Russian,
		lingua.Japanese,
		lingua.Chinese,
	}
	return &Detector{
		inner: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of text's most likely
// language, or "" when the text is too short or no language is confident.
func (d *Detector) Detect(text string) string {
	if len(strings.Fields(text)) < minWords {
		return ""
	}
	lang, ok := d.inner.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
