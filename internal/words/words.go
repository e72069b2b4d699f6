// Package words provides word normalization and the language table used
// for translation fan-out.
package words

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Language identifies a translation target.
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// English is the pseudo-language used when synonyms are fed through the
// webification path alongside real translations.
var English = Language{Name: "English", Code: "en"}

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize reduces a word to lowercase ASCII letters: diacritics are
// decomposed and stripped, everything that is not a-z is dropped. The
// operation is idempotent.
func Normalize(word string) string {
	folded, _, err := transform.String(stripMarks, word)
	if err != nil {
		// Fall back to the raw input; the letter filter below still
		// guarantees the output alphabet.
		folded = word
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
