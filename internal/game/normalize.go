package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// movie-title articles ignored during comparison, so "Lion King" matches
// "The Lion King".
var leadingArticles = map[string]struct{}{"the": {}, "a": {}, "an": {}}

// NormalizeAnswer prepares a guess or answer for comparison: lower-case,
// punctuation stripped, diacritics folded, whitespace collapsed, English
// articles dropped. Matching is exact equality of the normalized forms,
// no fuzzy matching.
func NormalizeAnswer(text string) string {
	var b strings.Builder
	// NFKD splits accented letters into base letter plus combining marks;
	// the marks fall into the default branch below, so "Amélie" matches
	// "Amelie".
	for _, r := range norm.NFKD.String(strings.ToLower(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Punctuation and symbols are dropped.
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if _, isArticle := leadingArticles[w]; isArticle {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
