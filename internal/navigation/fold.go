package navigation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that carry no combining mark, so NFD leaves them alone
var baseLetters = map[rune]rune{
	'Ø': 'O', 'ø': 'o',
	'Ł': 'L', 'ł': 'l',
	'Đ': 'D', 'đ': 'd',
	'Ħ': 'H', 'ħ': 'h',
	'ı': 'i',
}

// Ligatures fold to more than one letter
var ligatures = strings.NewReplacer(
	"Æ", "AE", "æ", "ae",
	"Œ", "OE", "œ", "oe",
	"ß", "ss",
	"Þ", "Th", "þ", "th",
)

// Fold lower-cases s and strips diacritics so "Édith" and "edith" compare equal
func Fold(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if b, ok := baseLetters[r]; ok {
				return b
			}
			return r
		}),
		norm.NFC,
	)
	folded, _, err := transform.String(t, ligatures.Replace(s))
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// foldRune folds a single typed character
func foldRune(r rune) string {
	return Fold(string(r))
}
