// Package pin provides PinExtractor adapters: speech recognizers tuned to
// recover a spoken digit sequence from a short recording.
package pin

import (
	"strings"
	"unicode"
)

// digitWords maps spoken number words to digits. English and Indonesian,
// matching the languages the service is deployed for.
var digitWords = map[string]string{
	"zero": "0", "oh": "0", "one": "1", "two": "2", "three": "3",
	"four": "4", "five": "5", "six": "6", "seven": "7", "eight": "8",
	"nine": "9",
	"nol": "0", "kosong": "0", "satu": "1", "dua": "2", "tiga": "3",
	"empat": "4", "lima": "5", "enam": "6", "tujuh": "7", "delapan": "8",
	"sembilan": "9",
}

// DigitsFromTranscript reduces a recognizer transcript to the digit string
// it spells out. Literal digits pass through; number words are translated;
// everything else is ignored. Returns "" when no digits were heard.
func DigitsFromTranscript(transcript string) string {
	var b strings.Builder

	words := strings.FieldsFunc(strings.ToLower(transcript), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, w := range words {
		if d, ok := digitWords[w]; ok {
			b.WriteString(d)
			continue
		}
		for _, r := range w {
			if unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
	}

	return b.String()
}
