package object

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns s in Unicode normalization form C, so that composed
// characters occupy a single word wherever a composed code point exists.
// Normalizing is lossy: "e\u0301" becomes "\u00e9".
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// EncodeString returns one word per code point of s, as written.
func EncodeString(s string) []int64 {
	words := make([]int64, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		words = append(words, int64(r))
	}
	return words
}

// DecodeString is the inverse of EncodeString. It fails on words that are not
// valid Unicode code points.
func DecodeString(words []int64) (string, error) {
	var b strings.Builder
	b.Grow(len(words))
	for i, w := range words {
		r, err := DecodeRune(w)
		if err != nil {
			return "", fmt.Errorf("character %d: %w", i, err)
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// DecodeRune converts a single character word back into a rune.
func DecodeRune(w int64) (rune, error) {
	if w < 0 || w > utf8.MaxRune || !utf8.ValidRune(rune(w)) {
		return 0, fmt.Errorf("invalid code point %d", w)
	}
	return rune(w), nil
}
