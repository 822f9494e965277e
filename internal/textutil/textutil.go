// Package textutil provides the text-join and confidence-combination rules
// used when recognized fragments are concatenated or deduplicated.
package textutil

import (
	"strings"
	"unicode"
)

// NeedsSpace reports whether concatenating left and right without a separator
// would merge two words.
//
// It is true iff the last non-whitespace rune of left and the first
// non-whitespace rune of right are both alphanumeric. Either side being empty
// (or whitespace only) yields false.
func NeedsSpace(left, right string) bool {
	last, ok := lastNonSpace(left)
	if !ok {
		return false
	}
	first, ok := firstNonSpace(right)
	if !ok {
		return false
	}
	if isASCIIAlnum(last) && isASCIIAlnum(first) {
		return true
	}
	return unicode.IsLetter(last) && unicode.IsLetter(first)
}

// JoinInline concatenates two fragments that sit on the same visual line,
// trimming the seam whitespace and inserting one space iff NeedsSpace holds.
func JoinInline(left, right string) string {
	l := strings.TrimRight(left, " \t\r\n")
	r := strings.TrimLeft(right, " \t\r\n")
	if NeedsSpace(left, right) {
		return l + " " + r
	}
	return l + r
}

// MergeConfidence combines two confidence scores weighted by text length.
// The denominator is floored at 1 so two empty texts stay defined.
func MergeConfidence(confA float64, lenA int, confB float64, lenB int) float64 {
	total := lenA + lenB
	if total < 1 {
		total = 1
	}
	return (confA*float64(lenA) + confB*float64(lenB)) / float64(total)
}

// IsCJK reports whether r is a CJK ideograph or kana character.
func IsCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK extension A
		return true
	case r >= 0x3040 && r <= 0x30FF: // hiragana, katakana
		return true
	case r >= 0x31F0 && r <= 0x31FF: // katakana phonetic extensions
		return true
	}
	return false
}

// CJKRatio returns the fraction of non-whitespace runes in text that are CJK.
// Empty (or all-whitespace) text scores 0.
func CJKRatio(text string) float64 {
	var cjk, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if IsCJK(r) {
			cjk++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(cjk) / float64(total)
}

// Stats summarizes the character classes of a text fragment, ignoring
// whitespace. Used by the fusion filter to reject recognition noise.
type Stats struct {
	Total   int // non-whitespace runes
	Word    int // letters, digits, CJK
	Digits  int
	Symbols int
	ASCII   int // ASCII letters and digits
}

// Analyze computes Stats over text.
func Analyze(text string) Stats {
	var s Stats
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		s.Total++
		switch {
		case r >= '0' && r <= '9':
			s.Digits++
			s.Word++
			s.ASCII++
		case unicode.IsLetter(r):
			s.Word++
			if r < 128 {
				s.ASCII++
			}
		case IsCJK(r):
			s.Word++
		default:
			s.Symbols++
		}
	}
	return s
}

func lastNonSpace(s string) (rune, bool) {
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		if !unicode.IsSpace(runes[i]) {
			return runes[i], true
		}
	}
	return 0, false
}

func firstNonSpace(s string) (rune, bool) {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return r, true
		}
	}
	return 0, false
}

func isASCIIAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
