// Package similarity scores two strings for likeness after folding away the
// casing, separator, and locale differences that show up in spreadsheet
// headers exported from German and English tools alike.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Score returned when one normalized string contains the other. Chosen so
// that prefix/suffix variants rank above fuzzy matches but below exact ones.
const containmentScore = 0.8

// Normalize lowercases s, strips underscores, spaces, and hyphens, and folds
// locale-specific characters to their ASCII base (ä->a, ß->ss) so that
// locale-variant headers compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "ß", "ss")
	s = stripDiacritics(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// stripDiacritics decomposes s into NFD form and drops combining marks, so
// 'ä' becomes 'a' and 'é' becomes 'e'.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Score computes a similarity in [0,1] between two strings. Both inputs are
// normalized first; equal normalized strings score 1.0, containment scores
// a fixed 0.8, everything else falls back to a normalized Levenshtein
// ratio. Pure and symmetric.
func Score(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return containmentScore
	}

	aLen := len([]rune(na))
	bLen := len([]rune(nb))
	maxLen := aLen
	if bLen > maxLen {
		maxLen = bLen
	}
	if maxLen == 0 {
		return 1.0
	}

	dist := levenshtein(na, nb)
	return float64(maxLen-dist) / float64(maxLen)
}

// levenshtein computes the edit distance between two strings using two
// rolling rows, O(len(a)*len(b)) time and O(min) space.
func levenshtein(a, b string) int {
	aRunes := []rune(a)
	bRunes := []rune(b)
	aLen := len(aRunes)
	bLen := len(bRunes)

	if aLen == 0 {
		return bLen
	}
	if bLen == 0 {
		return aLen
	}

	// Iterate over the shorter string in the inner loop.
	if aLen > bLen {
		aRunes, bRunes = bRunes, aRunes
		aLen, bLen = bLen, aLen
	}

	prevRow := make([]int, aLen+1)
	currRow := make([]int, aLen+1)
	for i := 0; i <= aLen; i++ {
		prevRow[i] = i
	}

	for j := 1; j <= bLen; j++ {
		currRow[0] = j
		for i := 1; i <= aLen; i++ {
			cost := 1
			if aRunes[i-1] == bRunes[j-1] {
				cost = 0
			}
			currRow[i] = min3(prevRow[i]+1, currRow[i-1]+1, prevRow[i-1]+cost)
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[aLen]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
