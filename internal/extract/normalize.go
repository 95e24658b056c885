package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes to NFD, drops non-spacing marks and recomposes.
// For Vietnamese this strips tone and vowel marks while keeping base letters.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics removes combining marks from s ("Tết Nguyên Đán" -> "Têt..."
// minus marks -> "Tet Nguyen Đan"-style base letters).
func FoldDiacritics(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	// Đ/đ carry their stroke in the base code point, not a combining mark
	out = strings.ReplaceAll(out, "Đ", "D")
	return strings.ReplaceAll(out, "đ", "d")
}

// NormalizeForCompare lowercases a diacritic-folded copy of s for ordinal
// comparison of Vietnamese names.
func NormalizeForCompare(s string) string {
	return strings.ToLower(FoldDiacritics(s))
}

// ContainsFold reports whether either string contains the other after
// diacritic folding and lowercasing.
func ContainsFold(a, b string) bool {
	na, nb := NormalizeForCompare(a), NormalizeForCompare(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
