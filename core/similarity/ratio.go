// Package similarity groups near-duplicate entity surface forms.
package similarity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// EditRatio returns the normalized Indel similarity of a and b in [0, 1]:
// 2*LCS / (len(a)+len(b)) over code points. Two empty strings are identical.
// Inputs are compared in NFC so composed and decomposed accents agree.
func EditRatio(a, b string) float64 {
	ra := []rune(norm.NFC.String(a))
	rb := []rune(norm.NFC.String(b))

	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	return 2 * float64(longestCommonSubsequence(ra, rb)) / float64(total)
}

// TokenRatio returns |A ∩ B| / max(|A|, |B|) for the lower-cased whitespace
// token sets of a and b, or 0 if both sets are empty.
func TokenRatio(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)

	maxLen := max(len(ta), len(tb))
	if maxLen == 0 {
		return 0
	}

	intersection := 0
	for token := range ta {
		if tb[token] {
			intersection++
		}
	}

	return float64(intersection) / float64(maxLen)
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, token := range strings.Fields(strings.ToLower(norm.NFC.String(s))) {
		set[token] = true
	}
	return set
}

// longestCommonSubsequence uses two DP rows over the shorter input.
func longestCommonSubsequence(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
