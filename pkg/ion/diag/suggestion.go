package diag

import (
	"fmt"
	"strings"

	"ion-lang/ionc/pkg/ion/effect"
)

// SuggestEffect suggests a known effect name for an unknown one. It uses
// Levenshtein distance to find the closest member of the vocabulary.
func SuggestEffect(unknown string) string {
	return SuggestName(unknown, effect.Names())
}

// SuggestName suggests the closest match for unknown among valid names.
// Returns "" when valid is empty.
func SuggestName(unknown string, valid []string) string {
	if len(valid) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string
	for _, v := range valid {
		dist := levenshteinDistance(unknown, v)
		if dist < minDistance {
			minDistance = dist
			bestMatch = v
		}
	}

	// Only suggest if the distance is reasonable (< 5 edits)
	if minDistance < 5 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	if len(valid) > 5 {
		return fmt.Sprintf("Valid names include: %s, ...", strings.Join(valid[:5], ", "))
	}
	return fmt.Sprintf("Valid names: %s", strings.Join(valid, ", "))
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
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
