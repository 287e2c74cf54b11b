package errors

import (
	"fmt"
	"slices"
	"strings"
)

// SuggestTag suggests a permitted tag when an unknown one is used.
// It uses Levenshtein distance to find the closest candidate.
func SuggestTag(unknown string, allowed []string) string {
	if len(allowed) == 0 {
		return ""
	}

	candidates := slices.Clone(allowed)
	slices.Sort(candidates)

	minDistance := 1000
	var bestMatch string
	for _, tag := range candidates {
		dist := levenshteinDistance(unknown, tag)
		if dist < minDistance {
			minDistance = dist
			bestMatch = tag
		}
	}

	// Only suggest if the distance is reasonable
	if minDistance < 4 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	if len(candidates) > 5 {
		return fmt.Sprintf("Allowed tags include: %s, ...", strings.Join(candidates[:5], ", "))
	}
	return fmt.Sprintf("Allowed tags: %s", strings.Join(candidates, ", "))
}

// SuggestMissingTag suggests adding a required child.
func SuggestMissingTag(tag, parent string) string {
	return fmt.Sprintf("Add a <%s> element inside <%s>", tag, parent)
}

// levenshteinDistance computes the Levenshtein distance between two strings.
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

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
