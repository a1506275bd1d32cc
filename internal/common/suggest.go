package common

import (
	"strings"
)

// ClosestMatch returns the candidate with the smallest edit distance to target, or
// empty string if none are within a reasonable threshold.
func ClosestMatch(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}
	low := strings.ToLower(target)
	// Prefer prefix matches (case-insensitive)
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), low) {
			return c
		}
	}

	best := ""
	bestDist := -1
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if abs(len(lc)-len(low)) > 3 {
			continue
		}
		// Treat single transposition as distance 1
		if isTransposition(low, lc) {
			return c
		}
		d := Levenshtein(low, lc)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	// Only suggest if distance is small (adaptive threshold)
	if bestDist >= 0 && bestDist <= max(2, len(low)/3) {
		return best
	}
	return ""
}

// isTransposition checks for one-character transposition (Damerau case)
func isTransposition(a, b string) bool {
	if len(a) != len(b) || len(a) < 2 {
		return false
	}
	var diff []int
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			diff = append(diff, i)
			if len(diff) > 2 {
				return false
			}
		}
	}
	if len(diff) != 2 {
		return false
	}
	return a[diff[0]] == b[diff[1]] && a[diff[1]] == b[diff[0]]
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Levenshtein computes the edit distance between a and b.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		copy(prev, curr)
	}
	return prev[lb]
}
