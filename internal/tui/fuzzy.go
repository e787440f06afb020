package tui

import (
	"strings"
	"unicode"
)

// fuzzyScore reports whether every rune of query appears in target in order,
// ignoring case, and how well it matched. Runs of adjacent matches, a match on
// the first rune, and matches right after a separator score higher.
func fuzzyScore(query, target string) (int, bool) {
	if query == "" {
		return 0, true
	}
	q := []rune(strings.ToLower(query))
	t := []rune(strings.ToLower(target))

	qi, score, run := 0, 0, 0
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			run = 0
			continue
		}
		qi++
		run++
		score += run
		switch {
		case ti == 0:
			score += 3
		case isSeparator(t[ti-1]):
			score += 2
		}
	}
	return score, qi == len(q)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune("/-_.", r)
}
