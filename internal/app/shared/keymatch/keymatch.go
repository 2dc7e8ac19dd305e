// Package keymatch resolves loosely typed command keys ("Build Housing",
// "scavange") to their canonical snake_case form.
package keymatch

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Normalize lowercases s and folds spaces and dashes into underscores.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

// Resolve returns the candidate closest to input. Exact and prefix hits win
// outright; otherwise the nearest candidate within Limit edits is chosen,
// ties broken alphabetically.
func Resolve(input string, candidates []string) (string, bool) {
	in := Normalize(input)
	if in == "" {
		return "", false
	}
	for _, c := range candidates {
		if in == c {
			return c, true
		}
	}

	var prefixed []string
	for _, c := range candidates {
		if len(in) >= 3 && strings.HasPrefix(c, in) {
			prefixed = append(prefixed, c)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], true
	}

	type hit struct {
		key  string
		dist int
	}
	var hits []hit
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(in, c)
		if dist <= Limit(len(c)) {
			hits = append(hits, hit{key: c, dist: dist})
		}
	}
	if len(hits) == 0 {
		return "", false
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].key < hits[j].key
		}
		return hits[i].dist < hits[j].dist
	})
	return hits[0].key, true
}

// Limit is the edit distance tolerated for a candidate of the given length.
func Limit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
