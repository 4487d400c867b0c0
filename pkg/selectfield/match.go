package selectfield

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// MatchFunc decides which options survive a filter pass. It receives the
// current search text and the labels of the live options, and returns the
// indexes of the matching labels in collection order.
type MatchFunc func(text string, labels []string) []int

// MatchSubstring is the default matcher: case-insensitive substring
// containment. Empty search text matches everything.
func MatchSubstring(text string, labels []string) []int {
	if text == "" {
		return matchAll(labels)
	}
	needle := strings.ToLower(text)
	out := make([]int, 0, len(labels))
	for i, label := range labels {
		if strings.Contains(strings.ToLower(label), needle) {
			out = append(out, i)
		}
	}
	return out
}

// MatchPrefix matches labels beginning with the search text,
// case-insensitively.
func MatchPrefix(text string, labels []string) []int {
	if text == "" {
		return matchAll(labels)
	}
	needle := strings.ToLower(text)
	out := make([]int, 0, len(labels))
	for i, label := range labels {
		if strings.HasPrefix(strings.ToLower(label), needle) {
			out = append(out, i)
		}
	}
	return out
}

// MatchFuzzy ranks labels with a fuzzy match but reports them in collection
// order, so the visible list never reorders under the user's cursor.
func MatchFuzzy(text string, labels []string) []int {
	if text == "" {
		return matchAll(labels)
	}
	matches := fuzzy.Find(text, labels)
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Index)
	}
	// fuzzy.Find returns score order; restore collection order.
	sort.Ints(out)
	return out
}

func matchAll(labels []string) []int {
	out := make([]int, len(labels))
	for i := range labels {
		out[i] = i
	}
	return out
}
