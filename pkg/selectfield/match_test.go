package selectfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var matchLabels = []string{"Apple", "Banana", "Avocado", "Pineapple"}

func TestMatchSubstring(t *testing.T) {
	assert.Equal(t, []int{0, 3}, MatchSubstring("APPLE", matchLabels))
	assert.Equal(t, []int{1}, MatchSubstring("an", matchLabels))
	assert.Equal(t, []int{0, 1, 2, 3}, MatchSubstring("a", matchLabels))
	assert.Empty(t, MatchSubstring("zzz", matchLabels))
	assert.Equal(t, []int{0, 1, 2, 3}, MatchSubstring("", matchLabels))
}

func TestMatchPrefix(t *testing.T) {
	assert.Equal(t, []int{0, 2}, MatchPrefix("a", matchLabels))
	assert.Equal(t, []int{0}, MatchPrefix("app", matchLabels))
	assert.Empty(t, MatchPrefix("pple", matchLabels))
}

func TestMatchFuzzyKeepsCollectionOrder(t *testing.T) {
	// Fuzzy scoring may rank Pineapple above Apple, but the result stays in
	// collection order so the dropdown never reorders mid-keystroke.
	assert.Equal(t, []int{0, 3}, MatchFuzzy("ae", matchLabels))
	assert.Equal(t, []int{0, 1, 2, 3}, MatchFuzzy("", matchLabels))
}
