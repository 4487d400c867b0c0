package selectfield

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypingAnyValueScenario(t *testing.T) {
	l := NewOptionList()
	l.Add(NewOption("Red", "Red"), NewOption("Green", "Green"))
	f := NewField(l)
	l.Flush()
	f.SetFilterMode(FilterAny)

	var inputs []string
	f.OnInput(func(value string) { inputs = append(inputs, value) })

	// "Red" selected; the user overtypes "Gre".
	f.ApplyEdits([]Edit{{Start: 0, End: 3, Insert: "Gre"}})
	v, _ := f.Value()
	assert.Equal(t, "Gre", v, "any-value typing moves the value immediately")
	assert.False(t, l.At(0).Selected(), "Red drops its selection")
	assert.Nil(t, f.SelectedOption())
	assert.Nil(t, f.Candidate(), "no exact label match yet")

	// Two more characters complete the label "Green".
	f.InsertRunes("en")
	assert.Same(t, l.At(1), f.Candidate())
	assert.False(t, l.At(1).Selected(), "the candidate is offered, never auto-committed")
	assert.Equal(t, []string{"Gre", "Green"}, inputs)
}

func TestTypingStrictLeavesValueAlone(t *testing.T) {
	f, l := newTestField(FilterStrict)
	var inputs []string
	f.OnInput(func(value string) { inputs = append(inputs, value) })

	f.ApplyEdits([]Edit{{Start: 0, End: 5, Insert: "Ban"}})
	v, _ := f.Value()
	assert.Equal(t, "apple", v)
	assert.True(t, l.At(0).Selected())
	assert.Empty(t, inputs, "no value change, no input signal")
	assert.Equal(t, []*Option{l.At(1)}, f.Matches())
	assert.Same(t, l.At(1), f.Active(), "the highlight falls to the first match")
}

func TestTypingClearableEmptiesValue(t *testing.T) {
	f, l := newTestField(FilterClearable)
	f.SetValue("banana")
	var inputs []string
	f.OnInput(func(value string) { inputs = append(inputs, value) })

	// Erasing all text clears the value on the spot.
	f.ClearText()
	v, ok := f.Value()
	require.True(t, ok)
	assert.Equal(t, "", v)
	assert.False(t, l.At(1).Selected())
	assert.Equal(t, []string{""}, inputs)
}

func TestTypingOpensDropdown(t *testing.T) {
	f, _ := newTestField(FilterStrict)
	require.False(t, f.Expanded())
	f.InsertRunes("a")
	assert.True(t, f.Expanded())
}

func TestTypingCaseSensitivitySplit(t *testing.T) {
	// Filtering is case-insensitive, the autoselect candidate is not.
	f, l := newTestField(FilterAny)
	f.ApplyEdits([]Edit{{Start: 0, End: 5, Insert: "apple"}})
	assert.Equal(t, []*Option{l.At(0)}, f.Matches(), `"apple" still matches "Apple"`)
	assert.Nil(t, f.Candidate(), "candidate comparison is case-sensitive")

	f.ApplyEdits([]Edit{{Start: 0, End: 5, Insert: "Apple"}})
	assert.Same(t, l.At(0), f.Candidate())
}

func TestCandidateIgnoresFilteredOutOptions(t *testing.T) {
	// The candidate is drawn from the matching set, so a matcher that
	// excludes the exact label leaves it unset.
	f, _ := newTestField(FilterAny)
	f.SetMatchFunc(func(text string, labels []string) []int { return nil })
	f.ApplyEdits([]Edit{{Start: 0, End: 5, Insert: "Apple"}})
	assert.Nil(t, f.Candidate())
	assert.Empty(t, f.Matches())
	assert.Nil(t, f.Active())
}

func TestNoMatchesClearsActive(t *testing.T) {
	f, _ := newTestField(FilterStrict)
	f.ApplyEdits([]Edit{{Start: 0, End: 5, Insert: "zzz"}})
	assert.Empty(t, f.Matches())
	assert.Nil(t, f.Active())

	// Deleting back to a matching prefix restores a highlight.
	f.DeleteBackward(3)
	assert.Len(t, f.Matches(), 3)
	assert.NotNil(t, f.Active())
}

func TestNoopEditBatchHasNoSideEffects(t *testing.T) {
	f, _ := newTestField(FilterAny)
	var inputs int
	f.OnInput(func(string) { inputs++ })

	changed := f.ApplyEdits([]Edit{{Start: 2, End: 2, Insert: ""}})
	assert.False(t, changed)
	assert.False(t, f.Expanded(), "a no-op batch must not open the dropdown")
	assert.Zero(t, inputs)
}

func TestTypeaheadScenario(t *testing.T) {
	// Unfiltered field, options Apple/Banana/Avocado, highlight on Apple.
	f, l := newTestField(FilterNone)
	f.Expand()
	require.Same(t, l.At(0), f.Active())

	base := time.Now()

	// First "a": the scan starts after Apple, wraps, and lands on Avocado.
	assert.True(t, f.Typeahead('a', base))
	assert.Same(t, l.At(2), f.Active())

	// Second "a" within the idle window accumulates to "aa": no label
	// matches, the highlight stays put.
	assert.False(t, f.Typeahead('a', base.Add(100*time.Millisecond)))
	assert.Same(t, l.At(2), f.Active())
}

func TestTypeaheadIdleReset(t *testing.T) {
	f, l := newTestField(FilterNone)
	f.Expand()
	base := time.Now()

	f.Typeahead('a', base)
	require.Same(t, l.At(2), f.Active())

	// Past the idle window the buffer restarts, so "b" scans fresh from
	// Avocado and wraps to Banana.
	assert.True(t, f.Typeahead('b', base.Add(TypeaheadIdle+200*time.Millisecond)))
	assert.Same(t, l.At(1), f.Active())
}

func TestTypeaheadSkipsDisabled(t *testing.T) {
	f, l := newTestField(FilterNone)
	l.At(2).SetDisabled(true)
	f.Expand()
	f.Typeahead('a', time.Now())
	assert.Same(t, l.At(0), f.Active(), "the only other a-label is disabled, so the scan wraps to Apple")
}

func TestTypeaheadClearedOnExpansion(t *testing.T) {
	f, l := newTestField(FilterNone)
	f.Expand()
	base := time.Now()
	f.Typeahead('b', base)
	require.Same(t, l.At(1), f.Active())

	// Collapse and re-expand inside the idle window: the prefix must not
	// leak into the next scan.
	f.Collapse()
	f.Expand()
	f.Typeahead('a', base.Add(50*time.Millisecond))
	assert.Same(t, l.At(2), f.Active(), `a fresh "a" scan from Apple lands on Avocado`)
}

func TestTypeaheadIgnoredInFilterModes(t *testing.T) {
	f, _ := newTestField(FilterStrict)
	f.Expand()
	assert.False(t, f.Typeahead('a', time.Now()))
}

func TestMatchFuncSwap(t *testing.T) {
	f, l := newTestField(FilterStrict)
	f.SetMatchFunc(MatchPrefix)
	f.ApplyEdits([]Edit{{Start: 0, End: 5, Insert: "a"}})
	// Substring would also hold Banana; prefix keeps Apple and Avocado.
	assert.Equal(t, []*Option{l.At(0), l.At(2)}, f.Matches())
}
