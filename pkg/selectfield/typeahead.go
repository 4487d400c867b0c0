package selectfield

import (
	"strings"
	"time"
)

// TypeaheadIdle is the idle window after which an accumulated typeahead
// prefix is discarded.
const TypeaheadIdle = 500 * time.Millisecond

// typeahead accumulates printable keystrokes while no search text is
// editable, so the user can jump the highlight by typing a label prefix.
type typeahead struct {
	buf  []rune
	last time.Time
}

// typeRune appends r to the buffer, first discarding it when the idle window
// has elapsed since the previous keystroke, and returns the accumulated
// prefix.
func (t *typeahead) typeRune(r rune, now time.Time) string {
	if !t.last.IsZero() && now.Sub(t.last) > TypeaheadIdle {
		t.buf = t.buf[:0]
	}
	t.last = now
	t.buf = append(t.buf, r)
	return string(t.buf)
}

// reset discards the accumulated prefix.
func (t *typeahead) reset() {
	t.buf = t.buf[:0]
	t.last = time.Time{}
}

// scanFrom walks the options in collection order starting after the index
// from (wrapping around, visiting from itself last) and returns the first
// enabled option whose label begins with prefix, case-insensitively. A
// negative from starts the scan at the beginning. Returns nil when nothing
// matches.
func scanFrom(options []*Option, from int, prefix string) *Option {
	if len(options) == 0 || prefix == "" {
		return nil
	}
	needle := strings.ToLower(prefix)
	start := from + 1
	if from < 0 {
		start = 0
	}
	for i := 0; i < len(options); i++ {
		o := options[(start+i)%len(options)]
		if o.disabled {
			continue
		}
		if strings.HasPrefix(strings.ToLower(o.label), needle) {
			return o
		}
	}
	return nil
}
