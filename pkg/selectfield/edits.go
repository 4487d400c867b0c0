package selectfield

import "github.com/charmbracelet/bubbles/runeutil"

// Edit is one text mutation against the search text: delete the rune range
// [Start, End) and insert Insert in its place. Offsets address the text as it
// was before any edit in the same batch was applied, which is how editing
// surfaces report grouped mutations.
type Edit struct {
	Start  int
	End    int
	Insert string
}

// editResult is the outcome of applying a batch of edits.
type editResult struct {
	text    []rune
	cursor  int
	changed bool
}

var editSanitizer = runeutil.NewSanitizer(
	runeutil.ReplaceNewlines(""), runeutil.ReplaceTabs(" "))

// applyEdits applies a batch of edits against text. Each edit's offsets are
// resolved through the running shift introduced by the edits before it, so a
// batch recorded against one snapshot applies correctly to the evolving
// buffer. Inserted text is sanitized (line breaks stripped, tabs collapsed)
// before insertion. The cursor lands immediately after the last region that
// was actually touched. An edit that deletes nothing and inserts nothing is
// skipped entirely; a batch of only such edits reports changed == false.
func applyEdits(text []rune, cursor int, edits []Edit) editResult {
	out := append([]rune(nil), text...)
	shift := 0
	touched := false
	for _, e := range edits {
		ins := editSanitizer.Sanitize([]rune(e.Insert))
		start := clampInt(e.Start+shift, 0, len(out))
		end := clampInt(e.End+shift, start, len(out))
		if start == end && len(ins) == 0 {
			continue
		}
		next := make([]rune, 0, len(out)-(end-start)+len(ins))
		next = append(next, out[:start]...)
		next = append(next, ins...)
		next = append(next, out[end:]...)
		out = next
		cursor = start + len(ins)
		shift += len(ins) - (end - start)
		touched = true
	}
	cursor = clampInt(cursor, 0, len(out))
	return editResult{text: out, cursor: cursor, changed: touched}
}

func clampInt(v, low, high int) int {
	if high < low {
		low, high = high, low
	}
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
