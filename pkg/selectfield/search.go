package selectfield

import "time"

// Text returns the editable search text.
func (f *Field) Text() string { return string(f.text) }

// DisplayText returns what the closed control renders: the search text in
// filtering modes, the selected label otherwise.
func (f *Field) DisplayText() string {
	if f.mode.Filtering() {
		return string(f.text)
	}
	if f.selected != nil {
		return f.selected.label
	}
	return ""
}

// CursorPos returns the cursor position in runes.
func (f *Field) CursorPos() int { return f.cursor }

// SetCursorPos moves the cursor, clamped to the text bounds.
func (f *Field) SetCursorPos(pos int) {
	f.cursor = clampInt(pos, 0, len(f.text))
}

// MoveCursor moves the cursor by delta runes, clamped to the text bounds.
func (f *Field) MoveCursor(delta int) {
	f.SetCursorPos(f.cursor + delta)
}

// CursorStart moves the cursor to the beginning of the search text.
func (f *Field) CursorStart() { f.SetCursorPos(0) }

// CursorEnd moves the cursor to the end of the search text.
func (f *Field) CursorEnd() { f.SetCursorPos(len(f.text)) }

// ApplyEdits applies a batch of text edits produced by one user action. All
// offsets address the text as it stood before the batch; the field shifts
// later edits by the net displacement of earlier ones. Side effects run once,
// against the final text: the match set refilters, value updates follow the
// mode rules, the autoselect candidate recomputes, and the highlight is
// repaired. Typing opens a collapsed dropdown. The report value is whether
// anything changed; a no-op batch triggers no side effects at all.
func (f *Field) ApplyEdits(edits []Edit) bool {
	if f.disabled || f.closed || !f.mode.Filtering() {
		return false
	}
	res := applyEdits(f.text, f.cursor, edits)
	if !res.changed {
		return false
	}
	f.text = res.text
	f.cursor = res.cursor
	f.expanded = true
	f.searching = true
	f.typeahead.reset()
	f.refilter()

	text := string(f.text)
	valueChanged := false
	switch f.mode {
	case FilterAny:
		if !f.hasValue || f.value != text {
			f.value = text
			f.hasValue = true
			if f.selected != nil {
				f.selected.setSelectedQuiet(false)
				f.selected = nil
			}
			valueChanged = true
		}
	case FilterClearable:
		if text == "" && (!f.hasValue || f.value != "") {
			f.value = ""
			f.hasValue = true
			if f.selected != nil {
				f.selected.setSelectedQuiet(false)
				f.selected = nil
			}
			valueChanged = true
		}
	}

	f.candidate = nil
	if text != "" {
		for _, o := range f.matches {
			if !o.disabled && o.label == text {
				f.candidate = o
				break
			}
		}
	}
	f.fixupActive()
	if valueChanged {
		f.emitInput()
	}
	return true
}

// InsertRunes is the common single-edit case: insert s at the cursor.
func (f *Field) InsertRunes(s string) bool {
	return f.ApplyEdits([]Edit{{Start: f.cursor, End: f.cursor, Insert: s}})
}

// DeleteBackward deletes n runes before the cursor.
func (f *Field) DeleteBackward(n int) bool {
	if n <= 0 {
		return false
	}
	start := clampInt(f.cursor-n, 0, len(f.text))
	return f.ApplyEdits([]Edit{{Start: start, End: f.cursor}})
}

// DeleteForward deletes n runes after the cursor.
func (f *Field) DeleteForward(n int) bool {
	if n <= 0 {
		return false
	}
	end := clampInt(f.cursor+n, 0, len(f.text))
	return f.ApplyEdits([]Edit{{Start: f.cursor, End: end}})
}

// ClearText erases the whole search text in one batch.
func (f *Field) ClearText() bool {
	return f.ApplyEdits([]Edit{{Start: 0, End: len(f.text)}})
}

// Typeahead handles a printable rune in FilterNone mode while expanded:
// runes typed within the idle window accumulate into a prefix, and the
// highlight jumps to the next enabled option whose label starts with that
// prefix, scanning forward from the highlight and wrapping around. A prefix
// with no match leaves the highlight where it is. It reports whether the
// highlight jumped.
func (f *Field) Typeahead(r rune, now time.Time) bool {
	if f.disabled || f.closed || f.mode.Filtering() || !f.expanded {
		return false
	}
	prefix := f.typeahead.typeRune(r, now)
	from := -1
	if f.active != nil {
		from = f.list.Index(f.active)
	} else if f.selected != nil {
		from = f.list.Index(f.selected)
	}
	if m := scanFrom(f.list.Options(), from, prefix); m != nil {
		f.active = m
		return true
	}
	return false
}

// ClearTypeahead drops the accumulated typeahead prefix.
func (f *Field) ClearTypeahead() { f.typeahead.reset() }

// refilter recomputes the match cache from the live collection. Outside a
// search session the cache mirrors the full collection.
func (f *Field) refilter() {
	if !f.mode.Filtering() {
		f.matches = nil
		return
	}
	opts := f.list.Options()
	if !f.searching || len(f.text) == 0 {
		f.matches = opts
		return
	}
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.label
	}
	matches := make([]*Option, 0, len(opts))
	for _, i := range f.matchFn(string(f.text), labels) {
		if i >= 0 && i < len(opts) {
			matches = append(matches, opts[i])
		}
	}
	f.matches = matches
}
