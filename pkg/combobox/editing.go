package combobox

import (
	"unicode"

	"github.com/oakmere/picklist/pkg/selectfield"
)

// wordBackward returns the offset of the start of the word left of the
// cursor, skipping any run of whitespace first.
func (m *Model) wordBackward() int {
	runes := []rune(m.field.Text())
	i := m.field.CursorPos()

	for i > 0 {
		if unicode.IsSpace(runes[i-1]) {
			i--
		} else {
			break
		}
	}
	for i > 0 {
		if !unicode.IsSpace(runes[i-1]) {
			i--
		} else {
			break
		}
	}
	return i
}

// wordForward returns the offset just past the end of the word right of the
// cursor, skipping any run of whitespace first.
func (m *Model) wordForward() int {
	runes := []rune(m.field.Text())
	i := m.field.CursorPos()

	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
		} else {
			break
		}
	}
	for i < len(runes) {
		if !unicode.IsSpace(runes[i]) {
			i++
		} else {
			break
		}
	}
	return i
}

// deleteWordBackward deletes the word left of the cursor.
func (m *Model) deleteWordBackward() {
	pos := m.field.CursorPos()
	start := m.wordBackward()
	if start == pos {
		return
	}
	m.field.ApplyEdits([]selectfield.Edit{{Start: start, End: pos}})
}

// deleteWordForward deletes the word right of the cursor.
func (m *Model) deleteWordForward() {
	pos := m.field.CursorPos()
	end := m.wordForward()
	if end == pos {
		return
	}
	m.field.ApplyEdits([]selectfield.Edit{{Start: pos, End: end}})
}
