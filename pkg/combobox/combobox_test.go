package combobox

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmere/picklist/pkg/selectfield"
)

func colorList() *selectfield.OptionList {
	list := selectfield.NewOptionList()
	list.Add(
		selectfield.NewOption("red", "Red"),
		selectfield.NewOption("green", "Green"),
		selectfield.NewOption("blue", "Blue"),
	)
	return list
}

func newTestModel(mode selectfield.FilterMode) Model {
	m := New(colorList())
	m.Field().SetFilterMode(mode)
	m.Cursor.SetMode(cursor.CursorStatic)
	m.Focus()
	return m
}

// runCmd executes a command tree and collects every message it produces.
// Commands emitted by the widget are plain closures, so this never blocks.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func press(m Model, msgs ...tea.Msg) (Model, []tea.Msg) {
	var out []tea.Msg
	for _, msg := range msgs {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		out = append(out, runCmd(cmd)...)
	}
	return m, out
}

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runesMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func inputValues(msgs []tea.Msg) []string {
	var out []string
	for _, msg := range msgs {
		if in, ok := msg.(InputMsg); ok {
			out = append(out, in.Value)
		}
	}
	return out
}

func changedValues(msgs []tea.Msg) []string {
	var out []string
	for _, msg := range msgs {
		if ch, ok := msg.(ChangedMsg); ok {
			out = append(out, ch.Value)
		}
	}
	return out
}

func TestArrowExpandsWhenCollapsed(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)

	m, _ = press(m, keyMsg(tea.KeyDown))

	assert.True(t, m.Expanded())
	require.NotNil(t, m.Field().Active())
	assert.Equal(t, "red", m.Field().Active().Value(), "highlight starts on the selection")
}

func TestArrowMovesAndWrapsUnfiltered(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)

	m, _ = press(m, keyMsg(tea.KeyDown), keyMsg(tea.KeyDown))
	assert.Equal(t, "green", m.Field().Active().Value())

	m, _ = press(m, keyMsg(tea.KeyUp), keyMsg(tea.KeyUp))
	assert.Equal(t, "blue", m.Field().Active().Value(), "up from the first option wraps to the last")
}

func TestEscapeCollapses(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)

	m, _ = press(m, keyMsg(tea.KeyDown), keyMsg(tea.KeyEsc))
	assert.False(t, m.Expanded())

	// A second escape on a collapsed control does nothing.
	m, msgs := press(m, keyMsg(tea.KeyEsc))
	assert.False(t, m.Expanded())
	assert.Empty(t, changedValues(msgs))
}

func TestEnterCommitsActive(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)

	m, msgs := press(m,
		keyMsg(tea.KeyDown), // expand, highlight Red
		keyMsg(tea.KeyDown), // highlight Green
		keyMsg(tea.KeyEnter),
	)

	v, ok := m.Value()
	require.True(t, ok)
	assert.Equal(t, "green", v)
	assert.False(t, m.Expanded())
	assert.Equal(t, []string{"green"}, changedValues(msgs))
}

func TestEnterCollapsedSubmits(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)

	_, msgs := press(m, keyMsg(tea.KeyEnter))

	require.Len(t, msgs, 1)
	submit, ok := msgs[0].(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, m.ID(), submit.ID)
}

func TestTabCommitsBeforeFocusLoss(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)

	m, msgs := press(m,
		keyMsg(tea.KeyDown),
		keyMsg(tea.KeyDown),
		keyMsg(tea.KeyTab),
	)

	v, _ := m.Value()
	assert.Equal(t, "green", v)
	assert.False(t, m.Expanded())
	assert.Equal(t, []string{"green"}, changedValues(msgs))

	// Tab on a collapsed control is left for the surrounding form.
	_, msgs = press(m, keyMsg(tea.KeyTab))
	assert.Empty(t, msgs)
}

func TestSpaceTogglesInUnfilteredMode(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

	m, _ = press(m, space)
	assert.True(t, m.Expanded())

	m, msgs := press(m, space)
	assert.False(t, m.Expanded())
	assert.Equal(t, []string{"red"}, changedValues(msgs), "space commits the highlighted option")
}

func TestSpaceIsLiteralTextInFilterModes(t *testing.T) {
	m := newTestModel(selectfield.FilterAny)
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

	m, msgs := press(m, keyMsg(tea.KeyCtrlU), space)

	assert.Equal(t, " ", m.Field().Text())
	assert.Equal(t, []string{"", " "}, inputValues(msgs))
}

func TestTypingRewritesValueInAnyMode(t *testing.T) {
	m := newTestModel(selectfield.FilterAny)

	// "Red" -> "" -> "G" -> "Gr"
	m, msgs := press(m, keyMsg(tea.KeyCtrlU), runesMsg("G"), runesMsg("r"))

	v, ok := m.Value()
	require.True(t, ok)
	assert.Equal(t, "Gr", v)
	assert.True(t, m.Expanded(), "typing opens the dropdown")
	assert.Equal(t, []string{"", "G", "Gr"}, inputValues(msgs))
}

func TestTypingLeavesValueAloneInStrictMode(t *testing.T) {
	m := newTestModel(selectfield.FilterStrict)

	m, msgs := press(m, keyMsg(tea.KeyCtrlU), runesMsg("Gr"))

	v, _ := m.Value()
	assert.Equal(t, "red", v)
	assert.Empty(t, inputValues(msgs))
	assert.Equal(t, "Gr", m.Field().Text())
}

func TestTypeaheadJumpsHighlight(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)

	m, _ = press(m, runesMsg("b"))

	assert.True(t, m.Expanded(), "typeahead expands a collapsed control")
	require.NotNil(t, m.Field().Active())
	assert.Equal(t, "blue", m.Field().Active().Value())
}

func TestBackspaceAndDeleteKeys(t *testing.T) {
	m := newTestModel(selectfield.FilterAny)

	// "Red" with the cursor at the end.
	m, _ = press(m, keyMsg(tea.KeyBackspace))
	assert.Equal(t, "Re", m.Field().Text())

	m, _ = press(m, keyMsg(tea.KeyCtrlA), keyMsg(tea.KeyDelete))
	assert.Equal(t, "e", m.Field().Text())
}

func TestCursorMovementKeys(t *testing.T) {
	m := newTestModel(selectfield.FilterAny)

	// "Red" with the cursor at the end.
	m, _ = press(m, keyMsg(tea.KeyCtrlA))
	assert.Equal(t, 0, m.Field().CursorPos())

	m, _ = press(m, keyMsg(tea.KeyRight))
	assert.Equal(t, 1, m.Field().CursorPos())

	m, _ = press(m, keyMsg(tea.KeyCtrlE))
	assert.Equal(t, 3, m.Field().CursorPos())

	m, _ = press(m, keyMsg(tea.KeyLeft))
	assert.Equal(t, 2, m.Field().CursorPos())
}

func TestWordEditingKeys(t *testing.T) {
	m := newTestModel(selectfield.FilterAny)
	m.SetValue("Green Blue")

	// "Green Blue|" -> ctrl+w -> "Green |"
	m, _ = press(m, keyMsg(tea.KeyCtrlW))
	assert.Equal(t, "Green ", m.Field().Text())

	// alt+b walks back over "Green", alt+d deletes it.
	m, _ = press(m,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}, Alt: true},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}, Alt: true},
	)
	assert.Equal(t, " ", m.Field().Text())
	assert.Equal(t, 0, m.Field().CursorPos())
}

func TestHomeEndDriveTheList(t *testing.T) {
	m := newTestModel(selectfield.FilterAny)

	m, _ = press(m, keyMsg(tea.KeyHome))
	assert.True(t, m.Expanded())
	assert.Equal(t, "red", m.Field().Active().Value())

	m, _ = press(m, keyMsg(tea.KeyEnd))
	assert.Equal(t, "blue", m.Field().Active().Value())
}

func TestPasteInsertsIntoSearchText(t *testing.T) {
	m := newTestModel(selectfield.FilterAny)

	m, msgs := press(m, keyMsg(tea.KeyCtrlU), pasteMsg("Gre"))

	assert.Equal(t, "Gre", m.Field().Text())
	assert.Equal(t, []string{"", "Gre"}, inputValues(msgs))
}

func TestPasteErrorSurfacesOnModel(t *testing.T) {
	m := newTestModel(selectfield.FilterAny)

	m, _ = press(m, pasteErrMsg{errors.New("no clipboard")})

	require.Error(t, m.Err)
	assert.EqualError(t, m.Err, "no clipboard")
}

func TestFlushInitializesFromLateOptions(t *testing.T) {
	list := selectfield.NewOptionList()
	m := New(list)
	m.Cursor.SetMode(cursor.CursorStatic)
	m.Focus()

	_, ok := m.Value()
	require.False(t, ok, "empty collection leaves the field uninitialized")

	list.Add(selectfield.NewOption("red", "Red"))
	m, _ = press(m, m.Flush()())

	v, ok := m.Value()
	require.True(t, ok)
	assert.Equal(t, "red", v)
}

func TestFlushForOtherControlIgnored(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)
	other := New(colorList())

	m.Options().Add(selectfield.NewOption("teal", "Teal"))
	m, _ = press(m, other.Flush()())

	assert.True(t, m.Options().HasPending(), "another control's flush leaves this queue alone")
}

func TestPendingChangesDrainBeforeKey(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)

	m.Options().Add(selectfield.NewDefaultOption("teal", "Teal"))
	m, _ = press(m, keyMsg(tea.KeyDown))

	v, _ := m.Value()
	assert.Equal(t, "teal", v, "queued default adoption lands before the key acts")
	assert.Equal(t, "teal", m.Field().Active().Value())
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)
	m.Blur()

	m, msgs := press(m, keyMsg(tea.KeyDown), runesMsg("b"))

	assert.False(t, m.Expanded())
	assert.Empty(t, msgs)
}

func TestBlurCollapses(t *testing.T) {
	m := newTestModel(selectfield.FilterNone)

	m, _ = press(m, keyMsg(tea.KeyDown))
	require.True(t, m.Expanded())

	m.Blur()
	assert.False(t, m.Expanded())
	assert.False(t, m.Focused())
}

func TestEnterNeverInsertsLineBreak(t *testing.T) {
	m := newTestModel(selectfield.FilterAny)

	m, _ = press(m, keyMsg(tea.KeyDown)) // expand
	m, _ = press(m, keyMsg(tea.KeyEnter))

	assert.NotContains(t, m.Field().Text(), "\n")
}
