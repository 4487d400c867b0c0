/*
This file is forked from the textinput component from
github.com/charmbracelet/bubbles

# MIT License

# Copyright (c) 2020-2023 Charmbracelet, Inc

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package combobox

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oakmere/picklist/pkg/selectfield"
)

// ============================================================================
// Internal Messages
// ============================================================================

// Internal messages for clipboard operations.
type (
	pasteMsg    string
	pasteErrMsg struct{ error }
)

// flushMsg delivers queued option collection changes back into the widget.
type flushMsg struct{ id string }

// ============================================================================
// Published Messages
// ============================================================================

// InputMsg is published after a text edit rewrote the field value, which only
// happens in the free-text filter modes.
type InputMsg struct {
	ID    string
	Value string
}

// ChangedMsg is published when a selection is committed or the value is
// otherwise rewritten on the user's behalf.
type ChangedMsg struct {
	ID    string
	Value string
}

// SubmitMsg is published when enter is pressed while the dropdown is
// collapsed. An enclosing form treats it as a submission request.
type SubmitMsg struct {
	ID string
}

// ============================================================================
// Types and Configuration
// ============================================================================

// KeyMap is the key bindings for different actions within the combobox.
type KeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	FirstItem key.Binding
	LastItem  key.Binding
	Collapse  key.Binding
	Commit    key.Binding
	Accept    key.Binding
	Toggle    key.Binding

	CharacterForward        key.Binding
	CharacterBackward       key.Binding
	WordForward             key.Binding
	WordBackward            key.Binding
	DeleteWordBackward      key.Binding
	DeleteWordForward       key.Binding
	DeleteAfterCursor       key.Binding
	DeleteBeforeCursor      key.Binding
	DeleteCharacterBackward key.Binding
	DeleteCharacterForward  key.Binding
	LineStart               key.Binding
	LineEnd                 key.Binding
	Paste                   key.Binding
}

// DefaultKeyMap is the default set of key bindings for navigating and acting
// upon the combobox. Home and end drive the option list; ctrl+a and ctrl+e
// keep their emacs meaning within the search text.
var DefaultKeyMap = KeyMap{
	Next:      key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Prev:      key.NewBinding(key.WithKeys("up", "ctrl+p")),
	FirstItem: key.NewBinding(key.WithKeys("home")),
	LastItem:  key.NewBinding(key.WithKeys("end")),
	Collapse:  key.NewBinding(key.WithKeys("esc")),
	Commit:    key.NewBinding(key.WithKeys("enter")),
	Accept:    key.NewBinding(key.WithKeys("tab")),
	Toggle:    key.NewBinding(key.WithKeys(" ")),

	CharacterForward:        key.NewBinding(key.WithKeys("right", "ctrl+f")),
	CharacterBackward:       key.NewBinding(key.WithKeys("left", "ctrl+b")),
	WordForward:             key.NewBinding(key.WithKeys("alt+right", "ctrl+right", "alt+f")),
	WordBackward:            key.NewBinding(key.WithKeys("alt+left", "ctrl+left", "alt+b")),
	DeleteWordBackward:      key.NewBinding(key.WithKeys("alt+backspace", "ctrl+w")),
	DeleteWordForward:       key.NewBinding(key.WithKeys("alt+delete", "alt+d")),
	DeleteAfterCursor:       key.NewBinding(key.WithKeys("ctrl+k")),
	DeleteBeforeCursor:      key.NewBinding(key.WithKeys("ctrl+u")),
	DeleteCharacterBackward: key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
	DeleteCharacterForward:  key.NewBinding(key.WithKeys("delete", "ctrl+d")),
	LineStart:               key.NewBinding(key.WithKeys("ctrl+a")),
	LineEnd:                 key.NewBinding(key.WithKeys("ctrl+e")),
	Paste:                   key.NewBinding(key.WithKeys("ctrl+v")),
}

// signalBuf collects field signals raised during one Update pass so they can
// be replayed as Bubble Tea messages once the pass finishes.
type signalBuf struct {
	events []signalEvent
}

type signalEvent struct {
	input bool
	value string
}

// ============================================================================
// Model
// ============================================================================

// Model is the Bubble Tea model for a single-selection combobox. The option
// list state lives behind a shared Field pointer, so copies of the Model are
// views of the same control; the Model itself only carries presentation
// state, as Bubble Tea expects.
type Model struct {
	Err error

	// General settings.
	Prompt      string
	Placeholder string
	Cursor      cursor.Model

	// Styles. These will be applied as inline styles.
	//
	// For an introduction to styling with Lip Gloss see:
	// https://github.com/charmbracelet/lipgloss
	PromptStyle       lipgloss.Style
	TextStyle         lipgloss.Style
	PlaceholderStyle  lipgloss.Style
	ItemStyle         lipgloss.Style
	ActiveItemStyle   lipgloss.Style
	DisabledItemStyle lipgloss.Style
	EmptyStyle        lipgloss.Style
	MessageStyle      lipgloss.Style

	// Width marks the horizontal boundary for this component to render
	// within. Content that exceeds this width will be wrapped. If 0 or less
	// this setting is ignored.
	Width int

	// MaxVisible caps the number of dropdown rows rendered at once. The
	// window scrolls to keep the highlighted row visible. If 0 or less a
	// default of 7 rows applies.
	MaxVisible int

	// KeyMap encodes the keybindings recognized by the widget.
	KeyMap KeyMap

	// focus indicates whether user input focus should be on this input
	// component. When false, ignore keyboard input and hide the cursor.
	focus bool

	// offset is the index of the first dropdown row inside the render
	// window.
	offset int

	field   *selectfield.Field
	list    *selectfield.OptionList
	signals *signalBuf
	logger  *zap.Logger
}

// ============================================================================
// Constructor
// ============================================================================

const defaultMaxVisible = 7

// New creates a combobox over the given option list. The widget owns the
// field's input and change signals; consume InputMsg and ChangedMsg instead
// of installing handlers on the field.
func New(list *selectfield.OptionList) Model {
	id := "combo-" + uuid.NewString()[:8]
	list.SetIDPrefix(id)

	field := selectfield.NewField(list)
	field.SetID(id)

	buf := &signalBuf{}
	field.OnInput(func(v string) {
		buf.events = append(buf.events, signalEvent{input: true, value: v})
	})
	field.OnChange(func(v string) {
		buf.events = append(buf.events, signalEvent{value: v})
	})

	return Model{
		Prompt:            "? ",
		PlaceholderStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		ActiveItemStyle:   lipgloss.NewStyle().Bold(true),
		DisabledItemStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		EmptyStyle:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		MessageStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Cursor:            cursor.New(),
		KeyMap:            DefaultKeyMap,

		focus:   false,
		field:   field,
		list:    list,
		signals: buf,
		logger:  zap.NewNop(),
	}
}

// SetLogger routes debug logging for this widget and its field. Passing nil
// restores the no-op logger.
func (m *Model) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m.logger = logger
	m.field.SetLogger(logger)
}

// ============================================================================
// Accessors
// ============================================================================

// Field exposes the underlying field controller for configuration: filter
// mode, required flag, match function, programmatic value writes.
func (m Model) Field() *selectfield.Field { return m.field }

// Options returns the option list this combobox renders.
func (m Model) Options() *selectfield.OptionList { return m.list }

// ID returns the identifier namespace shared by the field and its options.
func (m Model) ID() string { return m.field.ID() }

// Value returns the committed value. ok is false while the field is
// uninitialized.
func (m Model) Value() (value string, ok bool) { return m.field.Value() }

// SetValue assigns the value programmatically, following the field's filter
// mode rules.
func (m *Model) SetValue(v string) { m.field.SetValue(v) }

// Expanded reports whether the dropdown is open.
func (m Model) Expanded() bool { return m.field.Expanded() }

// ============================================================================
// Focus and Blur
// ============================================================================

// Focused returns the focus state on the model.
func (m Model) Focused() bool {
	return m.focus
}

// Focus sets the focus state on the model. When the model is in focus it can
// receive keyboard input and the cursor will be shown.
func (m *Model) Focus() tea.Cmd {
	m.focus = true
	return m.Cursor.Focus()
}

// Blur removes the focus state on the model and collapses the dropdown. The
// text/value reconciliation that collapse implies runs before focus is gone,
// so a committed selection set via tab survives.
func (m *Model) Blur() {
	m.focus = false
	m.field.Collapse()
	m.Cursor.Blur()
}

// ============================================================================
// Update
// ============================================================================

// Update is the Bubble Tea update loop. Keyboard input is translated into
// field transitions; queued option collection changes are drained before any
// key is interpreted so input always acts on reconciled state.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case flushMsg:
		if msg.id != "" && msg.id != m.field.ID() {
			return m, nil
		}
		m.list.Flush()
		m.ensureActiveVisible()
		return m, tea.Batch(m.drainSignals()...)
	case pasteErrMsg:
		m.Err = msg
		return m, nil
	}

	if !m.focus {
		return m, nil
	}

	if m.list.HasPending() {
		m.list.Flush()
	}

	// Let's remember where the position of the cursor currently is so that
	// if the cursor position changes, we can reset the blink.
	oldPos := m.field.CursorPos()

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		filtering := m.field.FilterMode().Filtering()
		switch {
		case key.Matches(msg, m.KeyMap.Collapse):
			m.field.Collapse()
		case key.Matches(msg, m.KeyMap.Commit):
			if m.field.Expanded() {
				m.field.CommitActive()
			} else {
				id := m.field.ID()
				cmds = append(cmds, func() tea.Msg { return SubmitMsg{ID: id} })
			}
		case key.Matches(msg, m.KeyMap.Accept):
			if m.field.Expanded() {
				m.field.CommitActive()
			}
		case key.Matches(msg, m.KeyMap.Next):
			if m.field.Expanded() {
				m.field.MoveActive(1)
			} else {
				m.field.Expand()
			}
		case key.Matches(msg, m.KeyMap.Prev):
			if m.field.Expanded() {
				m.field.MoveActive(-1)
			} else {
				m.field.Expand()
			}
		case key.Matches(msg, m.KeyMap.FirstItem):
			m.field.Expand()
			m.field.ActivateFirst()
		case key.Matches(msg, m.KeyMap.LastItem):
			m.field.Expand()
			m.field.ActivateLast()
		case !filtering && key.Matches(msg, m.KeyMap.Toggle):
			if m.field.Expanded() {
				m.field.CommitActive()
			} else {
				m.field.Expand()
			}
		case !filtering:
			// No search text to edit; printable runes drive the typeahead
			// scan instead.
			if msg.Type == tea.KeyRunes {
				m.field.Expand()
				now := time.Now()
				for _, r := range msg.Runes {
					m.field.Typeahead(r, now)
				}
			}
		case key.Matches(msg, m.KeyMap.Paste):
			return m, Paste
		case key.Matches(msg, m.KeyMap.LineStart):
			m.field.CursorStart()
		case key.Matches(msg, m.KeyMap.LineEnd):
			m.field.CursorEnd()
		case key.Matches(msg, m.KeyMap.CharacterBackward):
			m.field.MoveCursor(-1)
		case key.Matches(msg, m.KeyMap.CharacterForward):
			m.field.MoveCursor(1)
		case key.Matches(msg, m.KeyMap.WordBackward):
			m.field.SetCursorPos(m.wordBackward())
		case key.Matches(msg, m.KeyMap.WordForward):
			m.field.SetCursorPos(m.wordForward())
		case key.Matches(msg, m.KeyMap.DeleteCharacterBackward):
			m.field.DeleteBackward(1)
		case key.Matches(msg, m.KeyMap.DeleteCharacterForward):
			m.field.DeleteForward(1)
		case key.Matches(msg, m.KeyMap.DeleteWordBackward):
			m.deleteWordBackward()
		case key.Matches(msg, m.KeyMap.DeleteWordForward):
			m.deleteWordForward()
		case key.Matches(msg, m.KeyMap.DeleteBeforeCursor):
			m.field.ApplyEdits([]selectfield.Edit{{Start: 0, End: m.field.CursorPos()}})
		case key.Matches(msg, m.KeyMap.DeleteAfterCursor):
			pos := m.field.CursorPos()
			m.field.ApplyEdits([]selectfield.Edit{{Start: pos, End: len([]rune(m.field.Text()))}})
		default:
			// Input one or more regular characters.
			if len(msg.Runes) > 0 {
				m.field.InsertRunes(string(msg.Runes))
			}
		}

	case pasteMsg:
		m.field.InsertRunes(string(msg))
	}

	m.ensureActiveVisible()

	cmds = append(cmds, m.drainSignals()...)

	var cmd tea.Cmd
	m.Cursor, cmd = m.Cursor.Update(msg)
	cmds = append(cmds, cmd)

	if oldPos != m.field.CursorPos() && m.Cursor.Mode() == cursor.CursorBlink {
		m.Cursor.Blink = false
		cmds = append(cmds, m.Cursor.BlinkCmd())
	}

	return m, tea.Batch(cmds...)
}

// drainSignals converts buffered field signals into message commands, oldest
// first.
func (m Model) drainSignals() []tea.Cmd {
	events := m.signals.events
	if len(events) == 0 {
		return nil
	}
	m.signals.events = nil

	id := m.field.ID()
	cmds := make([]tea.Cmd, 0, len(events))
	for _, ev := range events {
		ev := ev
		if ev.input {
			cmds = append(cmds, func() tea.Msg { return InputMsg{ID: id, Value: ev.value} })
		} else {
			cmds = append(cmds, func() tea.Msg { return ChangedMsg{ID: id, Value: ev.value} })
		}
	}
	return cmds
}

// ensureActiveVisible scrolls the dropdown window so the highlighted row
// stays inside it.
func (m *Model) ensureActiveVisible() {
	visible := m.field.Matches()
	maxRows := m.MaxVisible
	if maxRows <= 0 {
		maxRows = defaultMaxVisible
	}
	if len(visible) <= maxRows {
		m.offset = 0
		return
	}
	if m.offset > len(visible)-maxRows {
		m.offset = len(visible) - maxRows
	}
	if m.offset < 0 {
		m.offset = 0
	}

	active := m.field.Active()
	if active == nil {
		return
	}
	idx := -1
	for i, o := range visible {
		if o == active {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	if idx < m.offset {
		m.offset = idx
	} else if idx >= m.offset+maxRows {
		m.offset = idx - maxRows + 1
	}
}

// ============================================================================
// Commands
// ============================================================================

// Blink is a command used to initialize cursor blinking.
func Blink() tea.Msg {
	return cursor.Blink()
}

// Paste is a command for pasting from the clipboard into the search text.
func Paste() tea.Msg {
	str, err := clipboard.ReadAll()
	if err != nil {
		return pasteErrMsg{err}
	}
	return pasteMsg(str)
}

// Flush returns a command that delivers queued option collection changes back
// into this widget's Update. Mutate the list, then run the command; the
// reconciliation pass coalesces everything queued so far.
func (m Model) Flush() tea.Cmd {
	id := m.field.ID()
	return func() tea.Msg { return flushMsg{id: id} }
}
