package combobox

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/wrap"
	"github.com/rivo/uniseg"
)

// View renders the control line with prompt and cursor, the dropdown rows
// below it when expanded, and the validation message once validity has been
// reported.
func (m Model) View() string {
	styleText := m.TextStyle.Inline(true).Render

	v := m.PromptStyle.Render(m.Prompt)

	value := []rune(m.field.DisplayText())
	pos := 0
	if m.field.FilterMode().Filtering() {
		pos = max(0, m.field.CursorPos())
		if pos > len(value) {
			pos = len(value)
		}
		v += styleText(string(value[:pos]))
		if pos < len(value) {
			m.Cursor.SetChar(string(value[pos]))
			v += m.Cursor.View()                 // cursor and text under it
			v += styleText(string(value[pos+1:])) // text after cursor
		} else {
			m.Cursor.SetChar(" ")
			v += m.Cursor.View()
		}
		if len(value) == 0 && m.Placeholder != "" {
			v += m.PlaceholderStyle.Inline(true).Render(m.Placeholder)
		}
	} else {
		if len(value) == 0 && m.Placeholder != "" {
			v += m.PlaceholderStyle.Inline(true).Render(m.Placeholder)
		} else {
			v += styleText(string(value))
		}
		if m.field.Expanded() {
			v += styleText(" ▴")
		} else {
			v += styleText(" ▾")
		}
	}

	totalWidth := uniseg.StringWidth(v)

	// If a max width is set, we need to respect the horizontal boundary
	if m.Width > 0 {
		if totalWidth <= m.Width {
			padding := max(0, m.Width-totalWidth)
			v += styleText(strings.Repeat(" ", padding))
		} else {
			v = wrap.String(v, m.Width)
		}
	}

	if m.field.Expanded() {
		if box := m.ListBoxView(); box != "" {
			v += "\n" + box
		}
	}

	if m.field.ValidityReported() && !m.field.Valid() {
		v += "\n" + m.MessageStyle.Render(m.field.ValidationMessage())
	}

	return v
}

// ListBoxView renders the dropdown rows inside the scroll window. When
// nothing matches, a single placeholder row carries the empty message; it is
// display-only and can never become active.
func (m Model) ListBoxView() string {
	visible := m.field.Matches()
	if len(visible) == 0 {
		return m.EmptyStyle.Render("   " + m.field.EmptyMessage())
	}

	maxRows := m.MaxVisible
	if maxRows <= 0 {
		maxRows = defaultMaxVisible
	}
	start := m.offset
	if start > len(visible)-1 {
		start = len(visible) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + maxRows
	if end > len(visible) {
		end = len(visible)
	}

	// Use ansi.PrintableRuneWidth to get visual width without ANSI codes.
	rowWidth := 0
	for _, o := range visible[start:end] {
		if w := ansi.PrintableRuneWidth(o.Label()) + 3; w > rowWidth {
			rowWidth = w
		}
	}

	active := m.field.Active()
	var content strings.Builder
	for i := start; i < end; i++ {
		o := visible[i]

		prefix := "   "
		if o == active {
			prefix = " > "
		}
		line := prefix + o.Label()
		if pad := rowWidth - ansi.PrintableRuneWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		if m.Width > 0 {
			line = runewidth.Truncate(line, m.Width, "…")
		}

		switch {
		case o.Disabled():
			line = m.DisabledItemStyle.Render(line)
		case o == active:
			line = m.ActiveItemStyle.Render(line)
		default:
			line = m.ItemStyle.Render(line)
		}

		content.WriteString(line)
		if i < end-1 {
			content.WriteString("\n")
		}
	}

	return content.String()
}
