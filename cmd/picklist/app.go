package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/oakmere/picklist/internal/optionfile"
	"github.com/oakmere/picklist/internal/recent"
	"github.com/oakmere/picklist/pkg/combobox"
	"github.com/oakmere/picklist/pkg/form"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

const defaultFieldWidth = 44

// errInterrupted is returned when the user quits with ctrl+c instead of
// submitting.
var errInterrupted = errors.New("interrupted by user")

type appKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Reset     key.Binding
	Save      key.Binding
	Quit      key.Binding
}

var defaultAppKeys = appKeyMap{
	NextField: key.NewBinding(key.WithKeys("tab")),
	PrevField: key.NewBinding(key.WithKeys("shift+tab")),
	Reset:     key.NewBinding(key.WithKeys("ctrl+r")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s")),
	Quit:      key.NewBinding(key.WithKeys("ctrl+c")),
}

// appModel drives one field per option set, registered in a shared form.
// Enter on a collapsed field submits the whole form; tab cycles focus.
type appModel struct {
	form   *form.Form
	fields []combobox.Model
	names  []string
	hints  []string
	store  *recent.Store
	logger *zap.Logger
	keys   appKeyMap

	statePath string
	focus     int
	width     int
	height    int

	errorMsg string
	savedMsg string

	submitted bool
	quitting  bool
	values    map[string]string
}

func newAppModel(sets []optionfile.Set, store *recent.Store, statePath string, logger *zap.Logger) (appModel, error) {
	m := appModel{
		form:      form.New(),
		store:     store,
		logger:    logger,
		keys:      defaultAppKeys,
		statePath: statePath,
	}

	for _, set := range sets {
		mode, err := set.Mode()
		if err != nil {
			return appModel{}, err
		}

		c := combobox.New(set.List())
		c.Placeholder = set.Placeholder
		c.Width = defaultFieldWidth
		c.SetLogger(logger)
		// Commit-before-blur must fire when focus moves backwards too.
		c.KeyMap.Accept = key.NewBinding(key.WithKeys("tab", "shift+tab"))
		c.Field().SetFilterMode(mode)
		c.Field().SetRequired(set.Required)

		if err := m.form.Add(set.Name, c.Field()); err != nil {
			return appModel{}, err
		}

		m.fields = append(m.fields, c)
		m.names = append(m.names, set.Name)
		m.hints = append(m.hints, lastPickedHint(store, set.Name))
	}

	if len(m.fields) == 0 {
		return appModel{}, fmt.Errorf("no option sets to show")
	}

	if statePath != "" {
		if data, err := os.ReadFile(statePath); err == nil {
			if err := m.form.RestoreState(data); err != nil {
				logger.Warn("failed to restore form state", zap.Error(err))
			}
		}
	}

	m.fields[m.focus].Focus()

	return m, nil
}

// lastPickedHint renders the most recent committed selection for the named
// field, or "" when there is none to show.
func lastPickedHint(store *recent.Store, name string) string {
	if store == nil {
		return ""
	}
	sel, err := store.Last(name)
	if err != nil || sel == nil {
		return ""
	}
	return "last: " + sel.Describe()
}

func (m appModel) Init() tea.Cmd {
	return combobox.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 4
		if w > defaultFieldWidth {
			w = defaultFieldWidth
		}
		for i := range m.fields {
			m.fields[i].Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
			// The widget sees the key first so it can commit the
			// highlighted option before losing focus.
			var cmd tea.Cmd
			m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
			cmds = append(cmds, cmd)

			m.fields[m.focus].Blur()
			if key.Matches(msg, m.keys.PrevField) {
				m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
			} else {
				m.focus = (m.focus + 1) % len(m.fields)
			}
			cmds = append(cmds, m.fields[m.focus].Focus())
			return m, tea.Batch(cmds...)

		case key.Matches(msg, m.keys.Reset):
			m.form.Reset()
			m.errorMsg = ""
			m.savedMsg = ""
			return m, nil

		case key.Matches(msg, m.keys.Save):
			if err := m.saveState(); err != nil {
				m.errorMsg = err.Error()
			} else {
				m.savedMsg = "state saved to " + m.statePath
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
		return m, cmd

	case combobox.SubmitMsg:
		m.logger.Debug("form submission requested", zap.String("field", msg.ID))
		values, err := m.form.Submit()
		if err != nil {
			var verr *form.ValidationError
			if errors.As(err, &verr) {
				m.errorMsg = fmt.Sprintf("%d of %d fields failed validation", len(verr.Fields), len(m.fields))
			} else {
				m.errorMsg = err.Error()
			}
			return m, nil
		}
		m.values = values
		m.submitted = true
		m.quitting = true
		return m, tea.Quit

	case combobox.ChangedMsg:
		m.errorMsg = ""
		if idx := m.fieldIndex(msg.ID); idx >= 0 {
			// The field now shows the fresh pick; the stale hint would
			// only repeat it.
			m.hints[idx] = ""
		}
		return m, m.recordSelection(msg)

	case combobox.InputMsg:
		m.savedMsg = ""
		return m, nil
	}

	// Everything else (cursor blinks, queued option flushes) reaches every
	// field regardless of focus.
	for i := range m.fields {
		var cmd tea.Cmd
		m.fields[i], cmd = m.fields[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("picklist") + "\n\n")

	for i := range m.fields {
		b.WriteString(labelStyle.Render(m.names[i]) + "\n")
		b.WriteString(m.fields[i].View() + "\n")
		if m.hints[i] != "" && !m.fields[i].Expanded() {
			b.WriteString(hintStyle.Render(m.hints[i]) + "\n")
		}
		b.WriteString("\n")
	}

	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render(m.errorMsg) + "\n")
	}
	if m.savedMsg != "" {
		b.WriteString(successStyle.Render(m.savedMsg) + "\n")
	}
	b.WriteString(helpStyle.Render("tab: next field | enter: submit | ctrl+r: reset | ctrl+s: save | ctrl+c: quit"))

	return b.String()
}

func (m appModel) fieldIndex(id string) int {
	for i := range m.fields {
		if m.fields[i].ID() == id {
			return i
		}
	}
	return -1
}

// recordSelection writes a committed value to the recent-selections store off
// the update loop. Clearing a field is not a pick, so empty values are
// skipped.
func (m appModel) recordSelection(msg combobox.ChangedMsg) tea.Cmd {
	if m.store == nil || msg.Value == "" {
		return nil
	}

	idx := m.fieldIndex(msg.ID)
	if idx < 0 {
		return nil
	}

	name := m.names[idx]
	label := msg.Value
	if opt := m.fields[idx].Field().SelectedOption(); opt != nil {
		label = opt.Label()
	}

	store, logger := m.store, m.logger
	return func() tea.Msg {
		if err := store.Record(name, msg.Value, label); err != nil {
			logger.Warn("failed to record selection", zap.Error(err))
		}
		return nil
	}
}

// saveState writes the form snapshot through a temp file so a crash mid-write
// cannot corrupt the previous state.
func (m appModel) saveState() error {
	if m.statePath == "" {
		return fmt.Errorf("no state file configured, pass -state")
	}

	data, err := m.form.SaveState()
	if err != nil {
		return err
	}

	dir := filepath.Dir(m.statePath)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(m.statePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, m.statePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// runForm runs the demo form to completion and returns the submitted values.
func runForm(sets []optionfile.Set, store *recent.Store, statePath string, logger *zap.Logger) (map[string]string, error) {
	model, err := newAppModel(sets, store, statePath, logger)
	if err != nil {
		return nil, err
	}

	p := tea.NewProgram(model)

	res, err := p.Run()
	if err != nil {
		return nil, err
	}

	final, ok := res.(appModel)
	if !ok {
		logger.Error("form resulted in an unexpected app model")
		panic("form resulted in an unexpected app model")
	}

	if !final.submitted {
		return nil, errInterrupted
	}

	return final.values, nil
}
