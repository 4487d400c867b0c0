// Package form groups named select controls into a submittable unit:
// whole-form validation, value collection, reset to defaults, and YAML state
// snapshots for save and restore.
package form

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Control is the contract a form member fulfils. *selectfield.Field satisfies
// it as-is.
type Control interface {
	Value() (value string, ok bool)
	Valid() bool
	ValidationMessage() string
	ReportValidity() bool
	ResetToDefault()
	RestoreState(v string)
	Disabled() bool
}

// ValidationError carries the validation messages of every control that
// failed, keyed by control name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("form: invalid controls: %s", strings.Join(names, ", "))
}

// Form is an ordered collection of named controls.
type Form struct {
	names    []string
	controls map[string]Control
}

// New creates an empty form.
func New() *Form {
	return &Form{controls: make(map[string]Control)}
}

// Add registers a control under name. Names are unique within a form.
func (f *Form) Add(name string, c Control) error {
	if name == "" {
		return fmt.Errorf("form: control name must not be empty")
	}
	if c == nil {
		return fmt.Errorf("form: control %q is nil", name)
	}
	if _, ok := f.controls[name]; ok {
		return fmt.Errorf("form: control %q already registered", name)
	}
	f.names = append(f.names, name)
	f.controls[name] = c
	return nil
}

// Names returns the control names in registration order.
func (f *Form) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Control returns the control registered under name, or nil.
func (f *Form) Control(name string) Control {
	return f.controls[name]
}

// Validate runs validity reporting on every control. It returns a
// *ValidationError naming each failing control, or nil when the form is
// submittable.
func (f *Form) Validate() error {
	invalid := make(map[string]string)
	for _, name := range f.names {
		c := f.controls[name]
		if !c.ReportValidity() {
			invalid[name] = c.ValidationMessage()
		}
	}
	if len(invalid) > 0 {
		return &ValidationError{Fields: invalid}
	}
	return nil
}

// Values collects the current values keyed by control name. Disabled and
// uninitialized controls contribute nothing, the same way a disabled native
// control stays out of a form submission.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.names))
	for _, name := range f.names {
		c := f.controls[name]
		if c.Disabled() {
			continue
		}
		if v, ok := c.Value(); ok {
			out[name] = v
		}
	}
	return out
}

// Submit validates the form and, when it passes, returns the collected
// values.
func (f *Form) Submit() (map[string]string, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.Values(), nil
}

// Reset reinstates every control's default selection.
func (f *Form) Reset() {
	for _, name := range f.names {
		f.controls[name].ResetToDefault()
	}
}

// SaveState serializes the current values into a YAML snapshot keyed by
// control name. Uninitialized controls are omitted; disabled ones are kept,
// since restoring state is not a submission.
func (f *Form) SaveState() ([]byte, error) {
	state := make(map[string]string, len(f.names))
	for _, name := range f.names {
		if v, ok := f.controls[name].Value(); ok {
			state[name] = v
		}
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize form state: %w", err)
	}
	return data, nil
}

// RestoreState reinstates values from a SaveState snapshot. Each value flows
// through the owning control's mode rules, so a value a control would reject
// today is quietly skipped. Names with no registered control are ignored.
func (f *Form) RestoreState(data []byte) error {
	var state map[string]string
	if err := yaml.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse form state: %w", err)
	}
	for _, name := range f.names {
		if v, ok := state[name]; ok {
			f.controls[name].RestoreState(v)
		}
	}
	return nil
}
