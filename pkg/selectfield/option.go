package selectfield

// Option is a single selectable entry in an option list. Options are created
// by the caller and handed to an OptionList, which owns their ordering and
// identity. The selected flag is live state: flipping it (programmatically or
// through field operations) is the one channel by which an option announces a
// selection change to the field that observes its list.
type Option struct {
	value           string
	label           string
	disabled        bool
	defaultSelected bool
	selected        bool

	id    string
	owner *OptionList
}

// NewOption creates an enabled option whose label doubles as its value when
// the label is empty.
func NewOption(value, label string) *Option {
	if label == "" {
		label = value
	}
	return &Option{value: value, label: label}
}

// NewDefaultOption creates an option flagged as the default selection.
// When several options carry the flag, the last one in collection order wins.
func NewDefaultOption(value, label string) *Option {
	o := NewOption(value, label)
	o.defaultSelected = true
	return o
}

// Value returns the submission value of the option.
func (o *Option) Value() string { return o.value }

// Label returns the display label of the option.
func (o *Option) Label() string { return o.label }

// ID returns the identifier assigned by the owning list, or "" for an
// unattached option.
func (o *Option) ID() string { return o.id }

// Disabled reports whether the option can be activated or selected through
// user input. Disabled options may still be adopted programmatically.
func (o *Option) Disabled() bool { return o.disabled }

// SetDisabled flips the disabled flag.
func (o *Option) SetDisabled(disabled bool) { o.disabled = disabled }

// DefaultSelected reports whether the option is restored by a reset.
func (o *Option) DefaultSelected() bool { return o.defaultSelected }

// Selected reports the live selection flag.
func (o *Option) Selected() bool { return o.selected }

// SetSelected flips the live selection flag and notifies the observing field.
// Flipping an already-equal flag is a no-op and produces no notification.
func (o *Option) SetSelected(selected bool) {
	if o.selected == selected {
		return
	}
	o.selected = selected
	if o.owner != nil && o.owner.field != nil {
		o.owner.field.optionSelectionChanged(o, selected)
	}
}

// setSelectedQuiet flips the flag without notifying anybody. Field-internal
// writes use this so the field's own transitions do not re-enter themselves.
func (o *Option) setSelectedQuiet(selected bool) {
	o.selected = selected
}
