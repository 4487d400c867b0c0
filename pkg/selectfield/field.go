// Package selectfield implements the headless core of a searchable
// single-select control: an option collection with batched change
// notification, and a field state machine that keeps value, search text,
// filtering, expansion and highlight consistent under every combination of
// typing, navigation, programmatic assignment and membership churn. The
// package has no opinion about rendering; pkg/combobox wraps it in a
// terminal widget.
package selectfield

import (
	"go.uber.org/zap"
)

// Field is the state machine behind a searchable single-select control. It
// owns the current value, the editable search text, the filter mode, the
// expansion state, the highlighted option and the filtered-match cache, and
// it keeps all of them mutually consistent across typing, navigation, value
// assignment, membership changes and form lifecycle events.
//
// A Field observes exactly one OptionList. Membership changes reach the field
// as batched Change records (see OptionList.Flush); everything else happens
// synchronously in the order the operations are invoked.
type Field struct {
	list *OptionList
	mode FilterMode

	// value state. hasValue distinguishes a legitimate empty-string value
	// from the uninitialized state of an empty collection.
	value    string
	hasValue bool
	selected *Option

	// editable search text and cursor, in runes.
	text   []rune
	cursor int

	expanded  bool
	searching bool
	active    *Option
	matches   []*Option
	candidate *Option
	matchFn   MatchFunc

	typeahead typeahead

	required bool
	disabled bool
	reported bool

	emptyMessage string

	onInput    func(value string)
	onChange   func(value string)
	inInput    bool
	inChange   bool

	id     string
	closed bool

	logger *zap.Logger
}

// DefaultEmptyMessage is shown in place of the option rows when a filter
// matches nothing.
const DefaultEmptyMessage = "No matching options"

// NewField creates a field observing list and subscribes to its membership
// changes. The list must exist before the field does; a field without its
// paired list is a wiring error, not a runtime condition.
func NewField(list *OptionList) *Field {
	if list == nil {
		panic("selectfield: field requires an option list")
	}
	f := &Field{
		list:         list,
		mode:         FilterNone,
		matchFn:      MatchSubstring,
		emptyMessage: DefaultEmptyMessage,
		logger:       zap.NewNop(),
	}
	list.attach(f)
	list.Subscribe(func(batch []Change) {
		if f.closed {
			return
		}
		f.reconcile(batch)
	})
	if list.Len() > 0 {
		f.reconcile(nil)
	} else {
		f.refilter()
	}
	return f
}

// Close tears the field down: pending timers owned by callers are invalidated
// by the closed flag, and membership notifications are no longer acted on.
func (f *Field) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.typeahead.reset()
	f.list.detach(f)
}

// Closed reports whether Close has been called.
func (f *Field) Closed() bool { return f.closed }

// SetLogger routes debug logging for state transitions. The default is a nop
// logger.
func (f *Field) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f.logger = logger
}

// ID returns the identifier assigned to the field, if any.
func (f *Field) ID() string { return f.id }

// SetID assigns the identifier used in attribute projections.
func (f *Field) SetID(id string) { f.id = id }

// Options returns the observed option list.
func (f *Field) Options() *OptionList { return f.list }

// Value returns the current value. ok is false while the field is
// uninitialized (an empty collection and no assigned value), which is
// distinct from holding the empty string.
func (f *Field) Value() (value string, ok bool) {
	return f.value, f.hasValue
}

// SelectedOption returns the option backing the current value, or nil when
// the value stands on its own (free text, empty value, or uninitialized).
func (f *Field) SelectedOption() *Option { return f.selected }

// OptionByValue returns the first option whose value equals v, or nil.
func (f *Field) OptionByValue(v string) *Option { return f.list.ByValue(v) }

// FilterMode returns the active filter mode.
func (f *Field) FilterMode() FilterMode { return f.mode }

// Required reports whether an empty value fails validation.
func (f *Field) Required() bool { return f.required }

// SetRequired flips the required constraint.
func (f *Field) SetRequired(required bool) {
	f.required = required
	if f.Valid() {
		f.reported = false
	}
}

// Disabled reports whether the field ignores user input.
func (f *Field) Disabled() bool { return f.disabled }

// SetDisabled flips the disabled flag. Disabling an expanded field collapses
// it.
func (f *Field) SetDisabled(disabled bool) {
	f.disabled = disabled
	if disabled && f.expanded {
		f.Collapse()
	}
}

// EmptyMessage returns the text shown when a filter matches nothing.
func (f *Field) EmptyMessage() string { return f.emptyMessage }

// SetEmptyMessage overrides the no-matches text.
func (f *Field) SetEmptyMessage(msg string) {
	if msg == "" {
		msg = DefaultEmptyMessage
	}
	f.emptyMessage = msg
}

// SetMatchFunc replaces the filter matcher. A nil fn restores the default
// case-insensitive substring matcher.
func (f *Field) SetMatchFunc(fn MatchFunc) {
	if fn == nil {
		fn = MatchSubstring
	}
	f.matchFn = fn
	if f.searching {
		f.refilter()
		f.fixupActive()
	}
}

// SetValue assigns v as the field value. A value naming a listed option
// adopts that option; anything else depends on the mode: FilterStrict and
// FilterNone reject it, FilterClearable accepts only the empty string, and
// FilterAny adopts the text verbatim. Rejected values change nothing and
// raise nothing. Assigning the value the field already holds, with its
// backing option still selected, is a no-op so the caller's cursor is left
// alone.
func (f *Field) SetValue(v string) {
	opt := f.list.ByValue(v)
	if f.hasValue && f.value == v && (opt == nil || opt.selected) {
		return
	}
	if opt != nil {
		f.adoptOption(opt)
		return
	}
	switch f.mode {
	case FilterAny:
		f.adoptFreeValue(v)
	case FilterClearable:
		if v == "" {
			f.adoptFreeValue("")
		} else {
			f.logger.Debug("selectfield rejecting unlisted value",
				zap.String("value", v), zap.String("mode", f.mode.String()))
		}
	default:
		f.logger.Debug("selectfield rejecting unlisted value",
			zap.String("value", v), zap.String("mode", f.mode.String()))
	}
}

// RestoreState reinstates a previously captured value, as on form state
// restoration. It behaves exactly like SetValue.
func (f *Field) RestoreState(v string) {
	f.SetValue(v)
}

// ForceEmptyValue clears the value unconditionally, bypassing option lookup.
// It is only meaningful in modes that accept an empty value; calling it in
// FilterStrict or FilterNone is a programming error.
func (f *Field) ForceEmptyValue() {
	if !f.mode.AllowsEmptyValue() {
		panic("selectfield: ForceEmptyValue requires FilterAny or FilterClearable")
	}
	f.adoptFreeValue("")
}

// ResetToDefault reinstates the default selection: the last option flagged as
// default, else the first option in FilterStrict/FilterNone, else the empty
// value in modes that accept one (adopting an empty-valued option when the
// list has one).
func (f *Field) ResetToDefault() {
	opts := f.list.Options()
	var def *Option
	for _, o := range opts {
		if o.defaultSelected {
			def = o
		}
	}
	switch {
	case def != nil:
		f.adoptOption(def)
	case f.mode.AllowsEmptyValue():
		if empty := f.list.ByValue(""); empty != nil {
			f.adoptOption(empty)
		} else {
			f.adoptFreeValue("")
		}
	case len(opts) > 0:
		f.adoptOption(opts[0])
	default:
		f.uninitialize()
	}
}

// adoptOption makes opt the selected option and the source of the value and
// the displayed text. Value is written before the text so observers of the
// value never see it trail the display.
func (f *Field) adoptOption(opt *Option) {
	prev := f.selected
	f.value = opt.value
	f.hasValue = true
	if prev != nil && prev != opt {
		prev.setSelectedQuiet(false)
	}
	opt.setSelectedQuiet(true)
	f.selected = opt
	f.setText(opt.label)
	f.candidate = nil
	if f.Valid() {
		f.reported = false
	}
	f.logger.Debug("selectfield adopted option",
		zap.String("value", opt.value), zap.String("label", opt.label))
}

// adoptFreeValue makes v the value with no backing option. Used for raw text
// in FilterAny and for the empty value in FilterClearable.
func (f *Field) adoptFreeValue(v string) {
	f.value = v
	f.hasValue = true
	if f.selected != nil {
		f.selected.setSelectedQuiet(false)
		f.selected = nil
	}
	f.setText(v)
	f.candidate = nil
	if f.Valid() {
		f.reported = false
	}
}

// uninitialize returns the field to the no-value state of an empty
// collection.
func (f *Field) uninitialize() {
	f.value = ""
	f.hasValue = false
	if f.selected != nil {
		f.selected.setSelectedQuiet(false)
		f.selected = nil
	}
	f.setText("")
	f.candidate = nil
	f.active = nil
}

// setText replaces the displayed text through a non-typing channel: the
// cursor moves to the end and any autoselect candidate is dropped by the
// callers above.
func (f *Field) setText(s string) {
	f.text = []rune(s)
	f.cursor = len(f.text)
}

// optionSelectionChanged is the single entry point for selection flags
// flipped from outside the field (Option.SetSelected).
func (f *Field) optionSelectionChanged(opt *Option, selected bool) {
	if f.closed {
		return
	}
	if selected {
		if f.selected == opt && f.hasValue && f.value == opt.value {
			return
		}
		f.adoptOption(opt)
		return
	}
	// opt was deselected. If it was not backing the value there is nothing
	// to reconcile.
	if f.selected != opt {
		return
	}
	f.selected = nil
	switch {
	case f.mode == FilterAny, f.mode == FilterClearable && f.value == "":
		// The value stands on its own.
	case f.mode == FilterClearable:
		f.adoptFreeValue("")
	default:
		f.ResetToDefault()
	}
}

// SetFilterMode switches the filter mode. An expanded field collapses first.
// When the held value is not acceptable under the new mode, it is repaired
// deterministically: adopt the autoselect candidate if one is live, else an
// option whose label equals the displayed text exactly, else reset to the
// default selection.
func (f *Field) SetFilterMode(mode FilterMode) {
	if mode == f.mode {
		return
	}
	candidate := f.candidate
	text := string(f.text)

	f.expanded = false
	f.searching = false
	f.active = nil
	f.typeahead.reset()
	f.mode = mode

	if !f.valueAcceptable() {
		switch {
		case candidate != nil && f.list.Index(candidate) >= 0:
			f.adoptOption(candidate)
		case f.optionByLabel(text) != nil:
			f.adoptOption(f.optionByLabel(text))
		default:
			f.ResetToDefault()
		}
	} else {
		f.normalizeText()
	}
	f.candidate = nil
	f.refilter()
	f.logger.Debug("selectfield filter mode changed",
		zap.String("mode", mode.String()), zap.String("value", f.value))
}

// valueAcceptable reports whether the current value may be held under the
// current mode without repair.
func (f *Field) valueAcceptable() bool {
	if !f.hasValue {
		return true
	}
	if f.selected != nil {
		return true
	}
	if f.value == "" && f.mode.AllowsEmptyValue() {
		return true
	}
	return f.mode == FilterAny
}

// normalizeText realigns the displayed text with the value outside a search
// session.
func (f *Field) normalizeText() {
	switch {
	case f.selected != nil:
		f.setText(f.selected.label)
	case f.hasValue && (f.mode == FilterAny || f.mode == FilterClearable):
		f.setText(f.value)
	default:
		f.setText("")
	}
}

func (f *Field) optionByLabel(label string) *Option {
	if label == "" {
		return nil
	}
	for _, o := range f.list.Options() {
		if o.label == label {
			return o
		}
	}
	return nil
}

// reconcile is the coalesced reaction to a batch of membership changes. It
// runs once per flush, against the list as it stands now, which may already
// differ from the list as it stood when the mutations were queued.
func (f *Field) reconcile(batch []Change) {
	current := f.list.Options()

	if len(current) == 0 {
		f.uninitialize()
		f.searching = false
		f.refilter()
		return
	}

	switch {
	case !f.hasValue:
		// First population: last default, else first.
		f.initializeValue(current)
	default:
		if def := lastAddedDefault(batch, f.list); def != nil {
			f.adoptOption(def)
		} else if f.selected != nil && f.list.Index(f.selected) < 0 {
			f.selected.setSelectedQuiet(false)
			f.selected = nil
			f.ResetToDefault()
		}
	}

	f.refilter()
	f.fixupCandidate()
	f.fixupActive()
}

// fixupCandidate drops an autoselect candidate that no longer matches the
// search text or fell out of the match set.
func (f *Field) fixupCandidate() {
	if f.candidate == nil {
		return
	}
	text := string(f.text)
	if text == "" || f.candidate.label != text {
		f.candidate = nil
		return
	}
	for _, o := range f.matches {
		if o == f.candidate {
			return
		}
	}
	f.candidate = nil
}

// initializeValue applies the first-population rule.
func (f *Field) initializeValue(current []*Option) {
	var def *Option
	for _, o := range current {
		if o.defaultSelected {
			def = o
		}
	}
	if def == nil {
		def = current[0]
	}
	f.adoptOption(def)
}

// lastAddedDefault returns the most recently added option flagged as default
// that is still a member, or nil.
func lastAddedDefault(batch []Change, list *OptionList) *Option {
	var def *Option
	for _, c := range batch {
		for _, o := range c.Added {
			if o.defaultSelected && list.Index(o) >= 0 {
				def = o
			}
		}
	}
	return def
}
