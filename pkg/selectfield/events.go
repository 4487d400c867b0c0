package selectfield

// OnInput registers the handler fired when typing changes the value. The
// handler runs synchronously and must not assume it can trigger itself:
// value changes made from inside the handler do not fire it again.
func (f *Field) OnInput(fn func(value string)) {
	f.onInput = fn
}

// OnChange registers the handler fired on every committed selection.
// Re-entrant commits made from inside the handler do not fire it again.
func (f *Field) OnChange(fn func(value string)) {
	f.onChange = fn
}

func (f *Field) emitInput() {
	if f.onInput == nil || f.inInput {
		return
	}
	f.inInput = true
	defer func() { f.inInput = false }()
	f.onInput(f.value)
}

func (f *Field) emitChange() {
	if f.onChange == nil || f.inChange {
		return
	}
	f.inChange = true
	defer func() { f.inChange = false }()
	f.onChange(f.value)
}
