package selectfield

// Attrs is the accessibility surface of the control at one instant: a pure
// projection of field state. Computing it never mutates the field, so an
// assistive renderer may call it as often as it likes.
type Attrs struct {
	Role             string
	HasPopup         string
	Expanded         bool
	Autocomplete     string
	ActiveDescendant string
	Controls         string
	Required         bool
	Disabled         bool
	Invalid          bool
}

// OptionAttrs is the projected surface of a single dropdown row.
type OptionAttrs struct {
	ID       string
	Role     string
	Label    string
	Selected bool
	Active   bool
	Disabled bool
}

// Attrs projects the field's current state onto its attribute surface.
func (f *Field) Attrs() Attrs {
	a := Attrs{
		Role:     "combobox",
		HasPopup: "listbox",
		Expanded: f.expanded,
		Required: f.required,
		Disabled: f.disabled,
		Invalid:  f.reported && !f.Valid(),
	}
	switch f.mode {
	case FilterNone:
		a.Autocomplete = "none"
	case FilterAny:
		a.Autocomplete = "both"
	default:
		a.Autocomplete = "list"
	}
	if f.id != "" {
		a.Controls = f.id + "-listbox"
	}
	if f.expanded && f.active != nil {
		a.ActiveDescendant = f.active.ID()
	}
	return a
}

// OptionAttrsFor projects a single option's row surface.
func (f *Field) OptionAttrsFor(opt *Option) OptionAttrs {
	return OptionAttrs{
		ID:       opt.ID(),
		Role:     "option",
		Label:    opt.Label(),
		Selected: opt == f.selected,
		Active:   f.expanded && opt == f.active,
		Disabled: opt.Disabled(),
	}
}

// VisibleAttrs projects the full visible row set in order.
func (f *Field) VisibleAttrs() []OptionAttrs {
	visible := f.visibleOptions()
	out := make([]OptionAttrs, len(visible))
	for i, o := range visible {
		out[i] = f.OptionAttrsFor(o)
	}
	return out
}
