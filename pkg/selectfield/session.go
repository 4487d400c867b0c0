package selectfield

import "go.uber.org/zap"

// Expanded reports whether the dropdown is open.
func (f *Field) Expanded() bool { return f.expanded }

// Active returns the highlighted option, or nil when the field is collapsed
// or nothing is visible.
func (f *Field) Active() *Option { return f.active }

// Matches returns the options currently visible in the dropdown: the
// filtered matches during a search session, the full collection otherwise.
func (f *Field) Matches() []*Option {
	if !f.mode.Filtering() {
		return f.list.Options()
	}
	out := make([]*Option, len(f.matches))
	copy(out, f.matches)
	return out
}

// Candidate returns the autoselect candidate: the visible option whose label
// equals the search text exactly. It is only ever non-nil during a search
// session.
func (f *Field) Candidate() *Option { return f.candidate }

// Expand opens the dropdown through navigation (arrow key, click, focus).
// The highlight lands on the selected option when it is visible, else on the
// first visible option. Navigation is not a search session, so any stale
// autoselect candidate is dropped.
func (f *Field) Expand() {
	if f.disabled || f.expanded {
		return
	}
	f.expanded = true
	f.candidate = nil
	f.typeahead.reset()
	if f.active == nil {
		f.active = f.firstVisible(f.selected)
	}
	f.logger.Debug("selectfield expanded")
}

// Collapse closes the dropdown and reconciles the displayed text with the
// value: FilterAny keeps the text as typed, FilterStrict snaps it back to the
// selected label, and FilterClearable clears the value when the text was
// erased and otherwise snaps like strict. The match cache resets to the full
// collection so the next expansion shows everything.
func (f *Field) Collapse() {
	if !f.expanded {
		return
	}
	f.expanded = false
	f.active = nil
	f.typeahead.reset()

	if f.searching {
		switch f.mode {
		case FilterAny:
			f.cursor = len(f.text)
		case FilterClearable:
			switch {
			case len(f.text) == 0:
				f.cursor = 0
			case f.selected == nil && f.hasValue && f.value == "":
				f.setText("")
			case f.selected != nil:
				f.setText(f.selected.label)
			default:
				f.normalizeText()
			}
		default:
			if f.selected != nil {
				f.setText(f.selected.label)
			} else {
				f.normalizeText()
			}
		}
	}

	f.searching = false
	f.candidate = nil
	f.refilter()
	f.logger.Debug("selectfield collapsed", zap.String("value", f.value))
}

// MoveActive moves the highlight by delta eligible options, skipping disabled
// ones. Filter modes clamp at the ends of the match list; unfiltered mode
// wraps around the collection.
func (f *Field) MoveActive(delta int) {
	if !f.expanded || delta == 0 {
		return
	}
	eligible := f.eligibleVisible()
	if len(eligible) == 0 {
		f.active = nil
		return
	}
	idx := -1
	for i, o := range eligible {
		if o == f.active {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta > 0 {
			f.active = eligible[0]
		} else {
			f.active = eligible[len(eligible)-1]
		}
		return
	}
	if f.mode.Filtering() {
		idx = clampInt(idx+delta, 0, len(eligible)-1)
	} else {
		idx = ((idx+delta)%len(eligible) + len(eligible)) % len(eligible)
	}
	f.active = eligible[idx]
}

// ActivateFirst highlights the first eligible visible option.
func (f *Field) ActivateFirst() {
	if !f.expanded {
		return
	}
	eligible := f.eligibleVisible()
	if len(eligible) == 0 {
		f.active = nil
		return
	}
	f.active = eligible[0]
}

// ActivateLast highlights the last eligible visible option.
func (f *Field) ActivateLast() {
	if !f.expanded {
		return
	}
	eligible := f.eligibleVisible()
	if len(eligible) == 0 {
		f.active = nil
		return
	}
	f.active = eligible[len(eligible)-1]
}

// Activate highlights opt directly, as on pointer hover. opt must be visible
// and enabled; anything else is ignored.
func (f *Field) Activate(opt *Option) {
	if !f.expanded || opt == nil || opt.disabled {
		return
	}
	for _, o := range f.visibleOptions() {
		if o == opt {
			f.active = opt
			return
		}
	}
}

// CommitActive adopts the highlighted option as the committed selection,
// fires the change signal and collapses. It reports whether a commit
// happened; with no highlight it only collapses.
func (f *Field) CommitActive() bool {
	if !f.expanded {
		return false
	}
	opt := f.active
	if opt == nil {
		f.Collapse()
		return false
	}
	return f.CommitOption(opt)
}

// CommitOption adopts opt as the committed selection, as on a pointer click
// on a dropdown row. Disabled options are ignored.
func (f *Field) CommitOption(opt *Option) bool {
	if opt == nil || opt.disabled || f.list.Index(opt) < 0 {
		return false
	}
	f.adoptOption(opt)
	f.searching = false
	if f.expanded {
		f.expanded = false
		f.active = nil
		f.typeahead.reset()
	}
	f.refilter()
	f.emitChange()
	f.logger.Debug("selectfield committed selection",
		zap.String("value", opt.value))
	return true
}

// visibleOptions returns the dropdown rows without copying.
func (f *Field) visibleOptions() []*Option {
	if !f.mode.Filtering() {
		return f.list.Options()
	}
	return f.matches
}

// eligibleVisible returns the visible options that can be highlighted.
func (f *Field) eligibleVisible() []*Option {
	visible := f.visibleOptions()
	eligible := make([]*Option, 0, len(visible))
	for _, o := range visible {
		if !o.disabled {
			eligible = append(eligible, o)
		}
	}
	return eligible
}

// firstVisible returns preferred when it is visible and enabled, else the
// first eligible visible option, else nil.
func (f *Field) firstVisible(preferred *Option) *Option {
	eligible := f.eligibleVisible()
	if len(eligible) == 0 {
		return nil
	}
	if preferred != nil && !preferred.disabled {
		for _, o := range eligible {
			if o == preferred {
				return o
			}
		}
	}
	return eligible[0]
}

// fixupActive repairs the highlight after the visible set changed underneath
// it: a vanished or filtered-out highlight falls to the first eligible
// option, or to nil when nothing matches.
func (f *Field) fixupActive() {
	if !f.expanded {
		f.active = nil
		return
	}
	if f.active != nil {
		for _, o := range f.eligibleVisible() {
			if o == f.active {
				return
			}
		}
	}
	f.active = f.firstVisible(nil)
}
