package selectfield

import "fmt"

// FilterMode controls whether the field accepts typed text as a filter and
// how strictly its value is tied to the option list.
type FilterMode int

const (
	// FilterNone disables text filtering. The field behaves like a native
	// single select: the value always corresponds to a listed option and
	// typing jumps the highlight by label prefix.
	FilterNone FilterMode = iota

	// FilterAny accepts arbitrary typed text. The value tracks the search
	// text verbatim and need not correspond to any listed option.
	FilterAny

	// FilterClearable accepts listed values or the empty string. Clearing
	// the search text clears the value; any other unlisted value is
	// rejected.
	FilterClearable

	// FilterStrict accepts listed values only. Unlisted values, including
	// the empty string, are rejected.
	FilterStrict
)

// String returns the mode name as used in attribute projections.
func (m FilterMode) String() string {
	switch m {
	case FilterNone:
		return "none"
	case FilterAny:
		return "any"
	case FilterClearable:
		return "clearable"
	case FilterStrict:
		return "strict"
	default:
		return "none"
	}
}

// ParseFilterMode maps a mode name to its FilterMode. The empty string means
// FilterNone.
func ParseFilterMode(s string) (FilterMode, error) {
	switch s {
	case "", "none":
		return FilterNone, nil
	case "any":
		return FilterAny, nil
	case "clearable":
		return FilterClearable, nil
	case "strict":
		return FilterStrict, nil
	default:
		return FilterNone, fmt.Errorf("unknown filter mode %q", s)
	}
}

// Filtering reports whether the mode presents an editable search text.
func (m FilterMode) Filtering() bool {
	return m != FilterNone
}

// TakesFreeText reports whether typed text becomes the value directly.
// FilterClearable qualifies only while the search text is empty, which is
// decided at the call site.
func (m FilterMode) TakesFreeText() bool {
	return m == FilterAny
}

// AllowsEmptyValue reports whether the empty string is an acceptable value
// without a corresponding option.
func (m FilterMode) AllowsEmptyValue() bool {
	return m == FilterAny || m == FilterClearable
}
