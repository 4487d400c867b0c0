package selectfield

import "go.uber.org/zap"

// ValueMissingMessage is the validation message for a required field with no
// selection.
const ValueMissingMessage = "Please select an item in the list."

// Valid reports whether the field satisfies its constraints. Only the
// required constraint applies: a required field must hold a non-empty value.
// Disabled fields are exempt from validation.
func (f *Field) Valid() bool {
	if f.disabled || !f.required {
		return true
	}
	return f.hasValue && f.value != ""
}

// ValidationMessage returns the message describing why the field is invalid,
// or the empty string when it is valid.
func (f *Field) ValidationMessage() string {
	if f.Valid() {
		return ""
	}
	return ValueMissingMessage
}

// ReportValidity checks the field and, when invalid, flags it so the view
// surfaces the validation message. It returns the validity.
func (f *Field) ReportValidity() bool {
	if f.Valid() {
		f.reported = false
		return true
	}
	f.reported = true
	f.logger.Debug("selectfield reported invalid",
		zap.String("message", f.ValidationMessage()))
	return false
}

// ValidityReported reports whether an invalid state has been surfaced via
// ReportValidity and not yet repaired.
func (f *Field) ValidityReported() bool { return f.reported }
