// Package pin implements the teacher PIN format policy and PIN hashing.
package pin

import "unicode/utf8"

// PinLength is the exact number of digits a PIN must have
const PinLength = 6

const (
	ErrMsgRequired   = "PIN is required"
	ErrMsgLength     = "PIN must be exactly 6 digits"
	ErrMsgNonNumeric = "PIN must contain only numeric characters (0-9)"
)

// FormatResult is the outcome of a PIN syntax check
type FormatResult struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

// ValidateFormat checks PIN syntax. The length and digit rules are checked
// independently so both violations can be reported together.
func ValidateFormat(pin string) FormatResult {
	if pin == "" {
		return FormatResult{Errors: []string{ErrMsgRequired}}
	}

	errs := make([]string, 0, 2)
	if utf8.RuneCountInString(pin) != PinLength {
		errs = append(errs, ErrMsgLength)
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			errs = append(errs, ErrMsgNonNumeric)
			break
		}
	}

	return FormatResult{OK: len(errs) == 0, Errors: errs}
}
