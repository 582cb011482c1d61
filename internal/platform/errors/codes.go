// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Dice errors
	CodeDiceInvalidSides  Code = "DICE_INVALID_SIDES"
	CodeDiceInvalidResult Code = "DICE_INVALID_RESULT"

	// Tray errors
	CodeDieIndexOutOfRange Code = "DIE_INDEX_OUT_OF_RANGE"

	// Random/entropy errors
	CodeEntropyUnavailable Code = "ENTROPY_UNAVAILABLE"

	// Display option errors
	CodeOptionUnknown      Code = "OPTION_UNKNOWN"
	CodeOptionInvalidValue Code = "OPTION_INVALID_VALUE"
)

// Fatal reports whether an error with this code must stop the current
// program rather than reject a single user action.
func (c Code) Fatal() bool {
	switch c {
	// Recoverable - the action is rejected and state is unchanged
	case CodeDiceInvalidSides,
		CodeDiceInvalidResult,
		CodeDieIndexOutOfRange,
		CodeOptionUnknown,
		CodeOptionInvalidValue:
		return false

	// Fatal - no trustworthy way to continue
	case CodeEntropyUnavailable:
		return true

	default:
		return true
	}
}
