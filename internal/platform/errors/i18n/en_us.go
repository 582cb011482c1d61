package i18n

import apperrors "github.com/louisbranch/dicetray/internal/platform/errors"

// enUSMessages fills in any code the embedded bundle does not translate.
var enUSMessages = map[apperrors.Code]string{
	apperrors.CodeUnknown:            "Something went wrong",
	apperrors.CodeDiceInvalidSides:   "A die needs a finite number of at least 2 sides, got {{.Sides}}",
	apperrors.CodeDiceInvalidResult:  "A die result must be a whole number, got {{.Result}}",
	apperrors.CodeDieIndexOutOfRange: "There is no die at position {{.Position}}",
	apperrors.CodeEntropyUnavailable: "The secure random source is unavailable",
	apperrors.CodeOptionUnknown:      "Unknown option {{.Option}}",
	apperrors.CodeOptionInvalidValue: "Invalid value {{.Value}} for option {{.Option}}",
}
