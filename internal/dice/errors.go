package dice

import (
	"strconv"

	apperrors "github.com/louisbranch/dicetray/internal/platform/errors"
)

// ErrInvalidSides indicates a side count that is not finite, below 2, or
// above MaxSides.
var ErrInvalidSides = apperrors.New(apperrors.CodeDiceInvalidSides, "die must have a finite number of at least 2 sides")

// ErrInvalidResult indicates a result that cannot be represented as an integer.
var ErrInvalidResult = apperrors.New(apperrors.CodeDiceInvalidResult, "die result must be a finite integer")

// ErrEntropyUnavailable indicates the random source could not be read.
var ErrEntropyUnavailable = apperrors.New(apperrors.CodeEntropyUnavailable, "entropy source unavailable")

func invalidSides(sides float64, message string) error {
	return apperrors.WithMetadata(apperrors.CodeDiceInvalidSides, message, map[string]string{
		"Sides": strconv.FormatFloat(sides, 'g', -1, 64),
	})
}

func invalidResult(result float64) error {
	return apperrors.WithMetadata(apperrors.CodeDiceInvalidResult, "die result must be a finite integer", map[string]string{
		"Result": strconv.FormatFloat(result, 'g', -1, 64),
	})
}
