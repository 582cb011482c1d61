package dice

import (
	"fmt"
	"math"
)

// MaxSides is the largest supported side count. Draws are 32-bit, so larger
// dice could not reach all faces.
const MaxSides = math.MaxInt32

// Die is one polyhedral die: a side count and the face it last landed on.
// The zero value is not a valid die; use New.
type Die struct {
	sides  int
	result int
}

// New validates sides and builds a die showing result.
//
// Both values are floored, so fractional input is truncated rather than
// rejected. sides must be finite, positive, at least 2 and at most MaxSides,
// otherwise ErrInvalidSides is returned. result is not checked against sides;
// it only has to be a finite value within the int32 range, otherwise
// ErrInvalidResult is returned.
func New(sides, result float64) (Die, error) {
	switch {
	case math.IsNaN(sides) || math.IsInf(sides, 0):
		return Die{}, invalidSides(sides, "die sides must be a number")
	case sides < 1:
		return Die{}, invalidSides(sides, "die sides must be non-zero, positive")
	case sides < 2:
		return Die{}, invalidSides(sides, "a die must have at least 2 sides")
	case sides >= MaxSides+1:
		return Die{}, invalidSides(sides, "die sides exceed the supported maximum")
	}

	floored := math.Floor(result)
	if math.IsNaN(floored) || floored < math.MinInt32 || floored > math.MaxInt32 {
		return Die{}, invalidResult(result)
	}

	return Die{
		sides:  int(math.Floor(sides)),
		result: int(floored),
	}, nil
}

// Sides returns the number of faces.
func (d Die) Sides() int {
	return d.sides
}

// Result returns the face the die last landed on.
func (d Die) Result() int {
	return d.result
}

// WithResult returns a new die with the same sides showing result. The
// receiver is not modified.
func (d Die) WithResult(result float64) (Die, error) {
	return New(float64(d.sides), result)
}

// InRange reports whether the result is a face of this die.
func (d Die) InRange() bool {
	return d.result >= 1 && d.result <= d.sides
}

// String renders the die as "<result> (d<sides>)".
func (d Die) String() string {
	return fmt.Sprintf("%d (d%d)", d.result, d.sides)
}
