package dice

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/dicetray/internal/platform/errors"
	"github.com/louisbranch/dicetray/internal/random"
)

// Sampling selects how a 32-bit draw is mapped onto [1, sides].
type Sampling int

const (
	// SamplingModulo reduces each draw modulo sides. It reads the source
	// exactly once per call and accepts a small bias whenever sides does not
	// divide 2^32.
	SamplingModulo Sampling = iota
	// SamplingRejection redraws values that fall in the biased tail of the
	// 32-bit range, giving exactly uniform results at the cost of extra reads.
	SamplingRejection
)

func (s Sampling) String() string {
	switch s {
	case SamplingModulo:
		return "modulo"
	case SamplingRejection:
		return "rejection"
	default:
		return "unknown"
	}
}

// ParseSampling parses a sampling name as returned by Sampling.String.
func ParseSampling(value string) (Sampling, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "modulo":
		return SamplingModulo, nil
	case "rejection":
		return SamplingRejection, nil
	default:
		return SamplingModulo, fmt.Errorf("unknown sampling %q", value)
	}
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSampling sets the sampling strategy.
func WithSampling(sampling Sampling) EngineOption {
	return func(e *Engine) {
		e.sampling = sampling
	}
}

// Engine rolls dice using an entropy source. It keeps no state between calls
// and is safe for concurrent use when its source is.
type Engine struct {
	src      io.Reader
	sampling Sampling
}

// NewEngine creates an engine reading from src. A nil src uses the
// cryptographic source from package random.
func NewEngine(src io.Reader, opts ...EngineOption) *Engine {
	if src == nil {
		src = random.Reader()
	}
	engine := &Engine{src: src, sampling: SamplingModulo}
	for _, opt := range opts {
		if opt != nil {
			opt(engine)
		}
	}
	return engine
}

// Sampling returns the configured sampling strategy.
func (e *Engine) Sampling() Sampling {
	return e.sampling
}

// RollOne rolls a single die with the given number of sides and returns a
// value in [1, sides].
//
// sides is expected to come from a valid Die; values below 1 or above
// MaxSides return ErrInvalidSides instead of panicking.
func (e *Engine) RollOne(sides int) (int, error) {
	results, err := e.RollMany([]int{sides})
	if err != nil {
		return 0, err
	}
	return results[0], nil
}

// RollMany rolls one die per entry of sides and returns the results in the
// same order: results[i] is in [1, sides[i]].
//
// With SamplingModulo the whole batch is drawn with a single read of the
// source. The call either succeeds for every die or returns an error and no
// results.
func (e *Engine) RollMany(sides []int) ([]int, error) {
	if len(sides) == 0 {
		return []int{}, nil
	}
	for _, s := range sides {
		if s < 1 || s > MaxSides {
			return nil, invalidSides(float64(s), "die sides out of range for rolling")
		}
	}

	values, err := e.draw(len(sides))
	if err != nil {
		return nil, err
	}

	results := make([]int, len(sides))
	if e.sampling == SamplingRejection {
		if err := e.rejectBiased(sides, values); err != nil {
			return nil, err
		}
	}
	for i, s := range sides {
		results[i] = int(values[i]%uint32(s)) + 1
	}
	return results, nil
}

// rejectBiased redraws, in batches, every value at or above the largest
// multiple of its sides that fits in 32 bits.
func (e *Engine) rejectBiased(sides []int, values []uint32) error {
	pending := make([]int, 0, len(sides))
	for i, s := range sides {
		if !acceptable(values[i], s) {
			pending = append(pending, i)
		}
	}
	for len(pending) > 0 {
		redrawn, err := e.draw(len(pending))
		if err != nil {
			return err
		}
		next := pending[:0]
		for j, i := range pending {
			values[i] = redrawn[j]
			if !acceptable(values[i], sides[i]) {
				next = append(next, i)
			}
		}
		pending = next
	}
	return nil
}

func (e *Engine) draw(n int) ([]uint32, error) {
	values, err := random.Uint32s(e.src, n)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeEntropyUnavailable, "entropy source unavailable", map[string]string{
			"Count": strconv.Itoa(n),
		}, err)
	}
	return values, nil
}

// acceptable reports whether v lies below the largest multiple of sides in
// the 32-bit range.
func acceptable(v uint32, sides int) bool {
	const span = uint64(1) << 32
	limit := span - span%uint64(sides)
	return uint64(v) < limit
}
