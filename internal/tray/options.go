package tray

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/dicetray/internal/platform/errors"
)

// Alignment places a row of buttons on one side of the screen.
type Alignment string

const (
	AlignLeft  Alignment = "left"
	AlignRight Alignment = "right"
)

// ParseAlignment parses "left" or "right", ignoring case and surrounding
// whitespace.
func ParseAlignment(value string) (Alignment, error) {
	switch Alignment(strings.ToLower(strings.TrimSpace(value))) {
	case AlignLeft:
		return AlignLeft, nil
	case AlignRight:
		return AlignRight, nil
	default:
		return "", fmt.Errorf("alignment must be left or right, got %q", value)
	}
}

// UnmarshalText lets environment and flag parsing accept alignments.
func (a *Alignment) UnmarshalText(text []byte) error {
	parsed, err := ParseAlignment(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// String implements fmt.Stringer.
func (a Alignment) String() string {
	return string(a)
}

// Option names accepted by DisplayOptions.Set.
const (
	OptionAlignAddButtons   = "align-add-buttons"
	OptionReverseAddButtons = "reverse-add-buttons"
	OptionAlignControls     = "align-controls"
	OptionReverseControls   = "reverse-controls"
)

// DisplayOptions controls how the tray is laid out. It has no effect on dice
// or rolling.
type DisplayOptions struct {
	AlignAddButtons   Alignment `env:"DICETRAY_ALIGN_ADD_BUTTONS" envDefault:"right"`
	ReverseAddButtons bool      `env:"DICETRAY_REVERSE_ADD_BUTTONS" envDefault:"false"`
	AlignControls     Alignment `env:"DICETRAY_ALIGN_CONTROLS" envDefault:"right"`
	ReverseControls   bool      `env:"DICETRAY_REVERSE_CONTROLS" envDefault:"true"`
}

// DefaultDisplayOptions returns the layout used when nothing is configured.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{
		AlignAddButtons:   AlignRight,
		ReverseAddButtons: false,
		AlignControls:     AlignRight,
		ReverseControls:   true,
	}
}

// Validate checks that both alignments are known.
func (o DisplayOptions) Validate() error {
	if _, err := ParseAlignment(string(o.AlignAddButtons)); err != nil {
		return invalidOption(OptionAlignAddButtons, string(o.AlignAddButtons), err)
	}
	if _, err := ParseAlignment(string(o.AlignControls)); err != nil {
		return invalidOption(OptionAlignControls, string(o.AlignControls), err)
	}
	return nil
}

// Set returns a copy of o with the named option changed. The receiver is not
// modified.
func (o DisplayOptions) Set(name, value string) (DisplayOptions, error) {
	next := o
	switch strings.ToLower(strings.TrimSpace(name)) {
	case OptionAlignAddButtons:
		a, err := ParseAlignment(value)
		if err != nil {
			return o, invalidOption(OptionAlignAddButtons, value, err)
		}
		next.AlignAddButtons = a
	case OptionReverseAddButtons:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return o, invalidOption(OptionReverseAddButtons, value, err)
		}
		next.ReverseAddButtons = b
	case OptionAlignControls:
		a, err := ParseAlignment(value)
		if err != nil {
			return o, invalidOption(OptionAlignControls, value, err)
		}
		next.AlignControls = a
	case OptionReverseControls:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return o, invalidOption(OptionReverseControls, value, err)
		}
		next.ReverseControls = b
	default:
		return o, apperrors.WithMetadata(apperrors.CodeOptionUnknown, "unknown display option", map[string]string{
			"Option": name,
		})
	}
	return next, nil
}

// OptionEntry is one named option and its rendered value.
type OptionEntry struct {
	Name  string
	Value string
}

// Entries lists every option in a stable order.
func (o DisplayOptions) Entries() []OptionEntry {
	return []OptionEntry{
		{Name: OptionAlignAddButtons, Value: o.AlignAddButtons.String()},
		{Name: OptionReverseAddButtons, Value: strconv.FormatBool(o.ReverseAddButtons)},
		{Name: OptionAlignControls, Value: o.AlignControls.String()},
		{Name: OptionReverseControls, Value: strconv.FormatBool(o.ReverseControls)},
	}
}

// AddButtons returns the quick-add side counts in display order.
func (o DisplayOptions) AddButtons() []int {
	return Arrange(Polyhedrals, o.ReverseAddButtons)
}

// Arrange returns a copy of items, reversed when reverse is set.
func Arrange[T any](items []T, reverse bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func invalidOption(name, value string, cause error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeOptionInvalidValue, "invalid display option value", map[string]string{
		"Option": name,
		"Value":  value,
	}, cause)
}
