// Package tray holds the ordered collection of dice a user is playing with
// and the actions that change it.
//
// Every action replaces Die values by index; dice handed out by the tray are
// copies, so callers cannot change tray state except through its methods.
// A Tray is not safe for concurrent use.
package tray

import (
	"context"
	"log"
	"strconv"

	"github.com/louisbranch/dicetray/internal/dice"
	apperrors "github.com/louisbranch/dicetray/internal/platform/errors"
	"github.com/louisbranch/dicetray/internal/platform/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/dicetray/internal/tray"

// Event names emitted for tray actions.
const (
	EventDieAdded   = "tray.die_added"
	EventDieRemoved = "tray.die_removed"
	EventDieRolled  = "tray.die_rolled"
	EventDiceRolled = "tray.dice_rolled"
	EventCleared    = "tray.cleared"
)

// Polyhedrals are the side counts offered as quick-add buttons.
var Polyhedrals = []int{4, 6, 8, 10, 12, 20, 100}

// ErrDieIndexOutOfRange indicates an action referenced a missing die.
var ErrDieIndexOutOfRange = apperrors.New(apperrors.CodeDieIndexOutOfRange, "die index out of range")

// Roller produces die results. *dice.Engine implements it.
type Roller interface {
	RollOne(sides int) (int, error)
	RollMany(sides []int) ([]int, error)
}

// Option configures a Tray.
type Option func(*Tray)

// WithEmitter reports every action to emitter.
func WithEmitter(emitter *telemetry.Emitter) Option {
	return func(t *Tray) {
		t.emitter = emitter
	}
}

// WithTracer overrides the tracer used for action spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(t *Tray) {
		if tracer != nil {
			t.tracer = tracer
		}
	}
}

// Tray is an ordered collection of dice.
type Tray struct {
	roller  Roller
	dice    []dice.Die
	emitter *telemetry.Emitter
	tracer  trace.Tracer
}

// New creates an empty tray rolling with roller. A nil roller uses a
// dice.Engine backed by the cryptographic source.
func New(roller Roller, opts ...Option) *Tray {
	if roller == nil {
		roller = dice.NewEngine(nil)
	}
	t := &Tray{
		roller: roller,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Len returns the number of dice in the tray.
func (t *Tray) Len() int {
	return len(t.dice)
}

// Dice returns a copy of the dice in display order.
func (t *Tray) Dice() []dice.Die {
	out := make([]dice.Die, len(t.dice))
	copy(out, t.dice)
	return out
}

// Results returns the current result of every die in display order.
func (t *Tray) Results() []int {
	out := make([]int, len(t.dice))
	for i, d := range t.dice {
		out[i] = d.Result()
	}
	return out
}

// Add rolls a new die with the given sides and appends it.
//
// sides is validated before rolling, so an invalid die never consumes
// entropy. On error the tray is unchanged.
func (t *Tray) Add(ctx context.Context, sides float64) (dice.Die, error) {
	ctx, span := t.tracer.Start(ctx, "tray.Add")
	defer span.End()

	blank, err := dice.New(sides, 1)
	if err != nil {
		return dice.Die{}, t.fail(ctx, span, EventDieAdded, err)
	}
	result, err := t.roller.RollOne(blank.Sides())
	if err != nil {
		return dice.Die{}, t.fail(ctx, span, EventDieAdded, err)
	}
	die, err := blank.WithResult(float64(result))
	if err != nil {
		return dice.Die{}, t.fail(ctx, span, EventDieAdded, err)
	}

	t.dice = append(t.dice, die)
	span.SetAttributes(
		attribute.Int("die.sides", die.Sides()),
		attribute.Int("die.result", die.Result()),
		attribute.Int("tray.size", len(t.dice)),
	)
	t.emit(ctx, EventDieAdded, map[string]any{
		"index":  len(t.dice) - 1,
		"sides":  die.Sides(),
		"result": die.Result(),
	})
	return die, nil
}

// Remove deletes the die at index, keeping the order of the others.
func (t *Tray) Remove(ctx context.Context, index int) error {
	ctx, span := t.tracer.Start(ctx, "tray.Remove", trace.WithAttributes(attribute.Int("die.index", index)))
	defer span.End()

	if err := t.checkIndex(index); err != nil {
		return t.fail(ctx, span, EventDieRemoved, err)
	}
	removed := t.dice[index]
	next := make([]dice.Die, 0, len(t.dice)-1)
	next = append(next, t.dice[:index]...)
	next = append(next, t.dice[index+1:]...)
	t.dice = next

	t.emit(ctx, EventDieRemoved, map[string]any{
		"index": index,
		"sides": removed.Sides(),
	})
	return nil
}

// Roll re-rolls the die at index and returns its new value.
func (t *Tray) Roll(ctx context.Context, index int) (dice.Die, error) {
	ctx, span := t.tracer.Start(ctx, "tray.Roll", trace.WithAttributes(attribute.Int("die.index", index)))
	defer span.End()

	if err := t.checkIndex(index); err != nil {
		return dice.Die{}, t.fail(ctx, span, EventDieRolled, err)
	}
	current := t.dice[index]
	result, err := t.roller.RollOne(current.Sides())
	if err != nil {
		return dice.Die{}, t.fail(ctx, span, EventDieRolled, err)
	}
	updated, err := current.WithResult(float64(result))
	if err != nil {
		return dice.Die{}, t.fail(ctx, span, EventDieRolled, err)
	}

	t.dice[index] = updated
	span.SetAttributes(
		attribute.Int("die.sides", updated.Sides()),
		attribute.Int("die.result", updated.Result()),
	)
	t.emit(ctx, EventDieRolled, map[string]any{
		"index":  index,
		"sides":  updated.Sides(),
		"result": updated.Result(),
	})
	return updated, nil
}

// RollAll re-rolls every die with a single batch request. Either every die
// gets a new result or, on error, none does.
func (t *Tray) RollAll(ctx context.Context) error {
	ctx, span := t.tracer.Start(ctx, "tray.RollAll", trace.WithAttributes(attribute.Int("tray.size", len(t.dice))))
	defer span.End()

	if len(t.dice) == 0 {
		return nil
	}

	sides := make([]int, len(t.dice))
	for i, d := range t.dice {
		sides[i] = d.Sides()
	}
	results, err := t.roller.RollMany(sides)
	if err != nil {
		return t.fail(ctx, span, EventDiceRolled, err)
	}
	if len(results) != len(sides) {
		err := apperrors.WithMetadata(apperrors.CodeEntropyUnavailable, "roller returned a short batch", map[string]string{
			"Want": strconv.Itoa(len(sides)),
			"Got":  strconv.Itoa(len(results)),
		})
		return t.fail(ctx, span, EventDiceRolled, err)
	}

	next := make([]dice.Die, len(t.dice))
	for i, d := range t.dice {
		updated, err := d.WithResult(float64(results[i]))
		if err != nil {
			return t.fail(ctx, span, EventDiceRolled, err)
		}
		next[i] = updated
	}
	t.dice = next

	t.emit(ctx, EventDiceRolled, map[string]any{
		"count": len(next),
		"sum":   t.Stats().Sum,
	})
	return nil
}

// Clear removes every die.
func (t *Tray) Clear(ctx context.Context) {
	ctx, span := t.tracer.Start(ctx, "tray.Clear", trace.WithAttributes(attribute.Int("tray.size", len(t.dice))))
	defer span.End()

	removed := len(t.dice)
	t.dice = nil
	t.emit(ctx, EventCleared, map[string]any{"removed": removed})
}

func (t *Tray) checkIndex(index int) error {
	if index < 0 || index >= len(t.dice) {
		return apperrors.WithMetadata(apperrors.CodeDieIndexOutOfRange, "die index out of range", map[string]string{
			"Index":    strconv.Itoa(index),
			"Position": strconv.Itoa(index + 1),
			"Size":     strconv.Itoa(len(t.dice)),
		})
	}
	return nil
}

// fail records err on the span and as an error event and returns it.
func (t *Tray) fail(ctx context.Context, span trace.Span, name string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	severity := telemetry.SeverityWarn
	if apperrors.IsFatal(err) {
		severity = telemetry.SeverityError
	}
	t.emitEvent(ctx, telemetry.Event{
		Name:     name,
		Severity: severity,
		Attributes: map[string]any{
			"code":  string(apperrors.CodeOf(err)),
			"error": err.Error(),
		},
	})
	return err
}

func (t *Tray) emit(ctx context.Context, name string, attrs map[string]any) {
	t.emitEvent(ctx, telemetry.Event{Name: name, Attributes: attrs})
}

func (t *Tray) emitEvent(ctx context.Context, evt telemetry.Event) {
	if err := t.emitter.Emit(ctx, evt); err != nil {
		log.Printf("tray emit %s: %v", evt.Name, err)
	}
}
