package tray

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/louisbranch/dicetray/internal/dice"
	"github.com/louisbranch/dicetray/internal/platform/telemetry"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// stubRoller returns queued results and records every request.
type stubRoller struct {
	one      []int
	many     [][]int
	err      error
	oneCalls []int
	manyArgs [][]int
}

func (r *stubRoller) RollOne(sides int) (int, error) {
	r.oneCalls = append(r.oneCalls, sides)
	if r.err != nil {
		return 0, r.err
	}
	if len(r.one) == 0 {
		return 1, nil
	}
	next := r.one[0]
	r.one = r.one[1:]
	return next, nil
}

func (r *stubRoller) RollMany(sides []int) ([]int, error) {
	r.manyArgs = append(r.manyArgs, append([]int(nil), sides...))
	if r.err != nil {
		return nil, r.err
	}
	next := r.many[0]
	r.many = r.many[1:]
	return next, nil
}

type recordingSink struct {
	events []telemetry.Event
}

func (s *recordingSink) Record(ctx context.Context, evt telemetry.Event) error {
	s.events = append(s.events, evt)
	return nil
}

func assertDie(t *testing.T, got dice.Die, sides, result int) {
	t.Helper()
	if got.Sides() != sides || got.Result() != result {
		t.Fatalf("die = (%d,%d), want (%d,%d)", got.Sides(), got.Result(), sides, result)
	}
}

// TestTrayScenario walks through add, roll all, remove and clear.
func TestTrayScenario(t *testing.T) {
	ctx := context.Background()
	roller := &stubRoller{one: []int{5, 11}, many: [][]int{{3, 17}}}
	tr := New(roller)

	if tr.Len() != 0 {
		t.Fatalf("expected empty tray, got %d dice", tr.Len())
	}

	d6, err := tr.Add(ctx, 6)
	if err != nil {
		t.Fatalf("add d6: %v", err)
	}
	if tr.Len() != 1 {
		t.Fatalf("expected 1 die, got %d", tr.Len())
	}
	if d6.Result() < 1 || d6.Result() > 6 {
		t.Fatalf("d6 result %d out of range", d6.Result())
	}

	if _, err := tr.Add(ctx, 20); err != nil {
		t.Fatalf("add d20: %v", err)
	}
	if tr.Len() != 2 {
		t.Fatalf("expected 2 dice, got %d", tr.Len())
	}

	if err := tr.RollAll(ctx); err != nil {
		t.Fatalf("roll all: %v", err)
	}
	if len(roller.manyArgs) != 1 || roller.manyArgs[0][0] != 6 || roller.manyArgs[0][1] != 20 {
		t.Fatalf("unexpected batch request %v", roller.manyArgs)
	}
	got := tr.Dice()
	assertDie(t, got[0], 6, 3)
	assertDie(t, got[1], 20, 17)

	if err := tr.Remove(ctx, 0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got = tr.Dice()
	if len(got) != 1 {
		t.Fatalf("expected 1 die after remove, got %d", len(got))
	}
	assertDie(t, got[0], 20, 17)

	tr.Clear(ctx)
	if tr.Len() != 0 {
		t.Fatalf("expected empty tray after clear, got %d", tr.Len())
	}
}

// TestAddRejectsInvalidSidesWithoutRolling ensures validation precedes rolling.
func TestAddRejectsInvalidSidesWithoutRolling(t *testing.T) {
	roller := &stubRoller{}
	tr := New(roller)

	for _, sides := range []float64{1, 0, -5, math.NaN(), math.Inf(1)} {
		if _, err := tr.Add(context.Background(), sides); !errors.Is(err, dice.ErrInvalidSides) {
			t.Fatalf("Add(%v) error = %v, want %v", sides, err, dice.ErrInvalidSides)
		}
	}
	if len(roller.oneCalls) != 0 {
		t.Fatalf("expected no rolls, got %v", roller.oneCalls)
	}
	if tr.Len() != 0 {
		t.Fatalf("expected empty tray, got %d", tr.Len())
	}
}

// TestAddFloorsSides ensures fractional side counts are truncated.
func TestAddFloorsSides(t *testing.T) {
	roller := &stubRoller{one: []int{7}}
	tr := New(roller)

	die, err := tr.Add(context.Background(), 8.7)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	assertDie(t, die, 8, 7)
	if roller.oneCalls[0] != 8 {
		t.Fatalf("expected roll for 8 sides, got %d", roller.oneCalls[0])
	}
}

// TestRollReplacesOnlyTargetDie ensures a single re-roll keeps order and neighbours.
func TestRollReplacesOnlyTargetDie(t *testing.T) {
	ctx := context.Background()
	roller := &stubRoller{one: []int{1, 2, 3, 9}}
	tr := New(roller)
	for _, sides := range []float64{4, 10, 12} {
		if _, err := tr.Add(ctx, sides); err != nil {
			t.Fatalf("add d%v: %v", sides, err)
		}
	}
	before := tr.Dice()

	updated, err := tr.Roll(ctx, 1)
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	assertDie(t, updated, 10, 9)

	after := tr.Dice()
	assertDie(t, after[0], 4, 1)
	assertDie(t, after[1], 10, 9)
	assertDie(t, after[2], 12, 3)
	assertDie(t, before[1], 10, 2)
}

// TestDiceReturnsCopy ensures callers cannot alias tray state.
func TestDiceReturnsCopy(t *testing.T) {
	tr := New(&stubRoller{one: []int{2}})
	if _, err := tr.Add(context.Background(), 6); err != nil {
		t.Fatalf("add: %v", err)
	}

	snapshot := tr.Dice()
	replacement, err := dice.New(20, 20)
	if err != nil {
		t.Fatalf("new die: %v", err)
	}
	snapshot[0] = replacement

	assertDie(t, tr.Dice()[0], 6, 2)
}

// TestIndexErrors ensures out-of-range indices are rejected.
func TestIndexErrors(t *testing.T) {
	ctx := context.Background()
	tr := New(&stubRoller{one: []int{2}})
	if _, err := tr.Add(ctx, 6); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, index := range []int{-1, 1, 5} {
		if err := tr.Remove(ctx, index); !errors.Is(err, ErrDieIndexOutOfRange) {
			t.Fatalf("Remove(%d) error = %v, want %v", index, err, ErrDieIndexOutOfRange)
		}
		if _, err := tr.Roll(ctx, index); !errors.Is(err, ErrDieIndexOutOfRange) {
			t.Fatalf("Roll(%d) error = %v, want %v", index, err, ErrDieIndexOutOfRange)
		}
	}
	if tr.Len() != 1 {
		t.Fatalf("expected tray unchanged, got %d dice", tr.Len())
	}
}

// TestEntropyFailureLeavesTrayUnchanged ensures failed rolls are all-or-nothing.
func TestEntropyFailureLeavesTrayUnchanged(t *testing.T) {
	ctx := context.Background()
	roller := &stubRoller{one: []int{3, 4}}
	tr := New(roller)
	if _, err := tr.Add(ctx, 6); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := tr.Add(ctx, 8); err != nil {
		t.Fatalf("add: %v", err)
	}

	roller.err = dice.ErrEntropyUnavailable
	if err := tr.RollAll(ctx); !errors.Is(err, dice.ErrEntropyUnavailable) {
		t.Fatalf("RollAll error = %v, want %v", err, dice.ErrEntropyUnavailable)
	}
	if _, err := tr.Roll(ctx, 0); !errors.Is(err, dice.ErrEntropyUnavailable) {
		t.Fatalf("Roll error = %v, want %v", err, dice.ErrEntropyUnavailable)
	}
	if _, err := tr.Add(ctx, 4); !errors.Is(err, dice.ErrEntropyUnavailable) {
		t.Fatalf("Add error = %v, want %v", err, dice.ErrEntropyUnavailable)
	}

	got := tr.Dice()
	if len(got) != 2 {
		t.Fatalf("expected 2 dice, got %d", len(got))
	}
	assertDie(t, got[0], 6, 3)
	assertDie(t, got[1], 8, 4)
}

// TestRollAllRejectsShortBatch guards against rollers breaking index alignment.
func TestRollAllRejectsShortBatch(t *testing.T) {
	ctx := context.Background()
	roller := &stubRoller{one: []int{3, 4}, many: [][]int{{1}}}
	tr := New(roller)
	for _, sides := range []float64{6, 8} {
		if _, err := tr.Add(ctx, sides); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if err := tr.RollAll(ctx); err == nil {
		t.Fatal("expected short batch error")
	}
	assertDie(t, tr.Dice()[1], 8, 4)
}

// TestRollAllEmptyTrayDoesNotRoll ensures no entropy is used for nothing.
func TestRollAllEmptyTrayDoesNotRoll(t *testing.T) {
	roller := &stubRoller{}
	tr := New(roller)

	if err := tr.RollAll(context.Background()); err != nil {
		t.Fatalf("roll all: %v", err)
	}
	if len(roller.manyArgs) != 0 {
		t.Fatalf("expected no batch requests, got %v", roller.manyArgs)
	}
}

// TestTrayWithEngine runs the tray against the real engine.
func TestTrayWithEngine(t *testing.T) {
	ctx := context.Background()
	tr := New(nil)
	for _, sides := range Polyhedrals {
		if _, err := tr.Add(ctx, float64(sides)); err != nil {
			t.Fatalf("add d%d: %v", sides, err)
		}
	}
	for i := 0; i < 100; i++ {
		if err := tr.RollAll(ctx); err != nil {
			t.Fatalf("roll all: %v", err)
		}
		for j, d := range tr.Dice() {
			if d.Sides() != Polyhedrals[j] {
				t.Fatalf("die %d has %d sides, want %d", j, d.Sides(), Polyhedrals[j])
			}
			if !d.InRange() {
				t.Fatalf("die %d result %d out of range", j, d.Result())
			}
		}
	}
}

// TestTrayEmitsEvents ensures actions and failures reach the emitter.
func TestTrayEmitsEvents(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	tr := New(&stubRoller{one: []int{4}, many: [][]int{{2}}}, WithEmitter(telemetry.NewEmitter(sink)))

	if _, err := tr.Add(ctx, 6); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := tr.RollAll(ctx); err != nil {
		t.Fatalf("roll all: %v", err)
	}
	if _, err := tr.Add(ctx, 1); err == nil {
		t.Fatal("expected invalid sides error")
	}
	tr.Clear(ctx)

	wantNames := []string{EventDieAdded, EventDiceRolled, EventDieAdded, EventCleared}
	if len(sink.events) != len(wantNames) {
		t.Fatalf("expected %d events, got %d", len(wantNames), len(sink.events))
	}
	for i, name := range wantNames {
		if sink.events[i].Name != name {
			t.Fatalf("event %d = %q, want %q", i, sink.events[i].Name, name)
		}
	}
	if sink.events[2].Severity != telemetry.SeverityWarn {
		t.Fatalf("expected warn severity for rejected add, got %s", sink.events[2].Severity)
	}
	if sink.events[2].Attributes["code"] != "DICE_INVALID_SIDES" {
		t.Fatalf("unexpected failure code %v", sink.events[2].Attributes["code"])
	}
	if sink.events[1].Attributes["sum"] != 2 {
		t.Fatalf("unexpected roll-all sum %v", sink.events[1].Attributes["sum"])
	}
}

// TestTraySpans ensures every action is traced and failures mark the span.
func TestTraySpans(t *testing.T) {
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	tr := New(&stubRoller{one: []int{4}}, WithTracer(provider.Tracer("test")))
	if _, err := tr.Add(ctx, 6); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := tr.Remove(ctx, 3); err == nil {
		t.Fatal("expected index error")
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "tray.Add" || spans[1].Name() != "tray.Remove" {
		t.Fatalf("unexpected span names %q, %q", spans[0].Name(), spans[1].Name())
	}
	if spans[0].Status().Code == codes.Error {
		t.Fatal("expected successful add span")
	}
	if spans[1].Status().Code != codes.Error {
		t.Fatalf("expected error status on remove span, got %v", spans[1].Status().Code)
	}
}
