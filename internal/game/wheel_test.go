package game

import (
	"errors"
	"math"
	"testing"
	"time"
)

func testTuning() Tuning {
	t := DefaultTuning()
	t.MinPushPixelsY = 0
	t.SpinMultiplier = 1
	t.StopStep = 500
	t.Dampening = 1.1
	return t
}

type gate bool

func (g gate) InputAccepted() bool { return bool(g) }

// spinWith starts a spin whose first delay is step0 ms (SpinMultiplier 1, dy 100).
func spinWith(t *testing.T, w *Wheel, step0 int) SpinRequest {
	t.Helper()
	w.BeginGesture(0, 0)
	req, ok := w.EndGesture(100, float64(step0*100))
	if !ok {
		t.Fatalf("EndGesture for step0=%d did not start a spin", step0)
	}
	if req.Step != step0 {
		t.Fatalf("step0 = %d, want %d", req.Step, step0)
	}
	return req
}

func runToStop(t *testing.T, w *Wheel) ([]int, Advance) {
	t.Helper()
	var delays []int
	for i := 0; i < 10000; i++ {
		adv, err := w.Advance()
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if adv.Stopped {
			return delays, adv
		}
		delays = append(delays, int(adv.NextDelay/time.Millisecond))
	}
	t.Fatalf("wheel never stopped")
	return nil, Advance{}
}

func TestWheelGoldenSpin(t *testing.T) {
	w := NewWheel(testTuning(), nil)
	spinWith(t, w, 50)

	delays, stop := runToStop(t, w)

	want := []int{55, 61, 68, 75, 83, 92, 102, 113, 125, 138, 152, 168, 185, 204, 225, 248, 273, 301, 332, 366, 403, 444, 489}
	if len(delays) != len(want) {
		t.Fatalf("continue ticks = %d, want %d (delays %v)", len(delays), len(want), delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Fatalf("delay[%d] = %d, want %d", i, delays[i], want[i])
		}
	}
	if stop.Position != 4 {
		t.Fatalf("final position = %d, want 4", stop.Position)
	}
	if !stop.RotationCompleted {
		t.Fatalf("24 ticks must complete a rotation")
	}
	if st := w.State(); st.StepDelay != 538 || st.Spinning {
		t.Fatalf("state after stop = %+v, want step 538 and not spinning", st)
	}
}

func TestWheelDelayGrowsAndTickCountIsBounded(t *testing.T) {
	tun := testTuning()
	for step0 := 1; step0 < tun.StopStep; step0++ {
		w := NewWheel(tun, nil)
		spinWith(t, w, step0)

		prev := step0
		ticks := 0
		for {
			adv, err := w.Advance()
			if err != nil {
				t.Fatalf("step0=%d: %v", step0, err)
			}
			ticks++
			cur := w.State().StepDelay
			if cur <= prev {
				t.Fatalf("step0=%d: delay did not grow: %d -> %d", step0, prev, cur)
			}
			prev = cur
			if adv.Stopped {
				break
			}
		}

		bound := int(math.Ceil(math.Log(float64(tun.StopStep)/float64(step0)) / math.Log(tun.Dampening)))
		if ticks > max(bound, 1) {
			t.Fatalf("step0=%d: %d ticks exceeds bound %d", step0, ticks, bound)
		}
	}
}

func TestWheelNearOneDampeningStillStops(t *testing.T) {
	tun := testTuning()
	tun.Dampening = 1.0000000005
	tun.StopStep = 10
	if err := tun.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	w := NewWheel(tun, nil)
	spinWith(t, w, 1)

	delays, adv := runToStop(t, w)
	want := []int{2, 3, 4, 5, 6, 7, 8, 9}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Fatalf("delays = %v, want %v", delays, want)
		}
	}
	if adv.Position != 9 || w.State().StepDelay != 10 {
		t.Fatalf("stopped at %d with delay %d", adv.Position, w.State().StepDelay)
	}
}

func TestWheelRotationCompletedIffStartRevisited(t *testing.T) {
	tun := testTuning()
	for _, start := range []int{0, 7, 19} {
		for step0 := 1; step0 < tun.StopStep; step0 += 7 {
			w := NewWheel(tun, nil)
			if err := w.ResetTo(start); err != nil {
				t.Fatalf("reset: %v", err)
			}
			spinWith(t, w, step0)

			visited := false
			var stop Advance
			for {
				adv, err := w.Advance()
				if err != nil {
					t.Fatalf("advance: %v", err)
				}
				if adv.Position == start {
					visited = true
				}
				if adv.Stopped {
					stop = adv
					break
				}
			}
			if stop.RotationCompleted != visited {
				t.Fatalf("start=%d step0=%d: completed=%v, visited=%v", start, step0, stop.RotationCompleted, visited)
			}
			if stop.StartPosition != start {
				t.Fatalf("start position = %d, want %d", stop.StartPosition, start)
			}
		}
	}
}

func TestWheelInertGestures(t *testing.T) {
	tun := DefaultTuning()
	cases := []struct {
		name   string
		y0, t0 float64
		y1, t1 float64
		gate   InputGate
	}{
		{"tap", 100, 0, 100, 80, nil},
		{"upward swipe", 300, 0, 100, 80, nil},
		{"below threshold", 100, 0, 100 + tun.MinPushPixelsY, 50, nil},
		{"too slow", 0, 0, 40, 2000, nil},
		{"negative time", 0, 100, 300, 0, nil},
		{"input closed", 0, 0, 300, 100, gate(false)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWheel(tun, tc.gate)
			before := w.State()
			w.BeginGesture(tc.y0, tc.t0)
			if _, ok := w.EndGesture(tc.y1, tc.t1); ok {
				t.Fatalf("gesture should not spin the wheel")
			}
			if w.State() != before {
				t.Fatalf("inert gesture changed state: %+v -> %+v", before, w.State())
			}
		})
	}
}

func TestWheelEndWithoutBegin(t *testing.T) {
	w := NewWheel(DefaultTuning(), nil)
	if _, ok := w.EndGesture(500, 100); ok {
		t.Fatalf("end without begin must be inert")
	}
}

func TestWheelStrongGestureStartsSpin(t *testing.T) {
	w := NewWheel(DefaultTuning(), gate(true))
	if err := w.ResetTo(13); err != nil {
		t.Fatalf("reset: %v", err)
	}
	w.BeginGesture(100, 1000)
	req, ok := w.EndGesture(400, 1150)
	if !ok {
		t.Fatalf("expected spin")
	}
	// 150ms / 300px * 20
	if req.Step != 10 {
		t.Fatalf("step0 = %d, want 10", req.Step)
	}
	st := w.State()
	if !st.Spinning || st.RotationStart != 13 || st.RotationCompleted || st.Generation != req.Generation {
		t.Fatalf("unexpected state after spin start: %+v", st)
	}
	if req.Delay() != 10*time.Millisecond {
		t.Fatalf("delay = %v", req.Delay())
	}

	w.BeginGesture(0, 0)
	if _, ok := w.EndGesture(400, 100); ok {
		t.Fatalf("second gesture during a spin must be inert")
	}
}

func TestWheelInstantSwipeStillTerminates(t *testing.T) {
	w := NewWheel(DefaultTuning(), nil)
	w.BeginGesture(0, 10)
	req, ok := w.EndGesture(400, 10)
	if !ok || req.Step != 1 {
		t.Fatalf("zero-duration swipe: ok=%v step=%d, want step 1", ok, req.Step)
	}
	if _, stop := runToStop(t, w); !stop.RotationCompleted {
		t.Fatalf("fastest spin should complete a rotation")
	}
}

func TestWheelAdvanceWhenIdle(t *testing.T) {
	w := NewWheel(DefaultTuning(), nil)
	if _, err := w.Advance(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("advance on idle wheel: err = %v, want ErrInvalidState", err)
	}
}

func TestWheelResetTo(t *testing.T) {
	w := NewWheel(testTuning(), nil)
	if err := w.ResetTo(WheelSize); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("out of range reset: %v", err)
	}
	if err := w.ResetTo(-1); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("negative reset: %v", err)
	}
	spinWith(t, w, 50)
	if err := w.ResetTo(3); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("reset while spinning: %v", err)
	}
}

func TestWheelAbortInvalidatesGeneration(t *testing.T) {
	w := NewWheel(testTuning(), nil)
	req := spinWith(t, w, 50)
	if _, err := w.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	w.Abort()
	if w.Spinning() {
		t.Fatalf("abort must stop the wheel")
	}
	if w.Generation() == req.Generation {
		t.Fatalf("abort must bump the generation")
	}
	if w.Position() != 1 {
		t.Fatalf("abort must leave the wheel where it is, got %d", w.Position())
	}
	if _, err := w.Advance(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("advance after abort: %v", err)
	}
}

func TestSegmentsValueWraps(t *testing.T) {
	s := DefaultSegments()
	if len(s) != WheelSize {
		t.Fatalf("segments = %d", len(s))
	}
	if s.Value(0) != 100 || s.Value(19) != 10 || s.Value(20) != 100 || s.Value(-1) != 10 {
		t.Fatalf("wrap failed")
	}
}

func TestTuningValidate(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Fatalf("default tuning invalid: %v", err)
	}
	broken := []func(*Tuning){
		func(t *Tuning) { t.Dampening = 1 },
		func(t *Tuning) { t.StopStep = 0 },
		func(t *Tuning) { t.SpinMultiplier = 0 },
		func(t *Tuning) { t.MinPushPixelsY = -1 },
		func(t *Tuning) { t.Faces = t.Faces[:19] },
		func(t *Tuning) { t.Faces = append([]int{0}, t.Faces[1:]...) },
		func(t *Tuning) { t.TargetScore = 0 },
	}
	for i, mutate := range broken {
		tun := DefaultTuning()
		mutate(&tun)
		if err := tun.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
