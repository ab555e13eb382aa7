package game

import (
	"fmt"
	"math"
	"time"
)

// WheelSize is the number of segments on the wheel.
const WheelSize = 20

// Segments is the ordered list of face values, clockwise from index 0.
type Segments []int

// DefaultSegments returns the stock face order. It is deliberately not sorted.
func DefaultSegments() Segments {
	return Segments{100, 15, 50, 95, 20, 5, 45, 60, 35, 90, 65, 40, 55, 75, 30, 85, 70, 25, 80, 10}
}

// Value returns the face under index i, wrapping around the wheel.
func (s Segments) Value(i int) int {
	n := len(s)
	return s[((i%n)+n)%n]
}

// WheelState is a copy of the wheel's mutable state, used for rendering.
type WheelState struct {
	Position          int    `json:"position"`
	StepDelay         int    `json:"step_delay"`
	Spinning          bool   `json:"spinning"`
	RotationStart     int    `json:"rotation_start"`
	RotationCompleted bool   `json:"rotation_completed"`
	Generation        uint64 `json:"generation"`
}

// SpinRequest is handed out when a gesture is strong enough to spin.
type SpinRequest struct {
	Step       int    `json:"step"` // initial delay in ms
	Generation uint64 `json:"generation"`
}

// Delay returns the initial step as a duration.
func (r SpinRequest) Delay() time.Duration {
	return time.Duration(r.Step) * time.Millisecond
}

// Advance is the outcome of one wheel tick. When Stopped is false the caller
// must call Wheel.Advance again after NextDelay.
type Advance struct {
	Position          int           `json:"position"`
	Stopped           bool          `json:"stopped"`
	NextDelay         time.Duration `json:"next_delay"`
	StartPosition     int           `json:"start_position"`
	RotationCompleted bool          `json:"rotation_completed"`
}

// InputGate tells the wheel whether a gesture may start a spin right now.
type InputGate interface {
	InputAccepted() bool
}

type gesture struct {
	y, t float64
}

// Wheel converts swipe gestures into a decelerating sequence of one-segment
// advances. It is not safe for concurrent use.
type Wheel struct {
	tuning Tuning
	gate   InputGate
	state  WheelState
	start  *gesture
}

// NewWheel creates a wheel resting on segment 0. A nil gate accepts every gesture.
func NewWheel(tuning Tuning, gate InputGate) *Wheel {
	return &Wheel{tuning: tuning, gate: gate}
}

// State returns a copy of the current wheel state.
func (w *Wheel) State() WheelState {
	return w.state
}

// Position returns the segment under the pointer.
func (w *Wheel) Position() int {
	return w.state.Position
}

// Spinning reports whether a spin is in progress.
func (w *Wheel) Spinning() bool {
	return w.state.Spinning
}

// Generation identifies the current spin. Timers scheduled for an older
// generation must be discarded.
func (w *Wheel) Generation() uint64 {
	return w.state.Generation
}

// BeginGesture records where and when (ms) the pointer went down.
func (w *Wheel) BeginGesture(y, t float64) {
	w.start = &gesture{y: y, t: t}
}

// EndGesture closes the gesture started by BeginGesture. It returns false when
// the gesture does not start a spin: too short, too slow, input closed, or a
// spin already running. Such gestures leave the wheel untouched.
func (w *Wheel) EndGesture(y, t float64) (SpinRequest, bool) {
	start := w.start
	w.start = nil
	if start == nil || w.state.Spinning {
		return SpinRequest{}, false
	}
	if w.gate != nil && !w.gate.InputAccepted() {
		return SpinRequest{}, false
	}

	dy := y - start.y
	dt := t - start.t
	if dy <= w.tuning.MinPushPixelsY || dy <= 0 || dt < 0 {
		return SpinRequest{}, false
	}

	step := ceilStep(dt / dy * w.tuning.SpinMultiplier)
	if step < 1 {
		step = 1
	}
	if step >= w.tuning.StopStep {
		return SpinRequest{}, false
	}

	w.state.Spinning = true
	w.state.StepDelay = step
	w.state.RotationStart = w.state.Position
	w.state.RotationCompleted = false
	w.state.Generation++

	return SpinRequest{Step: step, Generation: w.state.Generation}, true
}

// Advance moves the wheel one segment and grows the step delay.
func (w *Wheel) Advance() (Advance, error) {
	if !w.state.Spinning {
		return Advance{}, fmt.Errorf("%w: advance while wheel is not spinning", ErrInvalidState)
	}

	w.state.Position = (w.state.Position + 1) % WheelSize
	if w.state.Position == w.state.RotationStart {
		w.state.RotationCompleted = true
	}
	// the delay must strictly grow, even when dampening is within float noise of 1
	next := ceilStep(float64(w.state.StepDelay) * w.tuning.Dampening)
	if next <= w.state.StepDelay {
		next = w.state.StepDelay + 1
	}
	w.state.StepDelay = next

	if w.state.StepDelay < w.tuning.StopStep {
		return Advance{
			Position:  w.state.Position,
			NextDelay: time.Duration(w.state.StepDelay) * time.Millisecond,
		}, nil
	}

	w.state.Spinning = false
	return Advance{
		Position:          w.state.Position,
		Stopped:           true,
		StartPosition:     w.state.RotationStart,
		RotationCompleted: w.state.RotationCompleted,
	}, nil
}

// ResetTo puts the wheel back on a segment, e.g. its pre-spin position after
// a spin that did not complete a rotation.
func (w *Wheel) ResetTo(position int) error {
	if w.state.Spinning {
		return fmt.Errorf("%w: reset while wheel is spinning", ErrInvalidState)
	}
	if position < 0 || position >= WheelSize {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	w.state.Position = position
	return nil
}

// Abort stops a running spin without producing a result. The wheel stays on
// whatever segment it reached.
func (w *Wheel) Abort() {
	w.start = nil
	if !w.state.Spinning {
		return
	}
	w.state.Spinning = false
	w.state.Generation++
}

// ceilStep rounds up, ignoring float noise such as 50*1.1 == 55.000000000000007.
func ceilStep(v float64) int {
	return int(math.Ceil(v - 1e-9))
}
