// Package game holds the wheel kinetics and the turn/score state machine of
// a three-player "closest to 100" wheel game. Nothing in here blocks or locks:
// the caller owns scheduling and must drive a Wheel and a Controller from a
// single goroutine.
package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an operation is invoked outside the
	// phase it is legal in. It signals an integration bug in the caller.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidPosition is returned for wheel positions outside [0, WheelSize).
	ErrInvalidPosition = errors.New("invalid wheel position")
)

// Players is the fixed number of seats at a table.
const Players = 3

// Tuning holds every tunable constant of the game.
type Tuning struct {
	MinPushPixelsY float64 `yaml:"min_push_pixels_y" json:"min_push_pixels_y"` // swipe must move further than this
	SpinMultiplier float64 `yaml:"spin_multiplier" json:"spin_multiplier"`     // ms/px → initial step delay
	StopStep       int     `yaml:"stop_step" json:"stop_step"`                 // ms; the wheel stops once the delay reaches this
	Dampening      float64 `yaml:"dampening" json:"dampening"`                 // per-tick delay growth, must be > 1
	Faces          []int   `yaml:"faces" json:"faces"`
	TargetScore    int     `yaml:"target_score" json:"target_score"`
}

// DefaultTuning returns the stock wheel.
func DefaultTuning() Tuning {
	return Tuning{
		MinPushPixelsY: 30,
		SpinMultiplier: 20,
		StopStep:       500,
		Dampening:      1.1,
		Faces:          DefaultSegments(),
		TargetScore:    100,
	}
}

// Validate reports the first constant that would make the game misbehave.
func (t Tuning) Validate() error {
	if t.MinPushPixelsY < 0 {
		return fmt.Errorf("min push pixels must be >= 0, got %v", t.MinPushPixelsY)
	}
	if t.SpinMultiplier <= 0 {
		return fmt.Errorf("spin multiplier must be > 0, got %v", t.SpinMultiplier)
	}
	if t.StopStep <= 0 {
		return fmt.Errorf("stop step must be > 0, got %d", t.StopStep)
	}
	// the decay loop only terminates when the delay strictly grows
	if t.Dampening <= 1 {
		return fmt.Errorf("dampening must be > 1, got %v", t.Dampening)
	}
	if len(t.Faces) != WheelSize {
		return fmt.Errorf("wheel needs %d faces, got %d", WheelSize, len(t.Faces))
	}
	for i, f := range t.Faces {
		if f <= 0 {
			return fmt.Errorf("face %d must be positive, got %d", i, f)
		}
	}
	if t.TargetScore <= 0 {
		return fmt.Errorf("target score must be > 0, got %d", t.TargetScore)
	}
	return nil
}
