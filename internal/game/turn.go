package game

import (
	"fmt"
	"slices"
)

// PlayerScore is one player's spins and their running total.
type PlayerScore struct {
	Player int   `json:"player"`
	Spins  []int `json:"spins"`
	Total  int   `json:"total"`
}

// TurnState is whose turn it is and whether the wheel takes input.
type TurnState struct {
	CurrentPlayer int  `json:"current_player"`
	SpinNumber    int  `json:"spin_number"` // 0 first spin, 1 second spin
	Finished      bool `json:"finished"`
	InputAccepted bool `json:"input_accepted"`
}

// GameResult is computed once the last player is done.
type GameResult struct {
	Winners   []int        `json:"winners"`
	Scores    [Players]int `json:"scores"`
	Effective [Players]int `json:"effective"` // scores after the bust rule
}

// Tie reports whether more than one player shares the best score.
func (r GameResult) Tie() bool {
	return len(r.Winners) > 1
}

// Controller sequences three players through one or two spins each and
// decides the winners. It is not safe for concurrent use.
type Controller struct {
	faces  Segments
	target int

	state         TurnState
	phase         Phase
	repeatPending bool
	scores        [Players]PlayerScore
	result        *GameResult
}

// NewController returns a controller waiting for player 0's first spin.
func NewController(tuning Tuning) *Controller {
	c := &Controller{
		faces:  Segments(slices.Clone(tuning.Faces)),
		target: tuning.TargetScore,
	}
	c.reset()
	return c
}

// InputAccepted reports whether a gesture may start a spin. It makes the
// controller usable as the wheel's InputGate.
func (c *Controller) InputAccepted() bool {
	return c.state.InputAccepted
}

// State returns a copy of the turn state.
func (c *Controller) State() TurnState {
	return c.state
}

// Phase returns the current state machine phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Scores returns a deep copy of every player's score.
func (c *Controller) Scores() []PlayerScore {
	out := make([]PlayerScore, Players)
	for i, s := range c.scores {
		out[i] = PlayerScore{Player: s.Player, Spins: slices.Clone(s.Spins), Total: s.Total}
	}
	return out
}

// Result returns the game result once the game is finished.
func (c *Controller) Result() (GameResult, bool) {
	if c.result == nil {
		return GameResult{}, false
	}
	r := *c.result
	r.Winners = slices.Clone(r.Winners)
	return r, true
}

// OnSpinStarted closes input while the wheel turns.
func (c *Controller) OnSpinStarted() error {
	if c.phase != PhaseAwaitingSpin || !c.state.InputAccepted {
		return c.invalid("spin started")
	}
	c.phase = PhaseSpinning
	c.state.InputAccepted = false
	return nil
}

// OnSpinStopped applies a finished spin. A spin that did not complete a full
// rotation scores nothing and must be repeated once acknowledged.
func (c *Controller) OnSpinStopped(final int, rotationCompleted bool) (Action, error) {
	if c.phase != PhaseSpinning {
		return Action{}, c.invalid("spin stopped")
	}
	if final < 0 || final >= len(c.faces) {
		return Action{}, fmt.Errorf("%w: %d", ErrInvalidPosition, final)
	}

	p := c.state.CurrentPlayer
	if !rotationCompleted {
		c.phase = PhaseAwaitingSpin
		c.repeatPending = true
		return Action{Kind: ActionRequestRepeat, Player: p, Score: c.scores[p].Total}, nil
	}

	face := c.faces.Value(final)
	score := &c.scores[p]
	score.Spins = append(score.Spins, face)
	score.Total += face

	if c.state.SpinNumber == 0 {
		c.phase = PhaseAwaitingSecondSpin
		return Action{Kind: ActionOfferSecondSpin, Player: p, Score: score.Total, Face: face}, nil
	}
	c.phase = PhaseShowingTotal
	return Action{Kind: ActionShowPlayerTotal, Player: p, Score: score.Total, Face: face}, nil
}

// OnSecondSpinChoice answers the second spin offer.
func (c *Controller) OnSecondSpinChoice(accepted bool) (Action, error) {
	if c.phase != PhaseAwaitingSecondSpin {
		return Action{}, c.invalid("second spin choice")
	}
	p := c.state.CurrentPlayer
	if accepted {
		c.state.SpinNumber = 1
		c.state.InputAccepted = true
		c.phase = PhaseAwaitingSpin
		return Action{Kind: ActionPromptSpin, Player: p, Score: c.scores[p].Total}, nil
	}
	c.phase = PhaseShowingTotal
	return Action{Kind: ActionShowPlayerTotal, Player: p, Score: c.scores[p].Total}, nil
}

// Acknowledge resumes after a request_repeat or show_player_total directive.
func (c *Controller) Acknowledge() (Action, error) {
	switch {
	case c.phase == PhaseAwaitingSpin && c.repeatPending:
		c.repeatPending = false
		c.state.InputAccepted = true
		p := c.state.CurrentPlayer
		return Action{Kind: ActionPromptSpin, Player: p, Score: c.scores[p].Total}, nil

	case c.phase == PhaseShowingTotal:
		if c.state.CurrentPlayer < Players-1 {
			c.state.CurrentPlayer++
			c.state.SpinNumber = 0
			c.state.InputAccepted = true
			c.phase = PhaseAwaitingSpin
			return Action{Kind: ActionPromptSpin, Player: c.state.CurrentPlayer}, nil
		}
		return c.FinishGame()
	}
	return Action{}, c.invalid("acknowledge")
}

// FinishGame applies the bust rule and announces the winners. Busted players
// compare as 0 but keep their displayed total.
func (c *Controller) FinishGame() (Action, error) {
	if c.phase == PhaseFinished && c.result != nil {
		return c.announce(), nil
	}
	if c.phase != PhaseShowingTotal || c.state.CurrentPlayer != Players-1 {
		return Action{}, c.invalid("finish game")
	}

	var totals [Players]int
	for i, s := range c.scores {
		totals[i] = s.Total
	}
	winners, effective := Winners(totals, c.target)
	c.result = &GameResult{Winners: winners, Scores: totals, Effective: effective}
	c.state.Finished = true
	c.state.InputAccepted = false
	c.phase = PhaseFinished
	return c.announce(), nil
}

// StartNewGame clears scores and hands the wheel to player 0. It is legal in
// any phase; the wheel itself is not touched.
func (c *Controller) StartNewGame() Action {
	c.reset()
	return Action{Kind: ActionPromptSpin, Player: 0}
}

// Winners returns every player sharing the best score, with totals above
// target counted as 0, and the scores used for the comparison.
func Winners(totals [Players]int, target int) ([]int, [Players]int) {
	var effective [Players]int
	best := 0
	for i, t := range totals {
		if t <= target {
			effective[i] = t
		}
		best = max(best, effective[i])
	}
	var winners []int
	for i, e := range effective {
		if e == best {
			winners = append(winners, i)
		}
	}
	return winners, effective
}

func (c *Controller) announce() Action {
	return Action{
		Kind:    ActionAnnounceWinners,
		Player:  c.state.CurrentPlayer,
		Winners: slices.Clone(c.result.Winners),
		Scores:  slices.Clone(c.result.Scores[:]),
	}
}

func (c *Controller) reset() {
	c.state = TurnState{InputAccepted: true}
	c.phase = PhaseAwaitingSpin
	c.repeatPending = false
	c.result = nil
	for i := range c.scores {
		c.scores[i] = PlayerScore{Player: i, Spins: make([]int, 0, 2)}
	}
}

func (c *Controller) invalid(op string) error {
	return fmt.Errorf("%w: %s during %s (player %d, spin %d)",
		ErrInvalidState, op, c.phase, c.state.CurrentPlayer, c.state.SpinNumber)
}
