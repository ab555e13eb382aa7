package game

// ActionKind names what the presentation layer has to do next.
type ActionKind string

const (
	ActionRequestRepeat   ActionKind = "request_repeat"
	ActionOfferSecondSpin ActionKind = "offer_second_spin"
	ActionShowPlayerTotal ActionKind = "show_player_total"
	ActionPromptSpin      ActionKind = "prompt_spin"
	ActionAnnounceWinners ActionKind = "announce_winners"
)

// Action is a directive for the shell. Only the fields relevant to Kind are set.
type Action struct {
	Kind    ActionKind `json:"kind"`
	Player  int        `json:"player"`
	Score   int        `json:"score"`
	Face    int        `json:"face,omitempty"` // value just landed on, if any
	Winners []int      `json:"winners,omitempty"`
	Scores  []int      `json:"scores,omitempty"`
}

// Phase is the controller's position in the turn state machine.
type Phase string

const (
	PhaseAwaitingSpin       Phase = "awaiting_spin"
	PhaseSpinning           Phase = "spinning"
	PhaseAwaitingSecondSpin Phase = "awaiting_second_spin"
	PhaseShowingTotal       Phase = "showing_total"
	PhaseFinished           Phase = "finished"
)
