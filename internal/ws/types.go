package ws

// Message is the envelope of every server → client frame.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	// client - server
	MsgGestureBegin = "gesture_begin"
	MsgGestureEnd   = "gesture_end"
	MsgSecondSpin   = "second_spin"
	MsgAck          = "ack"
	MsgNewGame      = "new_game"
	MsgPing         = "ping"

	// server - client
	MsgReady       = "ready"
	MsgState       = "state"
	MsgSpinStarted = "spin_started"
	MsgFrame       = "frame"
	MsgAction      = "action"
	MsgError       = "error"
	MsgPong        = "pong"
)
