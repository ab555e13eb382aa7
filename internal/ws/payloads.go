package ws

import "price_wheel/internal/game"

// client → server; fields beyond Type depend on the message
type ClientMessage struct {
	Type   string  `json:"type"`
	Y      float64 `json:"y"`      // px, grows downwards
	T      float64 `json:"t"`      // ms
	Accept bool    `json:"accept"` // second_spin only
}

// server → client
type SpinStartedPayload struct {
	Step       int    `json:"step"`
	Generation uint64 `json:"generation"`
}

type FramePayload struct {
	Position int `json:"position"`
	Face     int `json:"face"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Snapshot is everything a client needs to redraw the table.
type Snapshot struct {
	TableID   string             `json:"table_id"`
	Connected bool               `json:"connected"`
	Wheel     game.WheelState    `json:"wheel"`
	Face      int                `json:"face"`
	Turn      game.TurnState     `json:"turn"`
	Phase     game.Phase         `json:"phase"`
	Scores    []game.PlayerScore `json:"scores"`
	Result    *game.GameResult   `json:"result,omitempty"`
}
