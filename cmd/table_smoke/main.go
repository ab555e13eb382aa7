package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"price_wheel/internal/game"
	"price_wheel/internal/logger"
	"price_wheel/internal/ws"

	"github.com/gorilla/websocket"
)

// table_smoke plays one full game against a running server, taking every
// turn like a hot-seat player would.
func main() {
	logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL")})

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := "127.0.0.1:" + port

	res, err := http.Post("http://"+base+"/api/v1/tables", "application/json", nil)
	if err != nil {
		logger.Fatal("create table", "error", err)
	}
	var table struct {
		TableID string `json:"table_id"`
		Token   string `json:"token"`
	}
	err = json.NewDecoder(res.Body).Decode(&table)
	res.Body.Close()
	if err != nil || table.Token == "" {
		logger.Fatal("decode table", "status", res.StatusCode, "error", err)
	}
	logger.Info("table created", "table_id", table.TableID)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?token=%s", base, table.Token), nil)
	if err != nil {
		logger.Fatal("dial", "error", err)
	}
	defer conn.Close()

	send := func(v any) {
		if err := conn.WriteJSON(v); err != nil {
			logger.Fatal("write", "error", err)
		}
	}
	spin := func() {
		dt := 100 + rand.Float64()*200
		send(map[string]any{"type": ws.MsgGestureBegin, "y": 0, "t": 0})
		send(map[string]any{"type": ws.MsgGestureEnd, "y": 300, "t": dt})
	}

	started := false
	deadline := time.Now().Add(5 * time.Minute)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Fatal("read", "error", err)
		}

		switch msg.Type {
		case ws.MsgState:
			// the first state arrives on attach; player 0 may spin right away
			if !started {
				started = true
				spin()
			}
		case ws.MsgError:
			logger.Warn("server error", "payload", string(msg.Payload))
		case ws.MsgAction:
			var a game.Action
			if err := json.Unmarshal(msg.Payload, &a); err != nil {
				logger.Fatal("decode action", "error", err)
			}
			logger.Info("action", "kind", a.Kind, "player", a.Player, "score", a.Score, "face", a.Face)

			switch a.Kind {
			case game.ActionPromptSpin:
				spin()
			case game.ActionRequestRepeat, game.ActionShowPlayerTotal:
				send(map[string]any{"type": ws.MsgAck})
			case game.ActionOfferSecondSpin:
				send(map[string]any{"type": ws.MsgSecondSpin, "accept": a.Score < 50})
			case game.ActionAnnounceWinners:
				logger.Info("smoke test finished", "winners", a.Winners, "scores", a.Scores)
				return
			}
		}
	}
	logger.Fatal("game did not finish in time")
}
