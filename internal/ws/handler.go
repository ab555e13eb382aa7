package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// NewUpgrader accepts any origin when allowedOrigin is empty.
func NewUpgrader(allowedOrigin string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}
}

// Serve upgrades the request and hands the connection to table.
func Serve(upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, table *Table) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := NewClient(conn, table)
	go client.Run()
	return nil
}
