package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"price_wheel/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Client is the websocket connection that controls one table.
type Client struct {
	Conn  *websocket.Conn
	Table *Table
	Done  chan struct{}

	out       chan []byte
	quit      chan struct{}
	closeOnce sync.Once
	log       *slog.Logger
}

func NewClient(conn *websocket.Conn, table *Table) *Client {
	return &Client{
		Conn:  conn,
		Table: table,
		Done:  make(chan struct{}),
		out:   make(chan []byte, 256),
		quit:  make(chan struct{}),
		log:   logger.With("table_id", table.ID, "remote", conn.RemoteAddr().String()),
	}
}

// Send queues msg without blocking. It reports false when the connection is
// gone or its buffer is full.
func (c *Client) Send(msg Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal error", "error", err, "type", msg.Type)
		return false
	}
	select {
	case <-c.quit:
		return false
	default:
	}
	select {
	case c.out <- data:
		return true
	default:
		return false
	}
}

// Close stops the write pump, which closes the connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.quit) })
}

// Run attaches the client to its table and pumps messages until the
// connection drops. A table that is already controlled gets an error frame
// and the connection is closed.
func (c *Client) Run() {
	c.Send(Message{Type: MsgReady, Payload: map[string]string{"table_id": c.Table.ID}})

	if err := c.Table.Attach(c); err != nil {
		c.log.Warn("attach rejected", "error", err)
		c.reject(err)
		close(c.Done)
		return
	}

	go c.writePump()
	c.readPump()
}

func (c *Client) reject(err error) {
	data, _ := json.Marshal(Message{Type: MsgError, Payload: ErrorPayload{Message: err.Error()}})
	c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.Conn.WriteMessage(websocket.TextMessage, data)
	_ = c.Conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "table busy"))
	_ = c.Conn.Close()
}

// read
func (c *Client) readPump() {
	defer func() {
		c.Table.Detach(c)
		c.Close()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read error", "error", err)
			}
			return
		}
		c.Table.Deliver(c, msg)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.out:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Warn("write error", "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.quit:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
