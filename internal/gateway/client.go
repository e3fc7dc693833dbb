package gateway

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 4096

	// Outbound buffer size per connection
	sendBufferSize = 64
)

// client is one live websocket connection. Identity is empty until the
// authenticate handshake succeeds.
type client struct {
	gateway *Gateway
	conn    *websocket.Conn
	send    chan []byte

	playerID    string
	displayName string
}

func newClient(g *Gateway, conn *websocket.Conn) *client {
	return &client{
		gateway: g,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
	}
}

// Send enqueues an outbound frame without blocking. A full buffer means the
// peer stopped reading; the write pump will tear the connection down.
func (c *client) Send(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// readPump reads inbound frames and dispatches them until the connection
// drops. It runs on the HTTP handler goroutine and owns disconnect cleanup.
func (c *client) readPump() {
	defer func() {
		c.gateway.disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.gateway.logger.Debug("unexpected connection close",
					zap.String("player_id", c.playerID),
					zap.Error(err))
			}
			return
		}

		c.gateway.handleMessage(c, data)
	}
}

// writePump drains the send buffer onto the wire and keeps the connection
// alive with pings
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
