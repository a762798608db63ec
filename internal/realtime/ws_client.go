package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

// WebSocketClient implements Client over gorilla/websocket.
type WebSocketClient struct {
	ID    string
	Actor models.Actor
	Conn  *websocket.Conn
	Hub   *Hub
	Send  chan []byte

	once sync.Once
}

func NewWebSocketClient(id string, actor models.Actor, conn *websocket.Conn, hub *Hub) *WebSocketClient {
	return &WebSocketClient{
		ID:    id,
		Actor: actor,
		Conn:  conn,
		Hub:   hub,
		Send:  make(chan []byte, sendBuffer),
	}
}

func (c *WebSocketClient) GetID() string { return c.ID }
func (c *WebSocketClient) GetActor() models.Actor { return c.Actor }
func (c *WebSocketClient) GetSendChannel() chan<- []byte { return c.Send }

func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close stops the write pump, which closes the connection.
func (c *WebSocketClient) Close() {
	c.once.Do(func() { close(c.Send) })
}

// readPump only keeps the connection alive; dashboards never send data.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client", c.ID).Msg("websocket read failed")
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
