package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/hiring-backend/internal/goroutine"
	"github.com/ignatzorin/hiring-backend/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Client - одно WebSocket подключение, подписанное на кандидата
// (или на всех, если candidateID == AllCandidates).
type Client struct {
	conn        *websocket.Conn
	hub         *Hub
	candidateID uuid.UUID
	send        chan []byte
	closeOnce   sync.Once
}

func NewClient(conn *websocket.Conn, hub *Hub, candidateID uuid.UUID) *Client {
	return &Client{
		conn:        conn,
		hub:         hub,
		candidateID: candidateID,
		send:        make(chan []byte, sendBuffer),
	}
}

// Run запускает обработку исходящих сообщений и блокируется на чтении.
// Возврат означает, что подключение закрыто и подписка снята.
func (c *Client) Run(ctx context.Context) {
	writerDone := make(chan struct{})
	goroutine.SafeGo(func() {
		defer close(writerDone)
		c.writePump()
	})

	c.readPump(ctx)
	<-writerDone
}

// Close снимает подписку и закрывает соединение. Повторный вызов ничего не делает.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	})
}

func (c *Client) readPump(ctx context.Context) {
	defer c.Close()

	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer stop()

	// клиент ничего не присылает, кроме служебных кадров
	c.conn.SetReadLimit(4 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithCandidate(c.candidateID).WithError(err).Debug("realtime: соединение закрыто")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
