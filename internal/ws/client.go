package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"marketplace/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Identity — разрешённая при аутентификации личность соединения.
// Неизменяема на всё время жизни сокета.
type Identity struct {
	ConnID uuid.UUID
	UserID int64
	Name   string
}

// Client — одно живое websocket-соединение аутентифицированного пользователя
type Client struct {
	id          uuid.UUID
	userID      int64
	displayName string

	conn *websocket.Conn
	send chan Event
	log  logger.Logger
}

func NewClient(conn *websocket.Conn, userID int64, displayName string, log logger.Logger) *Client {
	c := &Client{
		id:          uuid.New(),
		userID:      userID,
		displayName: displayName,
		conn:        conn,
		send:        make(chan Event, sendBufferSize),
		log:         log,
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return c
}

func (c *Client) ID() uuid.UUID       { return c.id }
func (c *Client) UserID() int64       { return c.userID }
func (c *Client) DisplayName() string { return c.displayName }

func (c *Client) Identity() Identity {
	return Identity{ConnID: c.id, UserID: c.userID, Name: c.displayName}
}

// ReadEvent блокируется до следующего события от клиента.
// События одного соединения обрабатываются строго по порядку.
func (c *Client) ReadEvent() (InboundEvent, error) {
	var ev InboundEvent
	if err := c.conn.ReadJSON(&ev); err != nil {
		return InboundEvent{}, err
	}
	return ev, nil
}

// WritePump сериализует все записи в сокет из одной горутины
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				c.log.Debug("Failed to write event", "conn_id", c.id, "error", err)
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

// queue кладёт событие в буфер соединения; при переполнении событие
// отбрасывается, чтобы медленный клиент не блокировал рассылку.
// Вызывается только под блокировкой хаба, пока клиент зарегистрирован.
func (c *Client) queue(ev Event) {
	select {
	case c.send <- ev:
	default:
		c.log.Warn("Send buffer full, dropping event",
			"conn_id", c.id, "user_id", c.userID, "event", ev.Event)
	}
}
