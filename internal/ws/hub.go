package ws

import (
	"sync"

	"github.com/google/uuid"

	"marketplace/pkg/logger"
)

// Hub — процессно-локальный реестр соединений и комнат.
// Членство меняется только путём join/leave/disconnect самого соединения.
type Hub struct {
	mu          sync.RWMutex
	clients     map[uuid.UUID]*Client
	rooms       map[RoomID]map[*Client]struct{}
	memberships map[*Client]map[RoomID]struct{}
	log         logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		rooms:       make(map[RoomID]map[*Client]struct{}),
		memberships: make(map[*Client]map[RoomID]struct{}),
		log:         log,
	}
}

// Register добавляет соединение и автоматически включает его
// в персональную комнату пользователя
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
	h.joinLocked(c, PersonalRoom(c.userID))

	h.log.Info("Client connected", "conn_id", c.id, "user_id", c.userID, "total", len(h.clients))
}

// Unregister удаляет соединение из всех комнат и закрывает его буфер записи.
// Возвращает false, если соединение уже было удалено: терминальный хук
// отключения должен отработать ровно один раз.
func (h *Hub) Unregister(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return false
	}
	delete(h.clients, c.id)

	for room := range h.memberships[c] {
		h.leaveLocked(c, room)
	}
	delete(h.memberships, c)

	close(c.send)

	h.log.Info("Client disconnected", "conn_id", c.id, "user_id", c.userID, "total", len(h.clients))
	return true
}

// Join включает соединение в комнату; повторный join той же комнаты — no-op
func (h *Hub) Join(c *Client, room RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}
	h.joinLocked(c, room)
}

func (h *Hub) Leave(c *Client, room RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) joinLocked(c *Client, room RoomID) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}

	joined, ok := h.memberships[c]
	if !ok {
		joined = make(map[RoomID]struct{})
		h.memberships[c] = joined
	}
	joined[room] = struct{}{}
}

func (h *Hub) leaveLocked(c *Client, room RoomID) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if joined, ok := h.memberships[c]; ok {
		delete(joined, room)
	}
}

// ToRoom рассылает событие всем участникам комнаты
func (h *Hub) ToRoom(room RoomID, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		c.queue(ev)
	}
}

// ToRoomExcept рассылает событие всем участникам комнаты, кроме одного соединения
func (h *Hub) ToRoomExcept(room RoomID, except uuid.UUID, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		if c.id == except {
			continue
		}
		c.queue(ev)
	}
}

// ToUser доставляет событие во все соединения пользователя
func (h *Hub) ToUser(userID int64, ev Event) {
	h.ToRoom(PersonalRoom(userID), ev)
}

// ToConn доставляет событие в одно конкретное соединение
func (h *Hub) ToConn(connID uuid.UUID, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.clients[connID]; ok {
		c.queue(ev)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown закрывает все живые соединения; read-циклы обработчиков
// завершатся, и их терминальные хуки отработают штатно
func (h *Hub) Shutdown() {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		_ = c.conn.Close()
	}
}
