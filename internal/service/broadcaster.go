package service

import (
	"github.com/google/uuid"

	"marketplace/internal/ws"
)

// Broadcaster — слой рассылки событий по живым соединениям.
// Передаётся сервисам явно при сборке приложения; в тестах подменяется фейком.
type Broadcaster interface {
	ToRoom(room ws.RoomID, ev ws.Event)
	ToRoomExcept(room ws.RoomID, except uuid.UUID, ev ws.Event)
	ToUser(userID int64, ev ws.Event)
	ToConn(connID uuid.UUID, ev ws.Event)
}
