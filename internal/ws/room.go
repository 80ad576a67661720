package ws

import (
	"fmt"
)

type RoomKind uint8

const (
	// RoomPersonal — персональная комната пользователя, A = user id
	RoomPersonal RoomKind = iota + 1
	// RoomConversation — комната диалога пары пользователей, A <= B
	RoomConversation
)

// RoomID — типизированный ключ комнаты. Для диалогов ключ не зависит от
// порядка идентификаторов: ConversationRoom(a, b) == ConversationRoom(b, a).
type RoomID struct {
	Kind RoomKind
	A    int64
	B    int64
}

func PersonalRoom(userID int64) RoomID {
	return RoomID{Kind: RoomPersonal, A: userID}
}

func ConversationRoom(a, b int64) RoomID {
	if b < a {
		a, b = b, a
	}
	return RoomID{Kind: RoomConversation, A: a, B: b}
}

func (r RoomID) String() string {
	switch r.Kind {
	case RoomPersonal:
		return fmt.Sprintf("user:%d", r.A)
	case RoomConversation:
		return fmt.Sprintf("conversation:%d:%d", r.A, r.B)
	default:
		return fmt.Sprintf("unknown:%d:%d", r.A, r.B)
	}
}
