package ws

import (
	"testing"

	"github.com/google/uuid"

	"marketplace/pkg/logger"
)

func newTestClient(userID int64, name string) *Client {
	return &Client{
		id:          uuid.New(),
		userID:      userID,
		displayName: name,
		send:        make(chan Event, sendBufferSize),
		log:         logger.New("error"),
	}
}

func drain(c *Client) []Event {
	var events []Event
	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestRegisterJoinsPersonalRoom(t *testing.T) {
	hub := NewHub(logger.New("error"))
	c := newTestClient(1, "alice")

	hub.Register(c)

	hub.ToUser(1, NewEvent("ping", nil))
	if got := len(drain(c)); got != 1 {
		t.Errorf("Expected 1 event in personal room, got %d", got)
	}
}

func TestJoinIdempotentNoDuplicateDelivery(t *testing.T) {
	hub := NewHub(logger.New("error"))
	c := newTestClient(1, "alice")
	hub.Register(c)

	room := ConversationRoom(1, 2)
	hub.Join(c, room)
	hub.Join(c, room)
	hub.Join(c, room)

	hub.ToRoom(room, NewEvent("new_message", nil))

	if got := len(drain(c)); got != 1 {
		t.Errorf("Expected exactly 1 delivery after repeated joins, got %d", got)
	}
}

func TestToRoomExceptSkipsSender(t *testing.T) {
	hub := NewHub(logger.New("error"))
	sender := newTestClient(1, "alice")
	other := newTestClient(2, "bob")
	hub.Register(sender)
	hub.Register(other)

	room := ConversationRoom(1, 2)
	hub.Join(sender, room)
	hub.Join(other, room)

	hub.ToRoomExcept(room, sender.ID(), NewEvent("user_typing", nil))

	if got := len(drain(sender)); got != 0 {
		t.Errorf("Expected sender to receive nothing, got %d events", got)
	}
	if got := len(drain(other)); got != 1 {
		t.Errorf("Expected other participant to receive 1 event, got %d", got)
	}
}

func TestToUserReachesAllConnections(t *testing.T) {
	hub := NewHub(logger.New("error"))
	// Два устройства одного пользователя
	first := newTestClient(7, "carol")
	second := newTestClient(7, "carol")
	stranger := newTestClient(8, "dave")
	hub.Register(first)
	hub.Register(second)
	hub.Register(stranger)

	hub.ToUser(7, NewEvent("new_notification", nil))

	if got := len(drain(first)); got != 1 {
		t.Errorf("Expected first connection to receive 1 event, got %d", got)
	}
	if got := len(drain(second)); got != 1 {
		t.Errorf("Expected second connection to receive 1 event, got %d", got)
	}
	if got := len(drain(stranger)); got != 0 {
		t.Errorf("Expected stranger to receive nothing, got %d", got)
	}
}

func TestToConnTargetsSingleConnection(t *testing.T) {
	hub := NewHub(logger.New("error"))
	first := newTestClient(7, "carol")
	second := newTestClient(7, "carol")
	hub.Register(first)
	hub.Register(second)

	hub.ToConn(first.ID(), NewEvent("message_sent", nil))

	if got := len(drain(first)); got != 1 {
		t.Errorf("Expected targeted connection to receive 1 event, got %d", got)
	}
	if got := len(drain(second)); got != 0 {
		t.Errorf("Expected sibling connection to receive nothing, got %d", got)
	}
}

func TestUnregisterRemovesFromAllRooms(t *testing.T) {
	hub := NewHub(logger.New("error"))
	c := newTestClient(1, "alice")
	hub.Register(c)
	hub.Join(c, ConversationRoom(1, 2))
	hub.Join(c, ConversationRoom(1, 3))

	if !hub.Unregister(c) {
		t.Fatal("Expected first Unregister to report removal")
	}

	// Никакие рассылки больше не достигают соединения
	hub.ToRoom(ConversationRoom(1, 2), NewEvent("new_message", nil))
	hub.ToRoom(ConversationRoom(1, 3), NewEvent("new_message", nil))
	hub.ToUser(1, NewEvent("new_notification", nil))

	if got := len(drain(c)); got != 0 {
		t.Errorf("Expected no deliveries after unregister, got %d", got)
	}
	if hub.Count() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.Count())
	}
}

func TestUnregisterExactlyOnce(t *testing.T) {
	hub := NewHub(logger.New("error"))
	c := newTestClient(1, "alice")
	hub.Register(c)

	if !hub.Unregister(c) {
		t.Fatal("Expected first Unregister to succeed")
	}
	if hub.Unregister(c) {
		t.Error("Expected second Unregister to be a no-op")
	}
}

func TestJoinAfterUnregisterIgnored(t *testing.T) {
	hub := NewHub(logger.New("error"))
	c := newTestClient(1, "alice")
	hub.Register(c)
	hub.Unregister(c)

	hub.Join(c, ConversationRoom(1, 2))
	hub.ToRoom(ConversationRoom(1, 2), NewEvent("new_message", nil))

	if got := len(drain(c)); got != 0 {
		t.Errorf("Expected no deliveries for unregistered client, got %d", got)
	}
}
