package ws

import (
	"testing"
)

func TestConversationRoomOrderIndependent(t *testing.T) {
	a := ConversationRoom(5, 9)
	b := ConversationRoom(9, 5)

	if a != b {
		t.Errorf("Expected ConversationRoom(5, 9) == ConversationRoom(9, 5), got %v and %v", a, b)
	}
}

func TestConversationRoomDistinctPairs(t *testing.T) {
	tests := []struct {
		name   string
		first  RoomID
		second RoomID
	}{
		{
			name:   "different pairs",
			first:  ConversationRoom(1, 2),
			second: ConversationRoom(1, 3),
		},
		{
			name:   "no separator collision",
			first:  ConversationRoom(1, 23),
			second: ConversationRoom(12, 3),
		},
		{
			name:   "personal vs conversation",
			first:  PersonalRoom(5),
			second: ConversationRoom(5, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.first == tt.second {
				t.Errorf("Expected distinct room keys, both are %v", tt.first)
			}
		})
	}
}

func TestPersonalRoomKey(t *testing.T) {
	room := PersonalRoom(42)

	if room.Kind != RoomPersonal {
		t.Errorf("Expected kind %v, got %v", RoomPersonal, room.Kind)
	}
	if room.A != 42 {
		t.Errorf("Expected A = 42, got %d", room.A)
	}
	if PersonalRoom(42) != room {
		t.Error("Expected personal room key to be deterministic")
	}
}

func TestRoomIDString(t *testing.T) {
	if got := PersonalRoom(7).String(); got != "user:7" {
		t.Errorf("Expected 'user:7', got '%s'", got)
	}
	if got := ConversationRoom(9, 5).String(); got != "conversation:5:9" {
		t.Errorf("Expected 'conversation:5:9', got '%s'", got)
	}
}
