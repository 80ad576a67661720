package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/ws"
	apperrors "marketplace/pkg/errors"
)

// emission — одно зафиксированное событие рассылки
type emission struct {
	kind   string // "room" | "roomExcept" | "user" | "conn"
	room   ws.RoomID
	userID int64
	connID uuid.UUID
	event  ws.Event
}

type recorderBroadcaster struct {
	emissions []emission
}

func (b *recorderBroadcaster) ToRoom(room ws.RoomID, ev ws.Event) {
	b.emissions = append(b.emissions, emission{kind: "room", room: room, event: ev})
}

func (b *recorderBroadcaster) ToRoomExcept(room ws.RoomID, except uuid.UUID, ev ws.Event) {
	b.emissions = append(b.emissions, emission{kind: "roomExcept", room: room, connID: except, event: ev})
}

func (b *recorderBroadcaster) ToUser(userID int64, ev ws.Event) {
	b.emissions = append(b.emissions, emission{kind: "user", userID: userID, event: ev})
}

func (b *recorderBroadcaster) ToConn(connID uuid.UUID, ev ws.Event) {
	b.emissions = append(b.emissions, emission{kind: "conn", connID: connID, event: ev})
}

func (b *recorderBroadcaster) named(name string) []emission {
	var out []emission
	for _, e := range b.emissions {
		if e.event.Event == name {
			out = append(out, e)
		}
	}
	return out
}

type fakeUserRepo struct {
	users    map[int64]*domain.User
	lastSeen map[int64]int
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{
		users:    make(map[int64]*domain.User),
		lastSeen: make(map[int64]int),
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) UpdateLastSeen(_ context.Context, id int64, _ time.Time) error {
	r.lastSeen[id]++
	return nil
}

type fakeListingRepo struct {
	listings map[int64]*domain.Listing
}

func newFakeListingRepo(listings ...*domain.Listing) *fakeListingRepo {
	r := &fakeListingRepo{listings: make(map[int64]*domain.Listing)}
	for _, l := range listings {
		r.listings[l.ID] = l
	}
	return r
}

func (r *fakeListingRepo) GetByID(_ context.Context, id int64) (*domain.Listing, error) {
	if l, ok := r.listings[id]; ok {
		return l, nil
	}
	return nil, apperrors.ErrListingNotFound
}

func (r *fakeListingRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.listings[id]
	return ok, nil
}

type fakeMessageRepo struct {
	messages   []*domain.Message
	nextID     int64
	failCreate error
}

func (r *fakeMessageRepo) Create(_ context.Context, message *domain.Message) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.nextID++
	message.ID = r.nextID
	stored := *message
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeMessageRepo) MarkConversationRead(_ context.Context, senderID, receiverID int64) (int64, error) {
	var count int64
	for _, m := range r.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			count++
		}
	}
	return count, nil
}

type fakeNotificationRepo struct {
	notifications []*domain.Notification
	settings      map[int64]*domain.NotificationSettings
	nextID        int64
	failCreate    error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{settings: make(map[int64]*domain.NotificationSettings)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.nextID++
	n.ID = r.nextID
	stored := *n
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID int64) (int64, error) {
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) GetSettings(_ context.Context, userID int64) (*domain.NotificationSettings, error) {
	if s, ok := r.settings[userID]; ok {
		return s, nil
	}
	s := &domain.NotificationSettings{
		UserID:                userID,
		EmailNewMessage:       true,
		EmailSearchMatch:      true,
		EmailListingInquiry:   true,
		EmailListingFavorited: true,
		EmailReportResolved:   true,
		EmailWeeklyDigest:     true,
	}
	r.settings[userID] = s
	return s, nil
}

type enqueuedEmail struct {
	to      string
	subject string
}

type fakeEmailService struct {
	sent chan enqueuedEmail
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{sent: make(chan enqueuedEmail, 16)}
}

func (s *fakeEmailService) Enqueue(to, subject, _ string) {
	s.sent <- enqueuedEmail{to: to, subject: subject}
}

func (s *fakeEmailService) Run(_ context.Context) {}

type notifierCall struct {
	userID int64
	typ    domain.NotificationType
	title  string
}

type fakeNotifier struct {
	calls []notifierCall
}

func (f *fakeNotifier) Create(_ context.Context, userID int64, typ domain.NotificationType, title, message string, _ json.RawMessage) (*domain.Notification, error) {
	f.calls = append(f.calls, notifierCall{userID: userID, typ: typ, title: title})
	return &domain.Notification{UserID: userID, Type: typ, Title: title, Message: message}, nil
}

func (f *fakeNotifier) MarkRead(_ context.Context, _, _ int64) error { return nil }

func (f *fakeNotifier) MarkAllRead(_ context.Context, _ int64) (int64, error) { return 0, nil }

func (f *fakeNotifier) UnreadCount(_ context.Context, _ int64) (int64, error) { return 0, nil }

func testIdentity(userID int64, name string) ws.Identity {
	return ws.Identity{ConnID: uuid.New(), UserID: userID, Name: name}
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.ListingRepository = (*fakeListingRepo)(nil)
var _ repository.MessageRepository = (*fakeMessageRepo)(nil)
var _ repository.NotificationRepository = (*fakeNotificationRepo)(nil)
var _ Broadcaster = (*recorderBroadcaster)(nil)
var _ EmailService = (*fakeEmailService)(nil)
var _ NotificationService = (*fakeNotifier)(nil)
