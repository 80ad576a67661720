package domain

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationNewMessage       NotificationType = "NEW_MESSAGE"
	NotificationSearchMatch      NotificationType = "SEARCH_MATCH"
	NotificationListingInquiry   NotificationType = "LISTING_INQUIRY"
	NotificationListingFavorited NotificationType = "LISTING_FAVORITED"
	NotificationReportResolved   NotificationType = "REPORT_RESOLVED"
	NotificationWeeklyDigest     NotificationType = "WEEKLY_DIGEST"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      json.RawMessage  `json:"data,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationSettings управляют только email-каналом, realtime-доставка безусловна
type NotificationSettings struct {
	UserID                int64     `json:"user_id"`
	EmailNewMessage       bool      `json:"email_new_message"`
	EmailSearchMatch      bool      `json:"email_search_match"`
	EmailListingInquiry   bool      `json:"email_listing_inquiry"`
	EmailListingFavorited bool      `json:"email_listing_favorited"`
	EmailReportResolved   bool      `json:"email_report_resolved"`
	EmailWeeklyDigest     bool      `json:"email_weekly_digest"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// EmailEnabled возвращает true, если для данного типа разрешена отправка письма
func (s *NotificationSettings) EmailEnabled(t NotificationType) bool {
	switch t {
	case NotificationNewMessage:
		return s.EmailNewMessage
	case NotificationSearchMatch:
		return s.EmailSearchMatch
	case NotificationListingInquiry:
		return s.EmailListingInquiry
	case NotificationListingFavorited:
		return s.EmailListingFavorited
	case NotificationReportResolved:
		return s.EmailReportResolved
	case NotificationWeeklyDigest:
		return s.EmailWeeklyDigest
	default:
		return true
	}
}
