package entity

import "time"

// InboundView is what a recipient sees. The recipient is implicit.
type InboundView struct {
	ID               uint64           `json:"id"`
	Sender           *UserSummary     `json:"sender"`
	Message          string           `json:"message"`
	URL              *string          `json:"url"`
	NotificationType NotificationType `json:"notification_type"`
	CreatedAt        time.Time        `json:"created_at"`
	IsRead           bool             `json:"is_read"`
}

// SentView is what a sender sees for each row it issued.
type SentView struct {
	ID               uint64           `json:"id"`
	Sender           *UserSummary     `json:"sender"`
	Recipient        *UserSummary     `json:"recipient"`
	RecipientCount   int64            `json:"recipient_count"`
	Message          string           `json:"message"`
	URL              *string          `json:"url"`
	NotificationType NotificationType `json:"notification_type"`
	CreatedAt        time.Time        `json:"created_at"`
	IsRead           bool             `json:"is_read"`
}

type MarkReadResult struct {
	Notification InboundView `json:"notification"`
	UnreadCount  int64       `json:"unread_count"`
}
