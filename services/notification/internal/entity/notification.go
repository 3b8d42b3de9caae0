package entity

import (
	"fmt"
	"time"
)

// NotificationType selects how a push is expanded into recipients.
type NotificationType string

const (
	TypeGlobal    NotificationType = "global"
	TypeFollowers NotificationType = "followers"
	TypePersonal  NotificationType = "personal"
)

// NotificationTypes lists every type in a stable order.
var NotificationTypes = []NotificationType{TypeGlobal, TypeFollowers, TypePersonal}

func ParseNotificationType(s string) (NotificationType, error) {
	switch t := NotificationType(s); t {
	case TypeGlobal, TypeFollowers, TypePersonal:
		return t, nil
	default:
		return "", fmt.Errorf("%w: invalid notification type %q", ErrInvalidRequest, s)
	}
}

// IsBroadcast reports whether one push of this type may reach many recipients.
func (t NotificationType) IsBroadcast() bool {
	switch t {
	case TypeGlobal, TypeFollowers:
		return true
	case TypePersonal:
		return false
	}
	panic(fmt.Sprintf("entity: unknown notification type %q", string(t)))
}

// UserSummary is the minimal identity exposed on notifications.
type UserSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// Notification is one stored, per-recipient record.
type Notification struct {
	ID          uint64
	BatchID     string
	SenderID    *string
	Sender      *UserSummary
	RecipientID string
	Recipient   *UserSummary
	Message     string
	URL         string
	Type        NotificationType
	CreatedAt   time.Time
	IsRead      bool
}
