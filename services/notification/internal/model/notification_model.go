package model

import "time"

type NotificationModel struct {
	ID               uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	FanoutBatchID    string     `gorm:"column:fanout_batch_id;type:uuid;not null;index"`
	SenderID         *string    `gorm:"column:sender_id;type:uuid;index"`
	RecipientID      string     `gorm:"column:recipient_id;type:uuid;not null;index:idx_notifications_recipient_read"`
	Message          string     `gorm:"column:message;type:varchar(255);not null"`
	URL              *string    `gorm:"column:url;type:varchar(200)"`
	NotificationType string     `gorm:"column:notification_type;type:varchar(20);not null"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null;index"`
	IsRead           bool       `gorm:"column:is_read;not null;default:false;index:idx_notifications_recipient_read"`
	Sender           *UserModel `gorm:"foreignKey:SenderID;constraint:OnDelete:SET NULL"`
	Recipient        *UserModel `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
