package persistent

import (
	"recipe-share/services/notification/internal/entity"
	"recipe-share/services/notification/internal/model"
)

func ToUserSummary(m *model.UserModel) *entity.UserSummary {
	if m == nil {
		return nil
	}
	return &entity.UserSummary{
		ID:             m.ID,
		Username:       m.Username,
		ProfilePicture: m.ProfilePicture,
	}
}

func ToNotificationEntity(m *model.NotificationModel) *entity.Notification {
	if m == nil {
		return nil
	}

	n := &entity.Notification{
		ID:          m.ID,
		BatchID:     m.FanoutBatchID,
		SenderID:    m.SenderID,
		Sender:      ToUserSummary(m.Sender),
		RecipientID: m.RecipientID,
		Recipient:   ToUserSummary(m.Recipient),
		Message:     m.Message,
		Type:        entity.NotificationType(m.NotificationType),
		CreatedAt:   m.CreatedAt,
		IsRead:      m.IsRead,
	}
	if m.URL != nil {
		n.URL = *m.URL
	}
	return n
}

func ToNotificationEntities(models []model.NotificationModel) []*entity.Notification {
	notifications := make([]*entity.Notification, len(models))
	for i := range models {
		notifications[i] = ToNotificationEntity(&models[i])
	}
	return notifications
}

func ToNotificationModel(e *entity.Notification) *model.NotificationModel {
	if e == nil {
		return nil
	}

	m := &model.NotificationModel{
		ID:               e.ID,
		FanoutBatchID:    e.BatchID,
		SenderID:         e.SenderID,
		RecipientID:      e.RecipientID,
		Message:          e.Message,
		NotificationType: string(e.Type),
		CreatedAt:        e.CreatedAt,
		IsRead:           e.IsRead,
	}
	if e.URL != "" {
		url := e.URL
		m.URL = &url
	}
	return m
}
