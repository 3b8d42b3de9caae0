package persistent

import (
	"context"
	"errors"

	"recipe-share/services/notification/internal/entity"
	"recipe-share/services/notification/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const createBatchSize = 500

type NotificationRepository interface {
	// CreateBatch inserts every row in one transaction and fills in the assigned IDs.
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error
	ListInbound(ctx context.Context, recipientID string, notificationType *entity.NotificationType) ([]*entity.Notification, error)
	ListSent(ctx context.Context, senderID string) ([]*entity.Notification, error)
	CountByBatch(ctx context.Context, batchIDs []string) (map[string]int64, error)
	GetForRecipient(ctx context.Context, id uint64, recipientID string) (*entity.Notification, error)
	MarkRead(ctx context.Context, id uint64, recipientID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// withDeletedUsers keeps soft-deleted accounts visible on notifications; only a hard
// delete clears the sender.
func withDeletedUsers(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	models := make([]*model.NotificationModel, len(notifications))
	for i, n := range notifications {
		models[i] = ToNotificationModel(n)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).CreateInBatches(models, createBatchSize).Error
	})
	if err != nil {
		return err
	}

	for i, m := range models {
		notifications[i].ID = m.ID
	}
	return nil
}

func (r *notificationRepository) ListInbound(ctx context.Context, recipientID string, notificationType *entity.NotificationType) ([]*entity.Notification, error) {
	query := r.db.WithContext(ctx).
		Preload("Sender", withDeletedUsers).
		Where("recipient_id = ?", recipientID)
	if notificationType != nil {
		query = query.Where("notification_type = ?", string(*notificationType))
	}

	var notificationModels []model.NotificationModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&notificationModels).Error; err != nil {
		return nil, err
	}
	return ToNotificationEntities(notificationModels), nil
}

func (r *notificationRepository) ListSent(ctx context.Context, senderID string) ([]*entity.Notification, error) {
	var notificationModels []model.NotificationModel
	err := r.db.WithContext(ctx).
		Preload("Sender", withDeletedUsers).
		Preload("Recipient", withDeletedUsers).
		Where("sender_id = ?", senderID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notificationModels).Error
	if err != nil {
		return nil, err
	}
	return ToNotificationEntities(notificationModels), nil
}

func (r *notificationRepository) CountByBatch(ctx context.Context, batchIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(batchIDs))
	if len(batchIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		FanoutBatchID string
		Count         int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Select("fanout_batch_id, COUNT(*) AS count").
		Where("fanout_batch_id IN ?", batchIDs).
		Group("fanout_batch_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.FanoutBatchID] = row.Count
	}
	return counts, nil
}

func (r *notificationRepository) GetForRecipient(ctx context.Context, id uint64, recipientID string) (*entity.Notification, error) {
	var notificationModel model.NotificationModel
	err := r.db.WithContext(ctx).
		Preload("Sender", withDeletedUsers).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&notificationModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToNotificationEntity(&notificationModel), nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint64, recipientID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("id = ? AND recipient_id = ? AND is_read = ?", id, recipientID, false).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
