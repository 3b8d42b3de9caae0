package usecase

import (
	"context"

	"recipe-share/pkg/logger"
	"recipe-share/services/notification/internal/entity"
)

// NotificationStore is everything the use case needs from the notifications table.
type NotificationStore interface {
	NotificationWriter
	NotificationReader
	ReadStateStore
}

// NotificationUseCase is the surface the HTTP layer talks to. callerID is always the
// authenticated user the operation acts for.
type NotificationUseCase interface {
	Push(ctx context.Context, callerID string, in PushInput) ([]entity.InboundView, error)
	ListInbound(ctx context.Context, callerID string, notificationType *entity.NotificationType) ([]entity.InboundView, error)
	ListSent(ctx context.Context, callerID string) ([]entity.SentView, error)
	MarkRead(ctx context.Context, callerID string, id uint64) (*entity.MarkReadResult, error)
	MarkAllRead(ctx context.Context, callerID string) (int64, error)
	UnreadCount(ctx context.Context, callerID string) (int64, error)
}

type notificationUseCase struct {
	fanout  *FanoutEngine
	tracker *ReadStateTracker
	query   *QueryService
	logger  *logger.Logger
}

func NewNotificationUseCase(directory AudienceSource, store NotificationStore, cache UnreadCounter, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		fanout:  NewFanoutEngine(directory, store),
		tracker: NewReadStateTracker(store, cache, logger),
		query:   NewQueryService(store),
		logger:  logger,
	}
}

func (uc *notificationUseCase) Push(ctx context.Context, callerID string, in PushInput) ([]entity.InboundView, error) {
	notifications, err := uc.fanout.Push(ctx, callerID, in)
	if err != nil {
		return nil, err
	}

	recipients := make([]string, len(notifications))
	for i, n := range notifications {
		recipients[i] = n.RecipientID
	}
	uc.tracker.Invalidate(ctx, recipients...)

	if len(notifications) > 0 {
		uc.logger.Info("Pushed %s notification from %s to %d recipients (batch=%s)", in.NotificationType, callerID, len(notifications), notifications[0].BatchID)
	} else {
		uc.logger.Info("Pushed %s notification from %s: empty audience", in.NotificationType, callerID)
	}
	return ToInboundViews(notifications), nil
}

func (uc *notificationUseCase) ListInbound(ctx context.Context, callerID string, notificationType *entity.NotificationType) ([]entity.InboundView, error) {
	return uc.query.Inbound(ctx, callerID, notificationType)
}

func (uc *notificationUseCase) ListSent(ctx context.Context, callerID string) ([]entity.SentView, error) {
	return uc.query.Sent(ctx, callerID)
}

func (uc *notificationUseCase) MarkRead(ctx context.Context, callerID string, id uint64) (*entity.MarkReadResult, error) {
	notification, unread, err := uc.tracker.MarkRead(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	return &entity.MarkReadResult{
		Notification: ToInboundView(notification),
		UnreadCount:  unread,
	}, nil
}

func (uc *notificationUseCase) MarkAllRead(ctx context.Context, callerID string) (int64, error) {
	updated, err := uc.tracker.MarkAllRead(ctx, callerID)
	if err != nil {
		return 0, err
	}
	uc.logger.Info("Marked %d notifications read for %s", updated, callerID)
	return updated, nil
}

func (uc *notificationUseCase) UnreadCount(ctx context.Context, callerID string) (int64, error) {
	return uc.tracker.UnreadCount(ctx, callerID)
}
