package usecase

import (
	"context"
	"fmt"

	"recipe-share/pkg/logger"
	"recipe-share/services/notification/internal/entity"
)

type ReadStateStore interface {
	GetForRecipient(ctx context.Context, id uint64, recipientID string) (*entity.Notification, error)
	MarkRead(ctx context.Context, id uint64, recipientID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// UnreadCounter caches per-recipient unread counts. Errors are never fatal.
// GetOrLoad must not cache a loaded count if Invalidate ran for the same user
// while load was in flight.
type UnreadCounter interface {
	GetOrLoad(ctx context.Context, userID string, load func(context.Context) (int64, error)) (int64, error)
	Invalidate(ctx context.Context, userIDs ...string) error
}

type ReadStateTracker struct {
	store  ReadStateStore
	cache  UnreadCounter
	logger *logger.Logger
}

// NewReadStateTracker builds a tracker; cache may be nil.
func NewReadStateTracker(store ReadStateStore, cache UnreadCounter, logger *logger.Logger) *ReadStateTracker {
	return &ReadStateTracker{store: store, cache: cache, logger: logger}
}

// MarkRead flips one of the recipient's notifications to read. A notification owned
// by someone else is reported as entity.ErrNotFound.
func (t *ReadStateTracker) MarkRead(ctx context.Context, recipientID string, id uint64) (*entity.Notification, int64, error) {
	notification, err := t.store.GetForRecipient(ctx, id, recipientID)
	if err != nil {
		return nil, 0, err
	}

	if !notification.IsRead {
		changed, err := t.store.MarkRead(ctx, id, recipientID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to mark notification %d read: %w", id, err)
		}
		if changed {
			t.Invalidate(ctx, recipientID)
		}
		notification.IsRead = true
	}

	unread, err := t.UnreadCount(ctx, recipientID)
	if err != nil {
		return nil, 0, err
	}
	return notification, unread, nil
}

func (t *ReadStateTracker) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	updated, err := t.store.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if updated > 0 {
		t.Invalidate(ctx, recipientID)
	}
	return updated, nil
}

func (t *ReadStateTracker) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	if t.cache == nil {
		return t.countUnread(ctx, recipientID)
	}

	var loadErr error
	count, err := t.cache.GetOrLoad(ctx, recipientID, func(ctx context.Context) (int64, error) {
		count, err := t.countUnread(ctx, recipientID)
		loadErr = err
		return count, err
	})
	if loadErr != nil {
		return 0, loadErr
	}
	if err != nil {
		t.logger.Warn("Unread cache failed for %s: %v", recipientID, err)
		return t.countUnread(ctx, recipientID)
	}
	return count, nil
}

func (t *ReadStateTracker) countUnread(ctx context.Context, recipientID string) (int64, error) {
	count, err := t.store.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// Invalidate drops cached counts; used after fan-out commits and read-state changes.
func (t *ReadStateTracker) Invalidate(ctx context.Context, userIDs ...string) {
	if t.cache == nil || len(userIDs) == 0 {
		return
	}
	if err := t.cache.Invalidate(ctx, userIDs...); err != nil {
		t.logger.Warn("Unread cache invalidation failed for %d users: %v", len(userIDs), err)
	}
}
