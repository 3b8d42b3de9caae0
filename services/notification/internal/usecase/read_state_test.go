package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-share/pkg/logger"
	"recipe-share/services/notification/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedInbox stores unread and read rows for recipientID and returns their ids.
func seedInbox(t *testing.T, store *fakeStore, recipientID string, unread, read int) []uint64 {
	t.Helper()
	sender := senderID
	created := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	var rows []*entity.Notification
	for i := 0; i < unread+read; i++ {
		rows = append(rows, &entity.Notification{
			BatchID:     "seed",
			SenderID:    &sender,
			RecipientID: recipientID,
			Message:     "seeded",
			Type:        entity.TypePersonal,
			CreatedAt:   created.Add(time.Duration(i) * time.Second),
			IsRead:      i >= unread,
		})
	}
	require.NoError(t, store.CreateBatch(context.Background(), rows))

	ids := make([]uint64, len(rows))
	for i, n := range rows {
		ids[i] = n.ID
	}
	return ids
}

func TestReadStateTracker_MarkRead(t *testing.T) {
	store := newFakeStore(fiveUsers()...)
	ids := seedInbox(t, store, userAID, 2, 0)
	tracker := NewReadStateTracker(store, nil, logger.New())

	notification, unread, err := tracker.MarkRead(context.Background(), userAID, ids[0])

	require.NoError(t, err)
	assert.True(t, notification.IsRead)
	assert.Equal(t, int64(1), unread)
	assert.True(t, store.byID(ids[0]).IsRead)
	assert.False(t, store.byID(ids[1]).IsRead)
}

func TestReadStateTracker_MarkReadIsIdempotent(t *testing.T) {
	store := newFakeStore(fiveUsers()...)
	ids := seedInbox(t, store, userAID, 2, 0)
	tracker := NewReadStateTracker(store, nil, logger.New())

	first, firstUnread, err := tracker.MarkRead(context.Background(), userAID, ids[1])
	require.NoError(t, err)
	second, secondUnread, err := tracker.MarkRead(context.Background(), userAID, ids[1])
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstUnread, secondUnread)
	assert.Equal(t, int64(1), secondUnread)
}

func TestReadStateTracker_MarkReadForeignRowIsNotFound(t *testing.T) {
	store := newFakeStore(fiveUsers()...)
	ids := seedInbox(t, store, userAID, 1, 0)
	tracker := NewReadStateTracker(store, nil, logger.New())

	notification, _, err := tracker.MarkRead(context.Background(), userBID, ids[0])

	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Nil(t, notification)
	assert.False(t, store.byID(ids[0]).IsRead)
}

func TestReadStateTracker_MarkReadMissingRow(t *testing.T) {
	store := newFakeStore(fiveUsers()...)
	tracker := NewReadStateTracker(store, nil, logger.New())

	_, _, err := tracker.MarkRead(context.Background(), userAID, 999)

	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestReadStateTracker_MarkAllRead(t *testing.T) {
	store := newFakeStore(fiveUsers()...)
	ids := seedInbox(t, store, userAID, 3, 2)
	other := seedInbox(t, store, userBID, 1, 0)
	tracker := NewReadStateTracker(store, nil, logger.New())

	updated, err := tracker.MarkAllRead(context.Background(), userAID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
	for _, id := range ids {
		assert.True(t, store.byID(id).IsRead)
	}
	assert.False(t, store.byID(other[0]).IsRead)

	unread, err := tracker.UnreadCount(context.Background(), userAID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestReadStateTracker_MarkAllReadNothingToDo(t *testing.T) {
	store := newFakeStore(fiveUsers()...)
	seedInbox(t, store, userAID, 0, 2)
	cache := newFakeCache()
	tracker := NewReadStateTracker(store, cache, logger.New())

	updated, err := tracker.MarkAllRead(context.Background(), userAID)

	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Empty(t, cache.invalidated)
}

func TestReadStateTracker_UnreadCountReadsThroughCache(t *testing.T) {
	store := newFakeStore(fiveUsers()...)
	seedInbox(t, store, userAID, 2, 1)
	cache := newFakeCache()
	tracker := NewReadStateTracker(store, cache, logger.New())

	count, err := tracker.UnreadCount(context.Background(), userAID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, int64(2), cache.counts[userAID])

	cache.counts[userAID] = 7
	count, err = tracker.UnreadCount(context.Background(), userAID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestReadStateTracker_MarkReadInvalidatesCache(t *testing.T) {
	store := newFakeStore(fiveUsers()...)
	ids := seedInbox(t, store, userAID, 2, 0)
	cache := newFakeCache()
	cache.counts[userAID] = 2
	tracker := NewReadStateTracker(store, cache, logger.New())

	_, unread, err := tracker.MarkRead(context.Background(), userAID, ids[0])

	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, []string{userAID}, cache.invalidated)
	assert.Equal(t, int64(1), cache.counts[userAID])
}

func TestReadStateTracker_MarkReadAlreadyReadKeepsCache(t *testing.T) {
	store := newFakeStore(fiveUsers()...)
	ids := seedInbox(t, store, userAID, 1, 1)
	cache := newFakeCache()
	tracker := NewReadStateTracker(store, cache, logger.New())

	_, unread, err := tracker.MarkRead(context.Background(), userAID, ids[1])

	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
	assert.Empty(t, cache.invalidated)
}

type brokenCache struct{}

func (brokenCache) GetOrLoad(context.Context, string, func(context.Context) (int64, error)) (int64, error) {
	return 0, errors.New("redis: connection refused")
}

func (brokenCache) Invalidate(context.Context, ...string) error {
	return errors.New("redis: connection refused")
}

func TestReadStateTracker_UnreadCountFallsBackWhenCacheFails(t *testing.T) {
	store := newFakeStore(fiveUsers()...)
	ids := seedInbox(t, store, userAID, 2, 0)
	tracker := NewReadStateTracker(store, brokenCache{}, logger.New())

	_, unread, err := tracker.MarkRead(context.Background(), userAID, ids[0])

	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}
