package usecase

import (
	"context"
	"sort"
	"sync"

	"recipe-share/services/notification/internal/entity"
)

type fakeDirectory struct {
	users     []entity.UserSummary
	followers map[string][]string
	err       error
}

func newFakeDirectory(users ...entity.UserSummary) *fakeDirectory {
	return &fakeDirectory{users: users, followers: map[string][]string{}}
}

func (d *fakeDirectory) follow(followerID, followingID string) {
	d.followers[followingID] = append(d.followers[followingID], followerID)
}

func (d *fakeDirectory) FindUser(_ context.Context, userID string) (*entity.UserSummary, error) {
	if d.err != nil {
		return nil, d.err
	}
	for i := range d.users {
		if d.users[i].ID == userID {
			u := d.users[i]
			return &u, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (d *fakeDirectory) ListUserIDs(_ context.Context, excludeID string) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	var ids []string
	for _, u := range d.users {
		if u.ID != excludeID {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (d *fakeDirectory) ListFollowerIDs(_ context.Context, followingID string) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	return append([]string(nil), d.followers[followingID]...), nil
}

// fakeStore keeps rows in memory and mimics the repository's ordering and scoping.
type fakeStore struct {
	mu        sync.Mutex
	rows      []*entity.Notification
	users     map[string]*entity.UserSummary
	nextID    uint64
	createErr error
	creates   int
}

func newFakeStore(users ...entity.UserSummary) *fakeStore {
	s := &fakeStore{users: map[string]*entity.UserSummary{}}
	for i := range users {
		u := users[i]
		s.users[u.ID] = &u
	}
	return s
}

func (s *fakeStore) CreateBatch(_ context.Context, notifications []*entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}
	for _, n := range notifications {
		s.nextID++
		n.ID = s.nextID
		stored := *n
		s.rows = append(s.rows, &stored)
	}
	return nil
}

func (s *fakeStore) snapshot(keep func(*entity.Notification) bool) []*entity.Notification {
	var out []*entity.Notification
	for _, row := range s.rows {
		if keep(row) {
			c := *row
			c.Recipient = s.users[c.RecipientID]
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *fakeStore) ListInbound(_ context.Context, recipientID string, notificationType *entity.NotificationType) ([]*entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(func(n *entity.Notification) bool {
		return n.RecipientID == recipientID && (notificationType == nil || n.Type == *notificationType)
	}), nil
}

func (s *fakeStore) ListSent(_ context.Context, senderID string) ([]*entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(func(n *entity.Notification) bool {
		return n.SenderID != nil && *n.SenderID == senderID
	}), nil
}

func (s *fakeStore) CountByBatch(_ context.Context, batchIDs []string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int64{}
	for _, id := range batchIDs {
		for _, row := range s.rows {
			if row.BatchID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (s *fakeStore) GetForRecipient(_ context.Context, id uint64, recipientID string) (*entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.ID == id && row.RecipientID == recipientID {
			c := *row
			return &c, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *fakeStore) MarkRead(_ context.Context, id uint64, recipientID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.ID == id && row.RecipientID == recipientID && !row.IsRead {
			row.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, row := range s.rows {
		if row.RecipientID == recipientID && !row.IsRead {
			row.IsRead = true
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CountUnread(_ context.Context, recipientID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, row := range s.rows {
		if row.RecipientID == recipientID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) byID(id uint64) *entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.ID == id {
			c := *row
			return &c
		}
	}
	return nil
}

// fakeCache mirrors the redis cache: a fill is dropped when an invalidation for the
// same user lands while it loads.
type fakeCache struct {
	counts      map[string]int64
	generations map[string]int
	invalidated []string
	loads       int
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: map[string]int64{}, generations: map[string]int{}}
}

func (c *fakeCache) GetOrLoad(ctx context.Context, userID string, load func(context.Context) (int64, error)) (int64, error) {
	if count, ok := c.counts[userID]; ok {
		return count, nil
	}
	for attempt := 0; attempt < 3; attempt++ {
		generation := c.generations[userID]
		c.loads++
		count, err := load(ctx)
		if err != nil {
			return 0, err
		}
		if c.generations[userID] == generation {
			c.counts[userID] = count
			return count, nil
		}
	}
	c.loads++
	return load(ctx)
}

func (c *fakeCache) Invalidate(_ context.Context, userIDs ...string) error {
	for _, id := range userIDs {
		delete(c.counts, id)
		c.generations[id]++
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

var (
	_ AudienceSource    = (*fakeDirectory)(nil)
	_ NotificationStore = (*fakeStore)(nil)
	_ UnreadCounter     = (*fakeCache)(nil)
)

// Fixed, well-formed user ids so personal pushes pass the id format check.
const (
	senderID = "00000000-0000-4000-8000-000000000001"
	userAID  = "00000000-0000-4000-8000-00000000000a"
	userBID  = "00000000-0000-4000-8000-00000000000b"
	userCID  = "00000000-0000-4000-8000-00000000000c"
	userDID  = "00000000-0000-4000-8000-00000000000d"
	ghostID  = "00000000-0000-4000-8000-0000000000ff"
)

func fiveUsers() []entity.UserSummary {
	return []entity.UserSummary{
		{ID: senderID, Username: "chef"},
		{ID: userAID, Username: "alice"},
		{ID: userBID, Username: "bob"},
		{ID: userCID, Username: "carol"},
		{ID: userDID, Username: "dave"},
	}
}
