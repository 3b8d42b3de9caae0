package usecase

import (
	"context"
	"fmt"

	"recipe-share/services/notification/internal/entity"
)

type NotificationReader interface {
	ListInbound(ctx context.Context, recipientID string, notificationType *entity.NotificationType) ([]*entity.Notification, error)
	ListSent(ctx context.Context, senderID string) ([]*entity.Notification, error)
	CountByBatch(ctx context.Context, batchIDs []string) (map[string]int64, error)
}

type QueryService struct {
	reader NotificationReader
}

func NewQueryService(reader NotificationReader) *QueryService {
	return &QueryService{reader: reader}
}

// Inbound lists what recipientID received, newest first. A nil type means all types.
func (q *QueryService) Inbound(ctx context.Context, recipientID string, notificationType *entity.NotificationType) ([]entity.InboundView, error) {
	notifications, err := q.reader.ListInbound(ctx, recipientID, notificationType)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return ToInboundViews(notifications), nil
}

// Sent lists every row senderID issued, newest first, with broadcast recipients
// collapsed into a count.
func (q *QueryService) Sent(ctx context.Context, senderID string) ([]entity.SentView, error) {
	notifications, err := q.reader.ListSent(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent notifications: %w", err)
	}

	var batchIDs []string
	seen := make(map[string]struct{})
	for _, n := range notifications {
		if !n.Type.IsBroadcast() {
			continue
		}
		if _, ok := seen[n.BatchID]; !ok {
			seen[n.BatchID] = struct{}{}
			batchIDs = append(batchIDs, n.BatchID)
		}
	}

	counts, err := q.reader.CountByBatch(ctx, batchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count recipients: %w", err)
	}

	views := make([]entity.SentView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, ToSentView(n, counts))
	}
	return views, nil
}

func ToInboundView(n *entity.Notification) entity.InboundView {
	return entity.InboundView{
		ID:               n.ID,
		Sender:           n.Sender,
		Message:          n.Message,
		URL:              optionalURL(n.URL),
		NotificationType: n.Type,
		CreatedAt:        n.CreatedAt,
		IsRead:           n.IsRead,
	}
}

func ToInboundViews(notifications []*entity.Notification) []entity.InboundView {
	views := make([]entity.InboundView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, ToInboundView(n))
	}
	return views
}

func ToSentView(n *entity.Notification, batchCounts map[string]int64) entity.SentView {
	view := entity.SentView{
		ID:               n.ID,
		Sender:           n.Sender,
		Message:          n.Message,
		URL:              optionalURL(n.URL),
		NotificationType: n.Type,
		CreatedAt:        n.CreatedAt,
		IsRead:           n.IsRead,
	}

	if n.Type.IsBroadcast() {
		view.RecipientCount = batchCounts[n.BatchID]
	} else {
		view.Recipient = n.Recipient
		view.RecipientCount = 1
	}
	return view
}

func optionalURL(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}
