package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-share/services/notification/internal/entity"

	"github.com/google/uuid"
)

// AudienceSource is the slice of the user directory the resolver needs.
type AudienceSource interface {
	FindUser(ctx context.Context, userID string) (*entity.UserSummary, error)
	ListUserIDs(ctx context.Context, excludeID string) ([]string, error)
	ListFollowerIDs(ctx context.Context, followingID string) ([]string, error)
}

// ResolveAudience returns the recipients of a push in a stable order. It never writes.
func ResolveAudience(ctx context.Context, src AudienceSource, notificationType entity.NotificationType, senderID, recipientHint string) ([]string, error) {
	switch notificationType {
	case entity.TypeGlobal:
		ids, err := src.ListUserIDs(ctx, senderID)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return uniqueExcept(ids, senderID), nil

	case entity.TypeFollowers:
		ids, err := src.ListFollowerIDs(ctx, senderID)
		if err != nil {
			return nil, fmt.Errorf("failed to list followers of %s: %w", senderID, err)
		}
		return uniqueExcept(ids, senderID), nil

	case entity.TypePersonal:
		hint := strings.TrimSpace(recipientHint)
		if hint == "" {
			return nil, fmt.Errorf("%w: recipient is required for personal notifications", entity.ErrInvalidRequest)
		}
		if _, err := uuid.Parse(hint); err != nil {
			return nil, fmt.Errorf("%w: recipient must be a valid user id", entity.ErrInvalidRequest)
		}
		user, err := src.FindUser(ctx, hint)
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", entity.ErrRecipientNotFound, hint)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up recipient %s: %w", hint, err)
		}
		return []string{user.ID}, nil
	}

	return nil, fmt.Errorf("%w: invalid notification type %q", entity.ErrInvalidRequest, string(notificationType))
}

func uniqueExcept(ids []string, exclude string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == exclude {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
