package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-share/services/notification/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// NotificationWriter persists one fan-out batch atomically.
type NotificationWriter interface {
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error
}

type PushInput struct {
	Message          string `validate:"required,max=255"`
	URL              string `validate:"omitempty,max=200,http_url"`
	NotificationType string `validate:"required,oneof=global followers personal"`
	RecipientID      string
}

type FanoutEngine struct {
	audience   AudienceSource
	writer     NotificationWriter
	validate   *validator.Validate
	now        func() time.Time
	newBatchID func() string
}

func NewFanoutEngine(audience AudienceSource, writer NotificationWriter) *FanoutEngine {
	return &FanoutEngine{
		audience:   audience,
		writer:     writer,
		validate:   validator.New(),
		now:        time.Now,
		newBatchID: func() string { return uuid.New().String() },
	}
}

// Push expands one push into per-recipient rows. Every row of a push shares one
// timestamp and one batch id; the rows are written all-or-nothing.
func (e *FanoutEngine) Push(ctx context.Context, senderID string, in PushInput) ([]*entity.Notification, error) {
	in.Message = strings.TrimSpace(in.Message)
	in.URL = strings.TrimSpace(in.URL)
	if err := e.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrInvalidRequest, describeValidation(err))
	}

	notificationType, err := entity.ParseNotificationType(in.NotificationType)
	if err != nil {
		return nil, err
	}

	sender, err := e.audience.FindUser(ctx, senderID)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: sender %s does not exist", entity.ErrInvalidRequest, senderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up sender %s: %w", senderID, err)
	}

	recipients, err := ResolveAudience(ctx, e.audience, notificationType, sender.ID, in.RecipientID)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return []*entity.Notification{}, nil
	}

	createdAt := e.now().UTC().Truncate(time.Microsecond)
	batchID := e.newBatchID()
	senderRef := sender.ID

	notifications := make([]*entity.Notification, len(recipients))
	for i, recipientID := range recipients {
		notifications[i] = &entity.Notification{
			BatchID:     batchID,
			SenderID:    &senderRef,
			Sender:      sender,
			RecipientID: recipientID,
			Message:     in.Message,
			URL:         in.URL,
			Type:        notificationType,
			CreatedAt:   createdAt,
		}
	}

	if err := e.writer.CreateBatch(ctx, notifications); err != nil {
		return nil, fmt.Errorf("failed to store fan-out batch %s: %w", batchID, err)
	}
	return notifications, nil
}

func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := fieldNames[fe.Field()]
		switch fe.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "http_url":
			messages = append(messages, field+" must be an absolute http(s) URL")
		case "oneof":
			messages = append(messages, field+" must be one of: global, followers, personal")
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}

var fieldNames = map[string]string{
	"Message":          "message",
	"URL":              "url",
	"NotificationType": "notification_type",
	"RecipientID":      "recipient",
}
