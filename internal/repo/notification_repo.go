package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/domain/model"
)

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n model.Notification, recipientIDs []uuid.UUID) (model.Notification, error)

	ListUnread(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error)

	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error
}

type ActivityRepo interface {
	CreateActivity(ctx context.Context, a model.Activity) error

	ListActivities(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Activity, error)
}
