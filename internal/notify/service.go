package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/domain/model"
	"github.com/mimipoint/backend/internal/repo"
)

// Service persists notifications and fans delivery out through the
// Dispatcher. Persisting and delivering are intentionally not atomic.
type Service struct {
	notifications repo.NotificationRepo
	users         repo.UserRepo
	dispatcher    *Dispatcher
}

func NewService(notifications repo.NotificationRepo, users repo.UserRepo, dispatcher *Dispatcher) *Service {
	return &Service{notifications: notifications, users: users, dispatcher: dispatcher}
}

type CreateNotification struct {
	SenderID     *uuid.UUID
	Title        string
	Message      string
	Link         *string
	Image        *string
	RecipientIDs []uuid.UUID
}

func (s *Service) Store(ctx context.Context, in CreateNotification) (model.Notification, error) {
	n := model.Notification{
		ID:        uuid.New(),
		SenderID:  in.SenderID,
		Title:     in.Title,
		Message:   in.Message,
		Link:      in.Link,
		Image:     in.Image,
		CreatedAt: time.Now(),
	}

	stored, err := s.notifications.CreateNotification(ctx, n, in.RecipientIDs)
	if err != nil {
		return model.Notification{}, err
	}

	// Push delivery happens after commit; a recipient without a device
	// token is simply skipped.
	for _, userID := range in.RecipientIDs {
		user, err := s.users.GetUserByID(ctx, userID)
		if err != nil || user.FCMToken == nil {
			continue
		}
		s.dispatcher.PushAsync(*user.FCMToken, in.Title, in.Message, in.Link)
	}

	return stored, nil
}

func (s *Service) ListUnread(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.notifications.ListUnread(ctx, userID, limit, offset)
}

func (s *Service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return s.notifications.MarkRead(ctx, notificationID, userID)
}
