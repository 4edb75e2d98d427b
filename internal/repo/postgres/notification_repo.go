package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
)

type NotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (p *NotificationRepo) CreateNotification(ctx context.Context, n model.Notification, recipientIDs []uuid.UUID) (model.Notification, error) {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&n).Error; err != nil {
			return err
		}
		for _, userID := range recipientIDs {
			rec := model.NotificationRecipient{
				NotificationID: n.ID,
				UserID:         userID,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Notification{}, customErrors.WrapInternal(err, "CreateNotification")
	}
	return n, nil
}

func (p *NotificationRepo) ListUnread(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	var notifications []model.Notification
	res := p.db.WithContext(ctx).
		Joins("JOIN notification_recipients nr ON nr.notification_id = notifications.id").
		Where("nr.user_id = ? AND nr.is_read = FALSE", userID).
		Order("notifications.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListUnread")
	}
	return notifications, nil
}

func (p *NotificationRepo) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	res := p.db.WithContext(ctx).
		Model(&model.NotificationRecipient{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "MarkRead")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

type ActivityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (p *ActivityRepo) CreateActivity(ctx context.Context, a model.Activity) error {
	if err := p.db.WithContext(ctx).Create(&a).Error; err != nil {
		return customErrors.WrapInternal(err, "CreateActivity")
	}
	return nil
}

func (p *ActivityRepo) ListActivities(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Activity, error) {
	var activities []model.Activity
	res := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&activities)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListActivities")
	}
	return activities, nil
}
