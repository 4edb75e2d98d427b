package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
)

type PlanRepo struct {
	db *gorm.DB
}

func NewPlanRepo(db *gorm.DB) *PlanRepo {
	return &PlanRepo{db: db}
}

func (p *PlanRepo) CreatePlan(ctx context.Context, plan model.Plan) (model.Plan, error) {
	if err := p.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return model.Plan{}, customErrors.WrapInternal(err, "CreatePlan")
	}
	return plan, nil
}

func (p *PlanRepo) GetPlanByID(ctx context.Context, id uuid.UUID) (model.Plan, error) {
	var plan model.Plan
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&plan)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Plan{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Plan{}, customErrors.WrapInternal(err, "GetPlanByID")
	}

	return plan, nil
}

func (p *PlanRepo) ListPlans(ctx context.Context, limit, offset int) ([]model.Plan, error) {
	var plans []model.Plan
	res := p.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&plans)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListPlans")
	}
	return plans, nil
}

func (p *PlanRepo) UpdatePlan(ctx context.Context, plan model.Plan) error {
	res := p.db.WithContext(ctx).Save(&plan)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdatePlan")
	}

	return nil
}

func (p *PlanRepo) DeletePlan(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.Plan{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeletePlan")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

type SubscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

func (p *SubscriptionRepo) CreateSubscription(ctx context.Context, s model.Subscription) (model.Subscription, error) {
	res := p.db.WithContext(ctx).Create(&s)
	if err := res.Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.Subscription{}, customErrors.ErrAlreadyExists
		}
		return model.Subscription{}, customErrors.WrapInternal(err, "CreateSubscription")
	}
	return s, nil
}

func (p *SubscriptionRepo) GetSubscriptionByID(ctx context.Context, id uuid.UUID) (model.Subscription, error) {
	var s model.Subscription
	res := p.db.WithContext(ctx).Preload("Plan").Where("id = ?", id).First(&s)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Subscription{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Subscription{}, customErrors.WrapInternal(err, "GetSubscriptionByID")
	}

	return s, nil
}

func (p *SubscriptionRepo) GetSubscriptionByUserID(ctx context.Context, userID uuid.UUID) (model.Subscription, error) {
	var s model.Subscription
	res := p.db.WithContext(ctx).Preload("Plan").Where("user_id = ?", userID).First(&s)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Subscription{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Subscription{}, customErrors.WrapInternal(err, "GetSubscriptionByUserID")
	}

	return s, nil
}

func (p *SubscriptionRepo) ListSubscriptions(ctx context.Context, limit, offset int) ([]model.Subscription, error) {
	var subs []model.Subscription
	res := p.db.WithContext(ctx).
		Preload("Plan").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&subs)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListSubscriptions")
	}
	return subs, nil
}

func (p *SubscriptionRepo) UpdateSubscription(ctx context.Context, s model.Subscription) error {
	s.Plan = nil
	res := p.db.WithContext(ctx).Save(&s)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateSubscription")
	}

	return nil
}

func (p *SubscriptionRepo) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.Subscription{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteSubscription")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}
