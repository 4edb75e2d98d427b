package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/domain/model"
)

type PlanRepo interface {
	CreatePlan(ctx context.Context, p model.Plan) (model.Plan, error)

	GetPlanByID(ctx context.Context, id uuid.UUID) (model.Plan, error)

	ListPlans(ctx context.Context, limit, offset int) ([]model.Plan, error)

	UpdatePlan(ctx context.Context, p model.Plan) error

	DeletePlan(ctx context.Context, id uuid.UUID) error
}

type SubscriptionRepo interface {
	CreateSubscription(ctx context.Context, s model.Subscription) (model.Subscription, error)

	GetSubscriptionByID(ctx context.Context, id uuid.UUID) (model.Subscription, error)

	GetSubscriptionByUserID(ctx context.Context, userID uuid.UUID) (model.Subscription, error)

	ListSubscriptions(ctx context.Context, limit, offset int) ([]model.Subscription, error)

	UpdateSubscription(ctx context.Context, s model.Subscription) error

	DeleteSubscription(ctx context.Context, id uuid.UUID) error
}
