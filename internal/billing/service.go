package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
	"github.com/mimipoint/backend/internal/repo"
	"github.com/mimipoint/backend/internal/wallet"
)

type Service struct {
	plans         repo.PlanRepo
	subscriptions repo.SubscriptionRepo
	wallets       *wallet.Service
	log           *zap.Logger
}

func NewService(plans repo.PlanRepo, subscriptions repo.SubscriptionRepo, wallets *wallet.Service, log *zap.Logger) *Service {
	return &Service{plans: plans, subscriptions: subscriptions, wallets: wallets, log: log}
}

func cycleDuration(cycle model.BillingCycle) time.Duration {
	if cycle == model.CycleAnnually {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

func (s *Service) CreatePlan(ctx context.Context, p model.Plan) (model.Plan, error) {
	if p.Name == "" {
		return model.Plan{}, customErrors.NewInvalidArgument("plan name is required")
	}
	if p.Price.IsNegative() {
		return model.Plan{}, customErrors.NewInvalidArgument("price cannot be negative")
	}
	p.ID = uuid.New()
	return s.plans.CreatePlan(ctx, p)
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (model.Plan, error) {
	return s.plans.GetPlanByID(ctx, id)
}

func (s *Service) ListPlans(ctx context.Context, limit, offset int) ([]model.Plan, error) {
	return s.plans.ListPlans(ctx, limit, offset)
}

func (s *Service) UpdatePlan(ctx context.Context, p model.Plan) error {
	if _, err := s.plans.GetPlanByID(ctx, p.ID); err != nil {
		return err
	}
	return s.plans.UpdatePlan(ctx, p)
}

func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return s.plans.DeletePlan(ctx, id)
}

// Subscribe charges the plan price to the wallet and installs the
// subscription. A user holds at most one subscription; subscribing again
// replaces whatever was active, with no proration of remaining time.
func (s *Service) Subscribe(ctx context.Context, userID, planID, walletID uuid.UUID) (model.Subscription, error) {
	plan, err := s.plans.GetPlanByID(ctx, planID)
	if err != nil {
		return model.Subscription{}, err
	}

	if _, err := s.wallets.Withdraw(ctx, userID, walletID, plan.Price, model.TxSubscription); err != nil {
		return model.Subscription{}, err
	}

	existing, err := s.subscriptions.GetSubscriptionByUserID(ctx, userID)
	switch {
	case err == nil:
		if err := s.subscriptions.DeleteSubscription(ctx, existing.ID); err != nil {
			return model.Subscription{}, err
		}
	case !customErrors.IsNotFound(err):
		return model.Subscription{}, err
	}

	now := time.Now()
	return s.subscriptions.CreateSubscription(ctx, model.Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    plan.ID,
		Status:    model.SubscriptionActive,
		StartDate: now,
		EndDate:   now.Add(cycleDuration(plan.BillingCycle)),
	})
}

// Renew charges another cycle and re-anchors the end date at now rather
// than extending from the previous end date.
func (s *Service) Renew(ctx context.Context, userID, walletID uuid.UUID) (model.Subscription, error) {
	sub, err := s.subscriptions.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return model.Subscription{}, err
	}

	plan, err := s.plans.GetPlanByID(ctx, sub.PlanID)
	if err != nil {
		return model.Subscription{}, err
	}

	if _, err := s.wallets.Withdraw(ctx, userID, walletID, plan.Price, model.TxSubscription); err != nil {
		return model.Subscription{}, err
	}

	now := time.Now()
	sub.Status = model.SubscriptionActive
	sub.StartDate = now
	sub.EndDate = now.Add(cycleDuration(plan.BillingCycle))
	if err := s.subscriptions.UpdateSubscription(ctx, sub); err != nil {
		return model.Subscription{}, err
	}
	return sub, nil
}

func (s *Service) ChangePlan(ctx context.Context, userID, planID, walletID uuid.UUID) (model.Subscription, error) {
	if _, err := s.subscriptions.GetSubscriptionByUserID(ctx, userID); err != nil {
		return model.Subscription{}, err
	}
	return s.Subscribe(ctx, userID, planID, walletID)
}

func (s *Service) Cancel(ctx context.Context, userID uuid.UUID) error {
	sub, err := s.subscriptions.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return err
	}
	sub.Status = model.SubscriptionInactive
	return s.subscriptions.UpdateSubscription(ctx, sub)
}

// Current reports the user's subscription, marking it expired once the end
// date has passed.
func (s *Service) Current(ctx context.Context, userID uuid.UUID) (model.Subscription, error) {
	sub, err := s.subscriptions.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return model.Subscription{}, err
	}
	if sub.Status == model.SubscriptionActive && time.Now().After(sub.EndDate) {
		sub.Status = model.SubscriptionExpired
		if err := s.subscriptions.UpdateSubscription(ctx, sub); err != nil {
			s.log.Warn("mark subscription expired", zap.Error(err))
		}
	}
	return sub, nil
}
