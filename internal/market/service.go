package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
	"github.com/mimipoint/backend/internal/repo"
)

var knownCategories = map[model.ProductCategory]bool{
	model.CategoryElectronics:    true,
	model.CategoryFashion:        true,
	model.CategoryHomeAppliances: true,
	model.CategoryBooks:          true,
	model.CategoryBeauty:         true,
	model.CategorySports:         true,
	model.CategoryGroceries:      true,
	model.CategoryToys:           true,
	model.CategoryAutomotive:     true,
	model.CategoryHealth:         true,
	model.CategoryPetSupplies:    true,
	model.CategoryBabyProducts:   true,
}

type Service struct {
	products   repo.ProductRepo
	activities repo.ActivityRepo
	log        *zap.Logger
}

func NewService(products repo.ProductRepo, activities repo.ActivityRepo, log *zap.Logger) *Service {
	return &Service{products: products, activities: activities, log: log}
}

func validateProduct(p model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return customErrors.NewInvalidArgument("product name is required")
	}
	if p.Price.IsNegative() {
		return customErrors.NewInvalidArgument("price cannot be negative")
	}
	if p.Quantity < 0 {
		return customErrors.NewInvalidArgument("quantity cannot be negative")
	}
	if p.Category != nil && !knownCategories[*p.Category] {
		return customErrors.NewInvalidArgument("unknown product category")
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	if err := validateProduct(p); err != nil {
		return model.Product{}, err
	}

	p.ID = uuid.New()
	created, err := s.products.CreateProduct(ctx, p)
	if err != nil {
		return model.Product{}, err
	}

	s.recordActivity(ctx, p.OwnerID, fmt.Sprintf("listed product %s", created.ID), model.ActivityCreate)
	return created, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return s.products.GetProductByID(ctx, id)
}

// ListProducts is the public storefront view, newest first.
func (s *Service) ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error) {
	return s.products.ListProducts(ctx, limit, offset)
}

func (s *Service) ListOwnerProducts(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Product, error) {
	return s.products.ListOwnerProducts(ctx, ownerID, limit, offset)
}

func (s *Service) ListByCategory(ctx context.Context, category model.ProductCategory, limit, offset int) ([]model.Product, error) {
	if !knownCategories[category] {
		return nil, customErrors.NewInvalidArgument("unknown product category")
	}
	return s.products.ListProductsByCategory(ctx, category, limit, offset)
}

// Search matches name and description case-insensitively. A blank query
// matches nothing rather than everything.
func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]model.Product, error) {
	if strings.TrimSpace(query) == "" {
		return []model.Product{}, nil
	}
	return s.products.SearchProducts(ctx, query, limit, offset)
}

// UpdateProduct replaces the listing's mutable fields. Only the owner may
// touch it.
func (s *Service) UpdateProduct(ctx context.Context, ownerID uuid.UUID, p model.Product) (model.Product, error) {
	existing, err := s.products.GetProductByID(ctx, p.ID)
	if err != nil {
		return model.Product{}, err
	}
	if existing.OwnerID != ownerID {
		return model.Product{}, customErrors.ErrPermissionDenied
	}
	if err := validateProduct(p); err != nil {
		return model.Product{}, err
	}

	p.OwnerID = existing.OwnerID
	p.CreatedAt = existing.CreatedAt
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error {
	existing, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return customErrors.ErrPermissionDenied
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.recordActivity(ctx, ownerID, fmt.Sprintf("deleted product %s", id), model.ActivityDelete)
	return nil
}

func (s *Service) CreateReview(ctx context.Context, userID, productID uuid.UUID, rating int, comment string) (model.ProductReview, error) {
	if rating < 1 || rating > 5 {
		return model.ProductReview{}, customErrors.NewInvalidArgument("rating must be between 1 and 5")
	}
	if _, err := s.products.GetProductByID(ctx, productID); err != nil {
		return model.ProductReview{}, err
	}

	return s.products.CreateReview(ctx, model.ProductReview{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	})
}

func (s *Service) ListReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.ProductReview, error) {
	return s.products.ListProductReviews(ctx, productID, limit, offset)
}

func (s *Service) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, rating int, comment string) (model.ProductReview, error) {
	if rating < 1 || rating > 5 {
		return model.ProductReview{}, customErrors.NewInvalidArgument("rating must be between 1 and 5")
	}
	existing, err := s.products.GetReviewByID(ctx, reviewID)
	if err != nil {
		return model.ProductReview{}, err
	}
	if existing.UserID != userID {
		return model.ProductReview{}, customErrors.ErrPermissionDenied
	}

	existing.Rating = rating
	existing.Comment = comment
	if err := s.products.UpdateReview(ctx, existing); err != nil {
		return model.ProductReview{}, err
	}
	return existing, nil
}

func (s *Service) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	existing, err := s.products.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return customErrors.ErrPermissionDenied
	}
	return s.products.DeleteReview(ctx, reviewID)
}

func (s *Service) recordActivity(ctx context.Context, userID uuid.UUID, description string, kind model.ActivityType) {
	a := model.Activity{
		ID:           uuid.New(),
		UserID:       userID,
		Description:  description,
		ActivityType: kind,
	}
	if err := s.activities.CreateActivity(ctx, a); err != nil {
		s.log.Warn("record activity", zap.Error(err))
	}
}
