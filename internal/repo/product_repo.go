package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/domain/model"
)

type ProductRepo interface {
	CreateProduct(ctx context.Context, p model.Product) (model.Product, error)

	GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error)

	ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error)

	ListOwnerProducts(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Product, error)

	ListProductsByCategory(ctx context.Context, category model.ProductCategory, limit, offset int) ([]model.Product, error)

	// SearchProducts matches the query against name and description,
	// case-insensitively.
	SearchProducts(ctx context.Context, query string, limit, offset int) ([]model.Product, error)

	UpdateProduct(ctx context.Context, p model.Product) error

	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateReview(ctx context.Context, r model.ProductReview) (model.ProductReview, error)

	GetReviewByID(ctx context.Context, id uuid.UUID) (model.ProductReview, error)

	ListProductReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.ProductReview, error)

	UpdateReview(ctx context.Context, r model.ProductReview) error

	DeleteReview(ctx context.Context, id uuid.UUID) error
}
