package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
)

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (p *ProductRepo) CreateProduct(ctx context.Context, prod model.Product) (model.Product, error) {
	res := p.db.WithContext(ctx).Create(&prod)
	if err := res.Error; err != nil {
		return model.Product{}, customErrors.WrapInternal(err, "CreateProduct")
	}
	return prod, nil
}

func (p *ProductRepo) GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	var prod model.Product
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&prod)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Product{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Product{}, customErrors.WrapInternal(err, "GetProductByID")
	}

	return prod, nil
}

func (p *ProductRepo) ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error) {
	var out []model.Product
	res := p.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListProducts")
	}
	return out, nil
}

func (p *ProductRepo) ListOwnerProducts(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Product, error) {
	var out []model.Product
	res := p.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListOwnerProducts")
	}
	return out, nil
}

func (p *ProductRepo) ListProductsByCategory(ctx context.Context, category model.ProductCategory, limit, offset int) ([]model.Product, error) {
	var out []model.Product
	res := p.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListProductsByCategory")
	}
	return out, nil
}

func (p *ProductRepo) SearchProducts(ctx context.Context, query string, limit, offset int) ([]model.Product, error) {
	var out []model.Product
	pattern := "%" + query + "%"
	res := p.db.WithContext(ctx).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "SearchProducts")
	}
	return out, nil
}

func (p *ProductRepo) UpdateProduct(ctx context.Context, prod model.Product) error {
	res := p.db.WithContext(ctx).Save(&prod)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateProduct")
	}

	return nil
}

func (p *ProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.Product{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteProduct")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

func (p *ProductRepo) CreateReview(ctx context.Context, r model.ProductReview) (model.ProductReview, error) {
	res := p.db.WithContext(ctx).Create(&r)
	if err := res.Error; err != nil {
		return model.ProductReview{}, customErrors.WrapInternal(err, "CreateReview")
	}
	return r, nil
}

func (p *ProductRepo) GetReviewByID(ctx context.Context, id uuid.UUID) (model.ProductReview, error) {
	var r model.ProductReview
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&r)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.ProductReview{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.ProductReview{}, customErrors.WrapInternal(err, "GetReviewByID")
	}

	return r, nil
}

func (p *ProductRepo) ListProductReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.ProductReview, error) {
	var out []model.ProductReview
	res := p.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListProductReviews")
	}
	return out, nil
}

func (p *ProductRepo) UpdateReview(ctx context.Context, r model.ProductReview) error {
	res := p.db.WithContext(ctx).Save(&r)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateReview")
	}

	return nil
}

func (p *ProductRepo) DeleteReview(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.ProductReview{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteReview")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}
