package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
)

type ComplaintRepo struct {
	db *gorm.DB
}

func NewComplaintRepo(db *gorm.DB) *ComplaintRepo {
	return &ComplaintRepo{db: db}
}

func (p *ComplaintRepo) CreateComplaint(ctx context.Context, c model.Complaint) (model.Complaint, error) {
	res := p.db.WithContext(ctx).Create(&c)
	if err := res.Error; err != nil {
		return model.Complaint{}, customErrors.WrapInternal(err, "CreateComplaint")
	}
	return c, nil
}

func (p *ComplaintRepo) GetComplaintByID(ctx context.Context, id uuid.UUID) (model.Complaint, error) {
	var c model.Complaint
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&c)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Complaint{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Complaint{}, customErrors.WrapInternal(err, "GetComplaintByID")
	}

	return c, nil
}

func (p *ComplaintRepo) ListUserComplaints(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Complaint, error) {
	var out []model.Complaint
	res := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListUserComplaints")
	}
	return out, nil
}

func (p *ComplaintRepo) DeleteComplaint(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.Complaint{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteComplaint")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}
