package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/domain/model"
)

type ComplaintRepo interface {
	CreateComplaint(ctx context.Context, c model.Complaint) (model.Complaint, error)

	GetComplaintByID(ctx context.Context, id uuid.UUID) (model.Complaint, error)

	ListUserComplaints(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Complaint, error)

	DeleteComplaint(ctx context.Context, id uuid.UUID) error
}
