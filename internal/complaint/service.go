package complaint

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

type Service struct {
	complaints repo.ComplaintRepo
	activities repo.ActivityRepo
	log        *zap.Logger
}

func NewService(complaints repo.ComplaintRepo, activities repo.ActivityRepo, log *zap.Logger) *Service {
	return &Service{complaints: complaints, activities: activities, log: log}
}

// Create files a complaint. The transaction reference is optional free text
// so users can complain about payments the system never recorded.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, transactionID *string, text string) (model.Complaint, error) {
	if strings.TrimSpace(text) == "" {
		return model.Complaint{}, customErrors.NewInvalidArgument("complaint text is required")
	}

	c, err := s.complaints.CreateComplaint(ctx, model.Complaint{
		ID:            uuid.New(),
		UserID:        userID,
		TransactionID: transactionID,
		Complaint:     text,
	})
	if err != nil {
		return model.Complaint{}, err
	}

	s.recordActivity(ctx, userID, fmt.Sprintf("filed complaint %s", c.ID), model.ActivityCreate)
	return c, nil
}

// List returns the user's complaints, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Complaint, error) {
	return s.complaints.ListUserComplaints(ctx, userID, limit, offset)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (model.Complaint, error) {
	c, err := s.complaints.GetComplaintByID(ctx, id)
	if err != nil {
		return model.Complaint{}, err
	}
	if c.UserID != userID {
		return model.Complaint{}, customErrors.ErrPermissionDenied
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.complaints.DeleteComplaint(ctx, id); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, fmt.Sprintf("deleted complaint %s", id), model.ActivityDelete)
	return nil
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
