package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/virsa-ai/virsa-engine/pkg/database"
	"github.com/virsa-ai/virsa-engine/pkg/models"
	"github.com/virsa-ai/virsa-engine/pkg/repositories"
)

// FamilyService manages family tree members independently of the story write
// path. Members created here may be attached to a story or left global.
type FamilyService interface {
	Create(ctx context.Context, member *models.FamilyMember) error
	Get(ctx context.Context, id int64) (*models.FamilyMember, error)
	List(ctx context.Context) ([]*models.FamilyMember, error)
	ListByStory(ctx context.Context, storyID int64) ([]*models.FamilyMember, error)
	Update(ctx context.Context, id int64, fields repositories.FamilyMemberUpdate) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type familyService struct {
	db         *database.DB
	familyRepo repositories.FamilyMemberRepository
	logger     *zap.Logger
}

// NewFamilyService creates a new family service with dependencies.
func NewFamilyService(db *database.DB, familyRepo repositories.FamilyMemberRepository, logger *zap.Logger) FamilyService {
	return &familyService{
		db:         db,
		familyRepo: familyRepo,
		logger:     logger,
	}
}

func (s *familyService) Create(ctx context.Context, member *models.FamilyMember) error {
	if err := s.familyRepo.Create(ctx, s.db, member); err != nil {
		s.logger.Error("Failed to create family member", zap.String("name", member.Name), zap.Error(err))
		return err
	}
	return nil
}

func (s *familyService) Get(ctx context.Context, id int64) (*models.FamilyMember, error) {
	return s.familyRepo.GetByID(ctx, s.db, id)
}

func (s *familyService) List(ctx context.Context) ([]*models.FamilyMember, error) {
	return s.familyRepo.List(ctx, s.db)
}

func (s *familyService) ListByStory(ctx context.Context, storyID int64) ([]*models.FamilyMember, error) {
	return s.familyRepo.ListByStory(ctx, s.db, storyID)
}

func (s *familyService) Update(ctx context.Context, id int64, fields repositories.FamilyMemberUpdate) (bool, error) {
	updated, err := s.familyRepo.Update(ctx, s.db, id, fields)
	if err != nil {
		s.logger.Error("Failed to update family member", zap.Int64("member_id", id), zap.Error(err))
		return false, err
	}
	return updated, nil
}

func (s *familyService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.familyRepo.Delete(ctx, s.db, id)
	if err != nil {
		s.logger.Error("Failed to delete family member", zap.Int64("member_id", id), zap.Error(err))
		return false, err
	}
	return deleted, nil
}
