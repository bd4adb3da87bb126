package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/virsa-ai/virsa-engine/pkg/database"
	"github.com/virsa-ai/virsa-engine/pkg/models"
	"github.com/virsa-ai/virsa-engine/pkg/repositories"
)

// defaultListLimit caps the library and by-theme listings.
const defaultListLimit = 100

// ArchiveStoryInput carries everything the transactional writer needs: the
// raw materials and the extraction document. Document may be nil or have any
// subset of its sections populated.
type ArchiveStoryInput struct {
	PersonName string
	RawBody    string
	Narrative  string
	Summary    *string
	Document   *models.ExtractionDocument
	// RawDocument, when set, is stored verbatim as the audit copy of the
	// extraction document. When nil, Document is serialized instead.
	RawDocument json.RawMessage
}

// StoryService is the core of the archive: the atomic write path that fans an
// extraction document out into the normalized tables, the read path that
// reassembles it, and the mutators.
type StoryService interface {
	ArchiveStory(ctx context.Context, input ArchiveStoryInput) (int64, error)
	GetStory(ctx context.Context, id int64) (*models.StoryDetail, error)
	GetStorySummary(ctx context.Context, id int64) (*models.StorySummary, error)
	ListStories(ctx context.Context) ([]*models.StoryListing, error)
	ListPeople(ctx context.Context) ([]*models.PersonListing, error)
	ListStoriesByTheme(ctx context.Context, themeName string) ([]*models.StoryListing, error)
	ListTimelineEvents(ctx context.Context, storyID int64) ([]*models.TimelineEvent, error)
	UpdateStory(ctx context.Context, id int64, fields repositories.StoryUpdate) (bool, error)
	DeleteStory(ctx context.Context, id int64) (bool, error)
}

type storyService struct {
	db         *database.DB
	storyRepo  repositories.StoryRepository
	themeRepo  repositories.ThemeRepository
	familyRepo repositories.FamilyMemberRepository
	logger     *zap.Logger
}

// NewStoryService creates a new story service with dependencies.
func NewStoryService(
	db *database.DB,
	storyRepo repositories.StoryRepository,
	themeRepo repositories.ThemeRepository,
	familyRepo repositories.FamilyMemberRepository,
	logger *zap.Logger,
) StoryService {
	return &storyService{
		db:         db,
		storyRepo:  storyRepo,
		themeRepo:  themeRepo,
		familyRepo: familyRepo,
		logger:     logger,
	}
}

// ArchiveStory writes the story root and every derived child record in one
// transaction: either all rows land, or none do.
//
// Two concurrent writers can race on creating the same theme name. The unique
// constraint on themes(name) makes the loser fail with a unique violation,
// which aborts its transaction, so recovery is retrying the whole write once;
// on the retry the winner's committed row is found and reused.
func (s *storyService) ArchiveStory(ctx context.Context, input ArchiveStoryInput) (int64, error) {
	doc := input.Document
	if doc == nil {
		doc = &models.ExtractionDocument{}
	}
	doc.Normalize()

	rawDoc := input.RawDocument
	if rawDoc == nil && input.Document != nil {
		serialized, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize extraction document: %w", err)
		}
		rawDoc = serialized
	}

	var storyID int64
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		storyID, err = s.archiveOnce(ctx, input, doc, rawDoc)
		if err == nil {
			return storyID, nil
		}
		if !database.IsUniqueViolation(err) {
			break
		}
		s.logger.Warn("Theme vocabulary race detected, retrying write",
			zap.String("person_name", doc.ResolvePersonName(input.PersonName)),
			zap.Int("attempt", attempt+1))
	}

	s.logger.Error("Failed to archive story", zap.Error(err))
	return 0, fmt.Errorf("failed to archive story: %w", err)
}

func (s *storyService) archiveOnce(ctx context.Context, input ArchiveStoryInput, doc *models.ExtractionDocument, rawDoc json.RawMessage) (_ int64, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	summary := input.Summary
	if summary == nil {
		summary = doc.Summary
	}

	story := &models.Story{
		PersonName:    doc.ResolvePersonName(input.PersonName),
		RawBody:       input.RawBody,
		Narrative:     input.Narrative,
		Summary:       summary,
		ExtractedData: rawDoc,
	}
	if err = s.storyRepo.Insert(ctx, tx, story); err != nil {
		return 0, err
	}

	if doc.PersonInfo != nil {
		person := &models.Person{
			StoryID:    story.ID,
			Name:       doc.PersonInfo.Name,
			BirthYear:  doc.PersonInfo.BirthYear,
			BirthPlace: doc.PersonInfo.BirthPlace,
			DeathYear:  doc.PersonInfo.DeathYear,
		}
		if err = s.storyRepo.InsertPerson(ctx, tx, person); err != nil {
			return 0, err
		}
	}

	// Input order is preserved; it becomes the creation-order tiebreaker
	// the reader relies on.
	for _, entry := range doc.TimelineEvents {
		event := &models.TimelineEvent{
			StoryID:     story.ID,
			Year:        entry.Year,
			Event:       entry.Event,
			Description: entry.Description,
			Location:    entry.Location,
			Category:    entry.Category,
		}
		if err = s.storyRepo.InsertTimelineEvent(ctx, tx, event); err != nil {
			return 0, err
		}
	}

	for _, entry := range doc.FamilyMembers {
		member := &models.FamilyMember{
			StoryID:      &story.ID,
			Name:         entry.Name,
			Relationship: entry.Relationship,
			BirthYear:    entry.BirthYear,
			DeathYear:    entry.DeathYear,
			Notes:        entry.Notes,
		}
		if err = s.familyRepo.Create(ctx, tx, member); err != nil {
			return 0, err
		}
	}

	for _, entry := range doc.Locations {
		location := &models.Location{
			StoryID:   story.ID,
			Place:     entry.Place,
			StartYear: entry.StartYear,
			EndYear:   entry.EndYear,
			Purpose:   entry.Purpose,
		}
		if err = s.storyRepo.InsertLocation(ctx, tx, location); err != nil {
			return 0, err
		}
	}

	for _, entry := range doc.Occupations {
		occupation := &models.Occupation{
			StoryID:   story.ID,
			Role:      entry.Role,
			StartYear: entry.StartYear,
			EndYear:   entry.EndYear,
			Location:  entry.Location,
		}
		if err = s.storyRepo.InsertOccupation(ctx, tx, occupation); err != nil {
			return 0, err
		}
	}

	for _, name := range doc.Themes {
		var themeID int64
		if themeID, err = s.themeRepo.Ensure(ctx, tx, name); err != nil {
			return 0, err
		}
		if err = s.themeRepo.LinkToStory(ctx, tx, story.ID, themeID); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Archived story",
		zap.Int64("story_id", story.ID),
		zap.String("person_name", story.PersonName),
		zap.Int("timeline_events", len(doc.TimelineEvents)),
		zap.Int("themes", len(doc.Themes)))

	return story.ID, nil
}

// GetStory reassembles the full nested story. Returns nil, nil when the id
// does not exist; child collections are always non-nil.
func (s *storyService) GetStory(ctx context.Context, id int64) (*models.StoryDetail, error) {
	story, err := s.storyRepo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, nil
	}

	detail := &models.StoryDetail{Story: *story}

	if detail.Person, err = s.storyRepo.GetPerson(ctx, s.db, id); err != nil {
		return nil, err
	}
	if detail.TimelineEvents, err = s.storyRepo.ListTimelineEvents(ctx, s.db, id); err != nil {
		return nil, err
	}
	if detail.FamilyMembers, err = s.familyRepo.ListByStory(ctx, s.db, id); err != nil {
		return nil, err
	}
	if detail.Locations, err = s.storyRepo.ListLocations(ctx, s.db, id); err != nil {
		return nil, err
	}
	if detail.Occupations, err = s.storyRepo.ListOccupations(ctx, s.db, id); err != nil {
		return nil, err
	}
	if detail.Themes, err = s.themeRepo.ListByStory(ctx, s.db, id); err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *storyService) GetStorySummary(ctx context.Context, id int64) (*models.StorySummary, error) {
	return s.storyRepo.GetSummary(ctx, s.db, id)
}

func (s *storyService) ListStories(ctx context.Context) ([]*models.StoryListing, error) {
	return s.storyRepo.List(ctx, s.db, defaultListLimit)
}

func (s *storyService) ListPeople(ctx context.Context) ([]*models.PersonListing, error) {
	return s.storyRepo.ListPeople(ctx, s.db)
}

func (s *storyService) ListStoriesByTheme(ctx context.Context, themeName string) ([]*models.StoryListing, error) {
	return s.storyRepo.ListByTheme(ctx, s.db, themeName, defaultListLimit)
}

func (s *storyService) ListTimelineEvents(ctx context.Context, storyID int64) ([]*models.TimelineEvent, error) {
	return s.storyRepo.ListTimelineEvents(ctx, s.db, storyID)
}

// UpdateStory applies a partial update. Returns false both when no fields
// were supplied and when the id does not exist; neither is an error.
func (s *storyService) UpdateStory(ctx context.Context, id int64, fields repositories.StoryUpdate) (bool, error) {
	updated, err := s.storyRepo.Update(ctx, s.db, id, fields)
	if err != nil {
		s.logger.Error("Failed to update story", zap.Int64("story_id", id), zap.Error(err))
		return false, err
	}
	return updated, nil
}

// DeleteStory removes the story; the schema cascades to every owned child
// row. Deleting a nonexistent id reports false, not an error.
func (s *storyService) DeleteStory(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.storyRepo.Delete(ctx, s.db, id)
	if err != nil {
		s.logger.Error("Failed to delete story", zap.Int64("story_id", id), zap.Error(err))
		return false, err
	}
	if deleted {
		s.logger.Info("Deleted story", zap.Int64("story_id", id))
	}
	return deleted, nil
}
