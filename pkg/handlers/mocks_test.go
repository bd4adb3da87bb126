package handlers

import (
	"context"

	"github.com/virsa-ai/virsa-engine/pkg/models"
	"github.com/virsa-ai/virsa-engine/pkg/repositories"
	"github.com/virsa-ai/virsa-engine/pkg/services"
)

// mockStoryService is a configurable mock for all handler tests.
type mockStoryService struct {
	archivedInput *services.ArchiveStoryInput
	archivedID    int64
	story         *models.StoryDetail
	summary       *models.StorySummary
	listings      []*models.StoryListing
	people        []*models.PersonListing
	events        []*models.TimelineEvent
	updated       bool
	deleted       bool
	err           error
}

func (m *mockStoryService) ArchiveStory(ctx context.Context, input services.ArchiveStoryInput) (int64, error) {
	m.archivedInput = &input
	if m.err != nil {
		return 0, m.err
	}
	return m.archivedID, nil
}

func (m *mockStoryService) GetStory(ctx context.Context, id int64) (*models.StoryDetail, error) {
	return m.story, m.err
}

func (m *mockStoryService) GetStorySummary(ctx context.Context, id int64) (*models.StorySummary, error) {
	return m.summary, m.err
}

func (m *mockStoryService) ListStories(ctx context.Context) ([]*models.StoryListing, error) {
	return m.listings, m.err
}

func (m *mockStoryService) ListPeople(ctx context.Context) ([]*models.PersonListing, error) {
	return m.people, m.err
}

func (m *mockStoryService) ListStoriesByTheme(ctx context.Context, themeName string) ([]*models.StoryListing, error) {
	return m.listings, m.err
}

func (m *mockStoryService) ListTimelineEvents(ctx context.Context, storyID int64) ([]*models.TimelineEvent, error) {
	return m.events, m.err
}

func (m *mockStoryService) UpdateStory(ctx context.Context, id int64, fields repositories.StoryUpdate) (bool, error) {
	return m.updated, m.err
}

func (m *mockStoryService) DeleteStory(ctx context.Context, id int64) (bool, error) {
	return m.deleted, m.err
}

// mockPipeline is a configurable ingest pipeline mock.
type mockPipeline struct {
	transcript string
	personName string
	id         int64
	err        error
}

func (m *mockPipeline) Ingest(ctx context.Context, transcript, personName string) (int64, error) {
	m.transcript = transcript
	m.personName = personName
	if m.err != nil {
		return 0, m.err
	}
	return m.id, nil
}

// mockFamilyService is a configurable mock for family handler tests.
type mockFamilyService struct {
	created *models.FamilyMember
	member  *models.FamilyMember
	members []*models.FamilyMember
	updated bool
	deleted bool
	err     error
}

func (m *mockFamilyService) Create(ctx context.Context, member *models.FamilyMember) error {
	m.created = member
	if m.err != nil {
		return m.err
	}
	member.ID = 1
	return nil
}

func (m *mockFamilyService) Get(ctx context.Context, id int64) (*models.FamilyMember, error) {
	return m.member, m.err
}

func (m *mockFamilyService) List(ctx context.Context) ([]*models.FamilyMember, error) {
	return m.members, m.err
}

func (m *mockFamilyService) ListByStory(ctx context.Context, storyID int64) ([]*models.FamilyMember, error) {
	return m.members, m.err
}

func (m *mockFamilyService) Update(ctx context.Context, id int64, fields repositories.FamilyMemberUpdate) (bool, error) {
	return m.updated, m.err
}

func (m *mockFamilyService) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleted, m.err
}
