package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/virsa-ai/virsa-engine/pkg/apperrors"
	"github.com/virsa-ai/virsa-engine/pkg/llm"
	"github.com/virsa-ai/virsa-engine/pkg/models"
	"github.com/virsa-ai/virsa-engine/pkg/repositories"
	"github.com/virsa-ai/virsa-engine/pkg/services"
)

// mockStoryService records the archive input and returns a fixed id.
type mockStoryService struct {
	archived *services.ArchiveStoryInput
	id       int64
	err      error
}

func (m *mockStoryService) ArchiveStory(ctx context.Context, input services.ArchiveStoryInput) (int64, error) {
	m.archived = &input
	return m.id, m.err
}

func (m *mockStoryService) GetStory(ctx context.Context, id int64) (*models.StoryDetail, error) {
	return nil, nil
}

func (m *mockStoryService) GetStorySummary(ctx context.Context, id int64) (*models.StorySummary, error) {
	return nil, nil
}

func (m *mockStoryService) ListStories(ctx context.Context) ([]*models.StoryListing, error) {
	return nil, nil
}

func (m *mockStoryService) ListPeople(ctx context.Context) ([]*models.PersonListing, error) {
	return nil, nil
}

func (m *mockStoryService) ListStoriesByTheme(ctx context.Context, themeName string) ([]*models.StoryListing, error) {
	return nil, nil
}

func (m *mockStoryService) ListTimelineEvents(ctx context.Context, storyID int64) ([]*models.TimelineEvent, error) {
	return nil, nil
}

func (m *mockStoryService) UpdateStory(ctx context.Context, id int64, fields repositories.StoryUpdate) (bool, error) {
	return false, nil
}

func (m *mockStoryService) DeleteStory(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func TestIngest_FullPipeline(t *testing.T) {
	provider := &llm.MockProvider{
		Responses: []string{
			"## Early Life\nAmar Singh was born in 1945 in Lahore.",
			"```json\n{\"person_info\": {\"name\": \"Amar Singh\", \"birth_year\": 1945}, \"themes\": [\"Partition\"]}\n```",
		},
	}
	stories := &mockStoryService{id: 42}
	pipeline := NewPipelineService(provider, stories, zap.NewNop())

	id, err := pipeline.Ingest(context.Background(), "raw transcript text", "")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Len(t, provider.Calls, 2)

	require.NotNil(t, stories.archived)
	assert.Equal(t, "raw transcript text", stories.archived.RawBody)
	assert.Contains(t, stories.archived.Narrative, "Early Life")
	require.NotNil(t, stories.archived.Document)
	require.NotNil(t, stories.archived.Document.PersonInfo)
	assert.Equal(t, "Amar Singh", *stories.archived.Document.PersonInfo.Name)
	assert.JSONEq(t,
		`{"person_info": {"name": "Amar Singh", "birth_year": 1945}, "themes": ["Partition"]}`,
		string(stories.archived.RawDocument))
}

func TestIngest_NoProvider(t *testing.T) {
	pipeline := NewPipelineService(nil, &mockStoryService{}, zap.NewNop())

	_, err := pipeline.Ingest(context.Background(), "transcript", "")
	assert.ErrorIs(t, err, apperrors.ErrAIUnavailable)
}

func TestIngest_ProviderError(t *testing.T) {
	provider := &llm.MockProvider{Err: errors.New("endpoint unreachable")}
	stories := &mockStoryService{}
	pipeline := NewPipelineService(provider, stories, zap.NewNop())

	_, err := pipeline.Ingest(context.Background(), "transcript", "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrExtractionFailed)
	assert.Nil(t, stories.archived)
}

func TestIngest_ExtractorReturnsProse(t *testing.T) {
	provider := &llm.MockProvider{
		Responses: []string{
			"A narrative.",
			"Sorry, I could not produce structured data for this transcript.",
		},
	}
	stories := &mockStoryService{}
	pipeline := NewPipelineService(provider, stories, zap.NewNop())

	_, err := pipeline.Ingest(context.Background(), "transcript", "")
	assert.ErrorIs(t, err, apperrors.ErrExtractionFailed)
	assert.Nil(t, stories.archived)
}
