// Package extraction runs the ingest pipeline: a raw transcript is organized
// into a narrative, decomposed into a structured extraction document, and
// archived. Audio transcription happens upstream; this package starts from
// text.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/virsa-ai/virsa-engine/pkg/apperrors"
	"github.com/virsa-ai/virsa-engine/pkg/llm"
	"github.com/virsa-ai/virsa-engine/pkg/models"
	"github.com/virsa-ai/virsa-engine/pkg/services"
)

// PipelineService turns raw transcripts into archived stories.
type PipelineService interface {
	// Ingest organizes and extracts the transcript, then archives the result
	// atomically. personName may be empty; the usual fallback chain applies.
	Ingest(ctx context.Context, transcript, personName string) (int64, error)
}

type pipelineService struct {
	provider llm.Provider
	stories  services.StoryService
	logger   *zap.Logger
}

// NewPipelineService creates the ingest pipeline. provider may be nil when no
// AI endpoint is configured; Ingest then fails and callers fall back to the
// import path.
func NewPipelineService(provider llm.Provider, stories services.StoryService, logger *zap.Logger) PipelineService {
	return &pipelineService{
		provider: provider,
		stories:  stories,
		logger:   logger,
	}
}

func (s *pipelineService) Ingest(ctx context.Context, transcript, personName string) (int64, error) {
	if s.provider == nil {
		return 0, apperrors.ErrAIUnavailable
	}

	narrative, err := s.organize(ctx, transcript)
	if err != nil {
		return 0, err
	}

	doc, rawDoc, err := s.extract(ctx, transcript)
	if err != nil {
		return 0, err
	}

	storyID, err := s.stories.ArchiveStory(ctx, services.ArchiveStoryInput{
		PersonName:  personName,
		RawBody:     transcript,
		Narrative:   narrative,
		Document:    doc,
		RawDocument: rawDoc,
	})
	if err != nil {
		return 0, err
	}

	return storyID, nil
}

// organize produces the sectioned biography from the transcript.
func (s *pipelineService) organize(ctx context.Context, transcript string) (string, error) {
	s.logger.Info("Organizing transcript", zap.Int("transcript_len", len(transcript)))

	narrative, err := s.provider.Complete(ctx, organizerSystemPrompt, fmt.Sprintf(organizerPromptTemplate, transcript))
	if err != nil {
		return "", fmt.Errorf("failed to organize narrative: %w", err)
	}

	return narrative, nil
}

// extract produces the structured document. The raw JSON is returned
// alongside the parsed form so the archive can keep a verbatim audit copy.
func (s *pipelineService) extract(ctx context.Context, transcript string) (*models.ExtractionDocument, json.RawMessage, error) {
	s.logger.Info("Extracting structured data", zap.Int("transcript_len", len(transcript)))

	response, err := s.provider.Complete(ctx, extractorSystemPrompt, fmt.Sprintf(extractorPromptTemplate, transcript))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract structured data: %w", err)
	}

	rawJSON, err := llm.ExtractJSON(response)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrExtractionFailed, err)
	}

	var doc models.ExtractionDocument
	if err := json.Unmarshal([]byte(rawJSON), &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrExtractionFailed, err)
	}

	return &doc, json.RawMessage(rawJSON), nil
}
