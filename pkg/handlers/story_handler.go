package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/virsa-ai/virsa-engine/pkg/apperrors"
	"github.com/virsa-ai/virsa-engine/pkg/extraction"
	"github.com/virsa-ai/virsa-engine/pkg/models"
	"github.com/virsa-ai/virsa-engine/pkg/repositories"
	"github.com/virsa-ai/virsa-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// IngestStoryRequest for POST /api/stories
type IngestStoryRequest struct {
	Transcript string `json:"transcript"`
	PersonName string `json:"person_name,omitempty"`
}

// ImportStoryRequest for POST /api/stories/import. ExtractedData is the
// pre-built extraction document, stored verbatim and fanned out into the
// child tables.
type ImportStoryRequest struct {
	PersonName    string          `json:"person_name,omitempty"`
	RawBody       string          `json:"raw_body"`
	Narrative     string          `json:"story"`
	Summary       *string         `json:"summary,omitempty"`
	ExtractedData json.RawMessage `json:"extracted_data,omitempty"`
}

// UpdateStoryRequest for PATCH /api/stories/{id}. Every field is optional;
// only supplied fields are updated.
type UpdateStoryRequest struct {
	PersonName *string `json:"person_name"`
	RawBody    *string `json:"raw_body"`
	Narrative  *string `json:"story"`
	Summary    *string `json:"summary"`
}

// StoryCreatedResponse is returned by both write endpoints.
type StoryCreatedResponse struct {
	ID int64 `json:"id"`
}

// StoryListResponse for GET /api/stories and GET /api/themes/{name}/stories
type StoryListResponse struct {
	Stories []*models.StoryListing `json:"stories"`
	Total   int                    `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// StoryHandler handles story archive HTTP requests.
type StoryHandler struct {
	storyService services.StoryService
	pipeline     extraction.PipelineService
	logger       *zap.Logger
}

// NewStoryHandler creates a new story handler.
func NewStoryHandler(
	storyService services.StoryService,
	pipeline extraction.PipelineService,
	logger *zap.Logger,
) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
		pipeline:     pipeline,
		logger:       logger,
	}
}

// RegisterRoutes registers the story routes on the given mux.
func (h *StoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/stories", h.Ingest)
	mux.HandleFunc("POST /api/stories/import", h.Import)
	mux.HandleFunc("GET /api/stories", h.List)
	mux.HandleFunc("GET /api/stories/{id}", h.Get)
	mux.HandleFunc("GET /api/stories/{id}/summary", h.GetSummary)
	mux.HandleFunc("GET /api/stories/{id}/timeline", h.Timeline)
	mux.HandleFunc("PATCH /api/stories/{id}", h.Update)
	mux.HandleFunc("DELETE /api/stories/{id}", h.Delete)
	mux.HandleFunc("GET /api/people", h.People)
	mux.HandleFunc("GET /api/themes/{name}/stories", h.ByTheme)
}

// Ingest handles POST /api/stories: run the full pipeline on a transcript.
func (h *StoryHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Transcript == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "transcript is required")
		return
	}

	id, err := h.pipeline.Ingest(r.Context(), req.Transcript, req.PersonName)
	if err != nil {
		h.logger.Error("Ingest failed", zap.Error(err))
		switch {
		case errors.Is(err, apperrors.ErrAIUnavailable):
			_ = ErrorResponse(w, http.StatusServiceUnavailable, "ai_unavailable", "no AI endpoint configured; use the import endpoint instead")
		case errors.Is(err, apperrors.ErrExtractionFailed):
			_ = ErrorResponse(w, http.StatusBadGateway, "extraction_failed", "the AI model returned unusable output")
		default:
			_ = ErrorResponse(w, http.StatusInternalServerError, "ingest_failed", "failed to process transcript")
		}
		return
	}

	_ = WriteJSON(w, http.StatusCreated, StoryCreatedResponse{ID: id})
}

// Import handles POST /api/stories/import: archive a pre-built extraction
// document without invoking any AI.
func (h *StoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.RawBody == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "raw_body is required")
		return
	}

	var doc *models.ExtractionDocument
	if len(req.ExtractedData) > 0 {
		doc = &models.ExtractionDocument{}
		if err := json.Unmarshal(req.ExtractedData, doc); err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "extracted_data is not a valid extraction document")
			return
		}
	}

	id, err := h.storyService.ArchiveStory(r.Context(), services.ArchiveStoryInput{
		PersonName:  req.PersonName,
		RawBody:     req.RawBody,
		Narrative:   req.Narrative,
		Summary:     req.Summary,
		Document:    doc,
		RawDocument: req.ExtractedData,
	})
	if err != nil {
		h.logger.Error("Import failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "write_failed", "failed to archive story")
		return
	}

	_ = WriteJSON(w, http.StatusCreated, StoryCreatedResponse{ID: id})
}

// List handles GET /api/stories: the story library.
func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	stories, err := h.storyService.ListStories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list stories", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list stories")
		return
	}

	_ = WriteJSON(w, http.StatusOK, StoryListResponse{Stories: stories, Total: len(stories)})
}

// Get handles GET /api/stories/{id}: the fully reassembled nested story.
func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid story id")
		return
	}

	story, err := h.storyService.GetStory(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get story", zap.Int64("story_id", id), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to get story")
		return
	}
	if story == nil {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "story not found")
		return
	}

	_ = WriteJSON(w, http.StatusOK, story)
}

// GetSummary handles GET /api/stories/{id}/summary: root fields only.
func (h *StoryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid story id")
		return
	}

	summary, err := h.storyService.GetStorySummary(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get story summary", zap.Int64("story_id", id), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to get story summary")
		return
	}
	if summary == nil {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "story not found")
		return
	}

	_ = WriteJSON(w, http.StatusOK, summary)
}

// Timeline handles GET /api/stories/{id}/timeline.
func (h *StoryHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid story id")
		return
	}

	events, err := h.storyService.ListTimelineEvents(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list timeline events", zap.Int64("story_id", id), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list timeline events")
		return
	}

	_ = WriteJSON(w, http.StatusOK, events)
}

// Update handles PATCH /api/stories/{id}: partial field updates. Supplying
// zero fields reports updated:false rather than an error.
func (h *StoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid story id")
		return
	}

	var req UpdateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	updated, err := h.storyService.UpdateStory(r.Context(), id, repositories.StoryUpdate{
		PersonName: req.PersonName,
		RawBody:    req.RawBody,
		Narrative:  req.Narrative,
		Summary:    req.Summary,
	})
	if err != nil {
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to update story")
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

// Delete handles DELETE /api/stories/{id}. Deleting a nonexistent id is a
// no-op reported as deleted:false.
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid story id")
		return
	}

	deleted, err := h.storyService.DeleteStory(r.Context(), id)
	if err != nil {
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to delete story")
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// People handles GET /api/people: one row per story with its timeline event
// count, newest-updated first.
func (h *StoryHandler) People(w http.ResponseWriter, r *http.Request) {
	people, err := h.storyService.ListPeople(r.Context())
	if err != nil {
		h.logger.Error("Failed to list people", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list people")
		return
	}

	_ = WriteJSON(w, http.StatusOK, people)
}

// ByTheme handles GET /api/themes/{name}/stories.
func (h *StoryHandler) ByTheme(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "theme name is required")
		return
	}

	stories, err := h.storyService.ListStoriesByTheme(r.Context(), name)
	if err != nil {
		h.logger.Error("Failed to list stories by theme", zap.String("theme", name), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list stories by theme")
		return
	}

	_ = WriteJSON(w, http.StatusOK, StoryListResponse{Stories: stories, Total: len(stories)})
}
