package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/virsa-ai/virsa-engine/pkg/apperrors"
	"github.com/virsa-ai/virsa-engine/pkg/models"
)

func newStoryMux(stories *mockStoryService, pipeline *mockPipeline) *http.ServeMux {
	mux := http.NewServeMux()
	NewStoryHandler(stories, pipeline, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestStoryHandler_Ingest(t *testing.T) {
	pipeline := &mockPipeline{id: 7}
	mux := newStoryMux(&mockStoryService{}, pipeline)

	body := `{"transcript": "I was born in 1945...", "person_name": "Amar Singh"}`
	req := httptest.NewRequest(http.MethodPost, "/api/stories", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp StoryCreatedResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 7 {
		t.Errorf("expected id 7, got %d", resp.ID)
	}
	if pipeline.transcript != "I was born in 1945..." {
		t.Errorf("pipeline got wrong transcript: %q", pipeline.transcript)
	}
	if pipeline.personName != "Amar Singh" {
		t.Errorf("pipeline got wrong person name: %q", pipeline.personName)
	}
}

func TestStoryHandler_Ingest_MissingTranscript(t *testing.T) {
	mux := newStoryMux(&mockStoryService{}, &mockPipeline{})

	req := httptest.NewRequest(http.MethodPost, "/api/stories", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestStoryHandler_Ingest_PipelineFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ai unavailable", apperrors.ErrAIUnavailable, http.StatusServiceUnavailable},
		{"extraction failed", apperrors.ErrExtractionFailed, http.StatusBadGateway},
		{"other failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := &mockPipeline{err: tt.err}
			mux := newStoryMux(&mockStoryService{}, pipeline)

			req := httptest.NewRequest(http.MethodPost, "/api/stories", strings.NewReader(`{"transcript": "text"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestStoryHandler_Import(t *testing.T) {
	stories := &mockStoryService{archivedID: 12}
	mux := newStoryMux(stories, &mockPipeline{})

	body := `{
		"person_name": "Harbans Kaur",
		"raw_body": "raw transcript",
		"story": "organized narrative",
		"extracted_data": {"themes": ["Migration"]}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/stories/import", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	input := stories.archivedInput
	if input == nil {
		t.Fatal("expected ArchiveStory to be called")
	}
	if input.PersonName != "Harbans Kaur" {
		t.Errorf("expected person name to pass through, got %q", input.PersonName)
	}
	if input.Document == nil || len(input.Document.Themes) != 1 {
		t.Errorf("expected parsed document with one theme, got %+v", input.Document)
	}
	if string(input.RawDocument) == "" {
		t.Error("expected raw document to be preserved verbatim")
	}
}

func TestStoryHandler_Import_MissingRawBody(t *testing.T) {
	mux := newStoryMux(&mockStoryService{}, &mockPipeline{})

	req := httptest.NewRequest(http.MethodPost, "/api/stories/import", strings.NewReader(`{"story": "x"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestStoryHandler_Import_InvalidExtractedData(t *testing.T) {
	mux := newStoryMux(&mockStoryService{}, &mockPipeline{})

	body := `{"raw_body": "raw", "extracted_data": {"timeline_events": "not-a-list"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/stories/import", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestStoryHandler_Get(t *testing.T) {
	stories := &mockStoryService{
		story: &models.StoryDetail{
			Story:          models.Story{ID: 3, PersonName: "Amar Singh"},
			TimelineEvents: []*models.TimelineEvent{},
		},
	}
	mux := newStoryMux(stories, &mockPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/api/stories/3", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var detail models.StoryDetail
	if err := json.NewDecoder(rec.Body).Decode(&detail); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if detail.PersonName != "Amar Singh" {
		t.Errorf("expected person name 'Amar Singh', got %q", detail.PersonName)
	}
}

func TestStoryHandler_Get_NotFound(t *testing.T) {
	mux := newStoryMux(&mockStoryService{}, &mockPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/api/stories/999", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestStoryHandler_Get_InvalidID(t *testing.T) {
	mux := newStoryMux(&mockStoryService{}, &mockPipeline{})

	for _, id := range []string{"abc", "0", "-5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/stories/"+id, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("id %q: expected status %d, got %d", id, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestStoryHandler_List(t *testing.T) {
	stories := &mockStoryService{
		listings: []*models.StoryListing{
			{ID: 2, PersonName: "Harbans Kaur"},
			{ID: 1, PersonName: "Amar Singh"},
		},
	}
	mux := newStoryMux(stories, &mockPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/api/stories", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp StoryListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || len(resp.Stories) != 2 {
		t.Errorf("expected 2 stories, got total=%d len=%d", resp.Total, len(resp.Stories))
	}
}

func TestStoryHandler_Update(t *testing.T) {
	stories := &mockStoryService{updated: true}
	mux := newStoryMux(stories, &mockPipeline{})

	req := httptest.NewRequest(http.MethodPatch, "/api/stories/3", strings.NewReader(`{"summary": "new summary"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp["updated"] {
		t.Error("expected updated=true")
	}
}

func TestStoryHandler_Update_NoFields(t *testing.T) {
	// Zero supplied fields is reported, not treated as an error.
	stories := &mockStoryService{updated: false}
	mux := newStoryMux(stories, &mockPipeline{})

	req := httptest.NewRequest(http.MethodPatch, "/api/stories/3", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["updated"] {
		t.Error("expected updated=false")
	}
}

func TestStoryHandler_Delete(t *testing.T) {
	stories := &mockStoryService{deleted: true}
	mux := newStoryMux(stories, &mockPipeline{})

	req := httptest.NewRequest(http.MethodDelete, "/api/stories/3", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp["deleted"] {
		t.Error("expected deleted=true")
	}
}

func TestStoryHandler_People(t *testing.T) {
	stories := &mockStoryService{
		people: []*models.PersonListing{
			{StoryID: 1, PersonName: "Amar Singh", EventCount: 5},
		},
	}
	mux := newStoryMux(stories, &mockPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/api/people", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var people []*models.PersonListing
	if err := json.NewDecoder(rec.Body).Decode(&people); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(people) != 1 || people[0].EventCount != 5 {
		t.Errorf("unexpected people payload: %+v", people)
	}
}

func TestStoryHandler_ByTheme(t *testing.T) {
	stories := &mockStoryService{
		listings: []*models.StoryListing{{ID: 1, PersonName: "Amar Singh"}},
	}
	mux := newStoryMux(stories, &mockPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/api/themes/Partition/stories", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp StoryListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected 1 story, got %d", resp.Total)
	}
}
