package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/virsa-ai/virsa-engine/pkg/models"
	"github.com/virsa-ai/virsa-engine/pkg/repositories"
	"github.com/virsa-ai/virsa-engine/pkg/services"
)

// CreateFamilyMemberRequest for POST /api/family-members. StoryID is
// optional: a member without one belongs only to the global family tree.
type CreateFamilyMemberRequest struct {
	StoryID      *int64  `json:"story_id,omitempty"`
	Name         string  `json:"name"`
	Relationship *string `json:"relationship,omitempty"`
	BirthYear    *int    `json:"birth_year,omitempty"`
	DeathYear    *int    `json:"death_year,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// UpdateFamilyMemberRequest for PATCH /api/family-members/{id}.
type UpdateFamilyMemberRequest struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
	BirthYear    *int    `json:"birth_year"`
	DeathYear    *int    `json:"death_year"`
	Notes        *string `json:"notes"`
}

// FamilyMemberListResponse for GET /api/family-members
type FamilyMemberListResponse struct {
	Members []*models.FamilyMember `json:"members"`
	Total   int                    `json:"total"`
}

// FamilyHandler handles family tree HTTP requests.
type FamilyHandler struct {
	familyService services.FamilyService
	logger        *zap.Logger
}

// NewFamilyHandler creates a new family handler.
func NewFamilyHandler(familyService services.FamilyService, logger *zap.Logger) *FamilyHandler {
	return &FamilyHandler{familyService: familyService, logger: logger}
}

// RegisterRoutes registers the family member routes on the given mux.
func (h *FamilyHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/family-members", h.Create)
	mux.HandleFunc("GET /api/family-members", h.List)
	mux.HandleFunc("GET /api/family-members/{id}", h.Get)
	mux.HandleFunc("PATCH /api/family-members/{id}", h.Update)
	mux.HandleFunc("DELETE /api/family-members/{id}", h.Delete)
}

// Create handles POST /api/family-members.
func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	member := &models.FamilyMember{
		StoryID:      req.StoryID,
		Name:         req.Name,
		Relationship: req.Relationship,
		BirthYear:    req.BirthYear,
		DeathYear:    req.DeathYear,
		Notes:        req.Notes,
	}
	if err := h.familyService.Create(r.Context(), member); err != nil {
		_ = ErrorResponse(w, http.StatusInternalServerError, "write_failed", "failed to create family member")
		return
	}

	_ = WriteJSON(w, http.StatusCreated, member)
}

// List handles GET /api/family-members, optionally scoped to one story via
// the story_id query parameter.
func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	var members []*models.FamilyMember
	var err error

	if raw := r.URL.Query().Get("story_id"); raw != "" {
		storyID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || storyID <= 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid story_id")
			return
		}
		members, err = h.familyService.ListByStory(r.Context(), storyID)
	} else {
		members, err = h.familyService.List(r.Context())
	}

	if err != nil {
		h.logger.Error("Failed to list family members", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list family members")
		return
	}

	_ = WriteJSON(w, http.StatusOK, FamilyMemberListResponse{Members: members, Total: len(members)})
}

// Get handles GET /api/family-members/{id}.
func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid member id")
		return
	}

	member, err := h.familyService.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get family member", zap.Int64("member_id", id), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to get family member")
		return
	}
	if member == nil {
		_ = ErrorResponse(w, http.StatusNotFound, "not_found", "family member not found")
		return
	}

	_ = WriteJSON(w, http.StatusOK, member)
}

// Update handles PATCH /api/family-members/{id}.
func (h *FamilyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid member id")
		return
	}

	var req UpdateFamilyMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	updated, err := h.familyService.Update(r.Context(), id, repositories.FamilyMemberUpdate{
		Name:         req.Name,
		Relationship: req.Relationship,
		BirthYear:    req.BirthYear,
		DeathYear:    req.DeathYear,
		Notes:        req.Notes,
	})
	if err != nil {
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to update family member")
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

// Delete handles DELETE /api/family-members/{id}.
func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid member id")
		return
	}

	deleted, err := h.familyService.Delete(r.Context(), id)
	if err != nil {
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to delete family member")
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
