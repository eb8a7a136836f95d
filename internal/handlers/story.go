package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/traveljournal/apiserver/internal/services"
	"github.com/traveljournal/apiserver/internal/storage"
	"github.com/traveljournal/apiserver/internal/store"
	"github.com/traveljournal/apiserver/types"
)

const maxImageBytes = 10 << 20

// StoryHandler provides HTTP handlers for journal stories and their
// cover images. All story routes require authentication.
type StoryHandler struct {
	storyService *services.StoryService
	images       *storage.ImageStore
}

// NewStoryHandler constructs a handler with the provided dependencies.
// images may be nil when no object-storage backend is configured; the
// image endpoints then report storage as unavailable.
func NewStoryHandler(storyService *services.StoryService, images *storage.ImageStore) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
		images:       images,
	}
}

// StoryRouter registers story routes on the given router.
func StoryRouter(
	r chi.Router,
	storyService *services.StoryService,
	images *storage.ImageStore,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewStoryHandler(storyService, images)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/add-japan-story", handler.AddStory)
		r.Get("/get-all-stories", handler.ListStories)
		r.Put("/edit-story/{storyID}", handler.EditStory)
		r.Delete("/delete-story/{storyID}", handler.DeleteStory)
		r.Put("/update-is-favourite/{storyID}", handler.UpdateIsFavourite)
		r.Post("/image-upload", handler.UploadImage)
		r.Delete("/delete-image", handler.DeleteImage)
	})
}

// epochMillis decodes a JSON number or numeric string holding epoch
// milliseconds, matching the API's visitedDate wire format.
type epochMillis struct {
	time.Time
}

func (e *epochMillis) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Fractional values truncate toward zero.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid epoch milliseconds: %q", s)
		}
		ms = int64(f)
	}
	if ms == 0 {
		// Epoch zero is treated as absent so validation rejects it.
		return nil
	}
	e.Time = time.UnixMilli(ms)
	return nil
}

type StoryRequest struct {
	Title           string      `json:"title"`
	Story           string      `json:"story"`
	VisitedLocation string      `json:"visitedLocation"`
	ImageURL        string      `json:"imageUrl"`
	VisitedDate     epochMillis `json:"visitedDate"`
}

func (req *StoryRequest) validate() error {
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Story) == "" ||
		strings.TrimSpace(req.VisitedLocation) == "" ||
		strings.TrimSpace(req.ImageURL) == "" ||
		req.VisitedDate.IsZero() {
		return errors.New("All fields are required")
	}
	return nil
}

// StoryResponse is the success body for story mutations.
type StoryResponse struct {
	Story   types.Story `json:"story"`
	Message string      `json:"message"`
}

// StoryListResponse is the success body for the story list endpoint.
type StoryListResponse struct {
	Stories []types.Story `json:"stories"`
	Message string        `json:"message"`
}

// ImageUploadResponse is the success body for image uploads.
type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// AddStory creates a journal entry owned by the token subject.
func (h *StoryHandler) AddStory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req StoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	story, err := h.storyService.Create(r.Context(), types.Story{
		UserID:          userID,
		Title:           req.Title,
		Story:           req.Story,
		VisitedLocation: req.VisitedLocation,
		ImageURL:        req.ImageURL,
		VisitedDate:     req.VisitedDate.Time,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to add story")
		return
	}

	writeJSON(w, http.StatusOK, StoryResponse{Story: story, Message: "Added Successfully"})
}

// ListStories returns all of the caller's stories, favourites first.
func (h *StoryHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	stories, err := h.storyService.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to fetch stories")
		return
	}

	writeJSON(w, http.StatusOK, StoryListResponse{Stories: stories, Message: ""})
}

// EditStory replaces the editable fields of a story the caller owns.
func (h *StoryHandler) EditStory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	storyID, err := parseStoryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req StoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	story, err := h.storyService.Update(r.Context(), types.Story{
		ID:              storyID,
		UserID:          userID,
		Title:           req.Title,
		Story:           req.Story,
		VisitedLocation: req.VisitedLocation,
		ImageURL:        req.ImageURL,
		VisitedDate:     req.VisitedDate.Time,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Story not found")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to update story")
		return
	}

	writeJSON(w, http.StatusOK, StoryResponse{Story: story, Message: "Updated Successfully"})
}

// DeleteStory removes a story the caller owns. The stored cover image
// is cleaned up best effort; a failed object delete never fails the
// request.
func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	storyID, err := parseStoryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	story, err := h.storyService.Delete(r.Context(), storyID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Story not found")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to delete story")
		return
	}

	if h.images != nil {
		if key, ok := h.images.KeyFromURL(story.ImageURL); ok {
			if err := h.images.Delete(r.Context(), key); err != nil {
				slog.Warn("failed to delete story image", "key", key, "err", err)
			}
		}
	}

	writeMessage(w, http.StatusOK, "Deleted Successfully")
}

type FavouriteRequest struct {
	IsFavourite bool `json:"isFavourite"`
}

// UpdateIsFavourite sets the favourite flag on a story the caller owns.
func (h *StoryHandler) UpdateIsFavourite(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	storyID, err := parseStoryID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req FavouriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	story, err := h.storyService.SetFavourite(r.Context(), storyID, userID, req.IsFavourite)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Story not found")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to update story")
		return
	}

	writeJSON(w, http.StatusOK, StoryResponse{Story: story, Message: "Updated Successfully"})
}

// UploadImage stores a multipart "image" file in object storage under a
// generated key and returns its public URL.
func (h *StoryHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusBadRequest, "image storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No image uploaded")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	key := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	if err := h.images.Put(r.Context(), key, file, header.Size, contentType); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to upload image")
		return
	}

	writeJSON(w, http.StatusOK, ImageUploadResponse{ImageURL: h.images.URL(key)})
}

// DeleteImage removes a previously uploaded image by its public URL.
func (h *StoryHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusBadRequest, "image storage is not configured")
		return
	}

	imageURL := strings.TrimSpace(r.URL.Query().Get("imageUrl"))
	if imageURL == "" {
		writeError(w, http.StatusBadRequest, "imageUrl parameter is required")
		return
	}

	key, ok := h.images.KeyFromURL(imageURL)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid imageUrl")
		return
	}

	if err := h.images.Delete(r.Context(), key); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to delete image")
		return
	}

	writeMessage(w, http.StatusOK, "Deleted Successfully")
}

func parseStoryID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "storyID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid story id")
	}
	return id, nil
}
