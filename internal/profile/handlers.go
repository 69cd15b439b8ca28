// HTTP handlers for profile endpoints

package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/qiranapp/qiran-backend/internal/auth"
	"github.com/qiranapp/qiran-backend/internal/common/utils"
)

// Handler handles profile HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new profile handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SetupProfile handles POST /api/v1/profiles/setup
func (h *Handler) SetupProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SetupProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.SetupProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			utils.RespondWithError(w, http.StatusConflict, "Profile already exists")
		case errors.Is(err, ErrUnderage):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, "You must be at least 18 years old")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create profile")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, profile)
}

// GetMyProfile handles GET /api/v1/profiles/me
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.service.GetMyProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	h.service.TouchLastActive(r.Context(), userID)
	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// GetProfile handles GET /api/v1/profiles/{id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	targetID := mux.Vars(r)["id"]

	profile, err := h.service.GetProfile(r.Context(), targetID, viewerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /api/v1/profiles/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	h.service.TouchLastActive(r.Context(), userID)
	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// GetCompletion handles GET /api/v1/profiles/me/completion
func (h *Handler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	completion, err := h.service.GetCompletion(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get completion")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, completion)
}

// UploadPhoto handles POST /api/v1/profiles/me/photos
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Photo file is required")
		return
	}
	defer file.Close()

	url, err := h.service.UploadPhoto(r.Context(), userID, file, header)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhotoFormat):
			utils.RespondWithError(w, http.StatusUnsupportedMediaType, "Unsupported photo format")
		case errors.Is(err, ErrPhotoTooLarge):
			utils.RespondWithError(w, http.StatusRequestEntityTooLarge, "Photo is too large")
		case errors.Is(err, ErrTooManyPhotos):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, "Photo limit reached")
		case errors.Is(err, ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to upload photo")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// DeletePhoto handles DELETE /api/v1/profiles/me/photos
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		URL string `json:"url" validate:"required,url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.DeletePhoto(r.Context(), userID, req.URL); err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Photo not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete photo")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Photo deleted"})
}

// BlockUser handles POST /api/v1/profiles/blocks
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.BlockUser(r.Context(), userID, req.UserID); err != nil {
		if errors.Is(err, ErrCannotBlockSelf) {
			utils.RespondWithError(w, http.StatusBadRequest, "Cannot block yourself")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to block user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User blocked"})
}

// UnblockUser handles DELETE /api/v1/profiles/blocks/{id}
func (h *Handler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	blockedID := mux.Vars(r)["id"]

	if err := h.service.UnblockUser(r.Context(), userID, blockedID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unblock user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User unblocked"})
}

// GetBlockedUsers handles GET /api/v1/profiles/blocks
func (h *Handler) GetBlockedUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ids, err := h.service.GetBlockedUsers(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get blocked users")
		return
	}
	if ids == nil {
		ids = []string{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"blocked": ids})
}
