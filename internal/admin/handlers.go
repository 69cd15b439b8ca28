// HTTP handlers for admin and reporting endpoints

package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/qiranapp/qiran-backend/internal/auth"
	"github.com/qiranapp/qiran-backend/internal/common/utils"
)

// Handler handles admin HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new admin handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetConfig handles GET /api/v1/admin/matching-config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.GetMatchingConfig(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load configuration")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cfg)
}

// UpdateConfig handles PUT /api/v1/admin/matching-config
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := h.service.UpdateMatchingConfig(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidWeights) || errors.Is(err, ErrInvalidThreshold) {
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update configuration")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, cfg)
}

// ListQueue handles GET /api/v1/admin/moderation-queue
func (h *Handler) ListQueue(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.service.ListModerationQueue(r.Context(), limit, offset)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list moderation queue")
		return
	}
	if entries == nil {
		entries = []*ModerationEntry{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"queue": entries})
}

// ModerateProfile handles POST /api/v1/admin/profiles/{id}/moderate
func (h *Handler) ModerateProfile(w http.ResponseWriter, r *http.Request) {
	var req ModerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.ModerateProfile(r.Context(), mux.Vars(r)["id"], &req); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to moderate profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Profile status updated"})
}

// SetVerification handles POST /api/v1/admin/profiles/{id}/verification
func (h *Handler) SetVerification(w http.ResponseWriter, r *http.Request) {
	var req SetVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SetVerificationTier(r.Context(), mux.Vars(r)["id"], req.Tier); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to set verification tier")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Verification tier updated"})
}

// CreateReport handles POST /api/v1/reports (member-facing)
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	reporterID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.CreateReport(r.Context(), reporterID, &req)
	if err != nil {
		if errors.Is(err, ErrCannotReportSelf) {
			utils.RespondWithError(w, http.StatusBadRequest, "Cannot report yourself")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create report")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, report)
}

// ListReports handles GET /api/v1/admin/reports
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	reports, err := h.service.ListReports(r.Context(), status, limit, offset)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}
	if reports == nil {
		reports = []*Report{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// ResolveReport handles POST /api/v1/admin/reports/{id}/resolve
func (h *Handler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	adminID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ResolveReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.ResolveReport(r.Context(), mux.Vars(r)["id"], adminID, &req); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Report not found or already resolved")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve report")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Report resolved"})
}

// GetStats handles GET /api/v1/admin/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
