package matching

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/qiranapp/qiran-backend/internal/common/utils"
)

type Handler struct {
	service Service
	hub     *Hub
}

func NewHandler(service Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	params := &DiscoverParams{
		PageSize:  DefaultPageSize,
		PageToken: r.URL.Query().Get("page_token"),
		Sort:      SortBestMatch,
	}
	if size := r.URL.Query().Get("page_size"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			params.PageSize = n
		}
	}
	if sort := r.URL.Query().Get("sort"); sort != "" {
		params.Sort = SortOrder(sort)
	}

	if err := utils.ValidateStruct(params); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Discover(r.Context(), userID, params)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPageToken):
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid page token")
		case errors.Is(err, ErrProfileNotApproved):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrProfileNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load recommendations")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	targetID := mux.Vars(r)["id"]

	resp, err := h.service.Like(r.Context(), userID, targetID)
	if err != nil {
		h.respondActionError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) Pass(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	targetID := mux.Vars(r)["id"]

	if err := h.service.Pass(r.Context(), userID, targetID); err != nil {
		h.respondActionError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) Favorite(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	targetID := mux.Vars(r)["id"]

	if err := h.service.Favorite(r.Context(), userID, targetID); err != nil {
		h.respondActionError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	targetID := mux.Vars(r)["id"]

	resp, err := h.service.Compatibility(r.Context(), userID, targetID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute compatibility")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	active := r.URL.Query().Get("active") != "false"

	matches, err := h.service.GetMatches(r.Context(), userID, active)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, matches)
}

func (h *Handler) Unmatch(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	matchID := mux.Vars(r)["id"]

	if err := h.service.Unmatch(r.Context(), matchID, userID); err != nil {
		switch {
		case errors.Is(err, ErrMatchNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrUnauthorized):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unmatch")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}

func (h *Handler) respondActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCannotActOnSelf):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrRateLimited):
		utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record action")
	}
}
