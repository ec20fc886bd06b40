package http

import (
	"net/http"
	"strconv"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/service"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	user, err := h.userSvc.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.userSvc.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	var user domain.User
	if !decodeBody(w, r, &user) {
		return
	}
	user.ID = claims.UserID

	updated, err := h.userSvc.UpdateProfile(r.Context(), &user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	var req struct {
		AvatarURL string `json:"avatar_url"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.userSvc.SetAvatar(r.Context(), claims.UserID, req.AvatarURL); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"avatar_url": req.AvatarURL})
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.userSvc.Deactivate(r.Context(), claims.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deactivated"})
}

func (h *UserHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.userSvc.Reactivate(r.Context(), claims.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account reactivated"})
}

func (h *UserHandler) ListClubs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	clubs, total, err := h.userSvc.ListClubs(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clubs": clubs, "total": total})
}

// pathID parses the named mux path variable as an int64.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}

func pagination(r *http.Request) (limit, offset int32) {
	limit = 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = int32(v)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = int32(v)
	}
	return limit, offset
}
