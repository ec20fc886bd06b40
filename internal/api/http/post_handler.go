package http

import (
	"net/http"
	"strconv"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/service"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims.Role != string(domain.RoleClub) {
		writeError(w, service.ErrForbidden)
		return
	}
	var post domain.Post
	if !decodeBody(w, r, &post) {
		return
	}
	if post.Title == "" || post.Content == "" {
		writeBadRequest(w, "title and content are required")
		return
	}

	created, err := h.postSvc.Create(r.Context(), claims.UserID, &post)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	post, err := h.postSvc.Get(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	limit, offset := pagination(r)
	var clubID int64
	if v, err := strconv.ParseInt(r.URL.Query().Get("club_id"), 10, 64); err == nil {
		clubID = v
	}
	sortBy := r.URL.Query().Get("sort")

	posts, total, err := h.postSvc.List(r.Context(), clubID, claims.UserID, sortBy, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts, "total": total})
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var post domain.Post
	if !decodeBody(w, r, &post) {
		return
	}
	post.ID = id

	updated, err := h.postSvc.Update(r.Context(), claims.UserID, &post)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.postSvc.Delete(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

func (h *PostHandler) Restore(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.postSvc.Restore(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "post restored"})
}

func (h *PostHandler) HardDelete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.postSvc.HardDelete(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "post permanently deleted"})
}

func (h *PostHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	posts, err := h.postSvc.ListDeleted(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	count, err := h.postSvc.Like(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"like_count": count, "is_liked": true})
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	count, err := h.postSvc.Unlike(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"like_count": count, "is_liked": false})
}
