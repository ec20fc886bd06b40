package http

import (
	"net/http"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/service"
)

type ApplicationHandler struct {
	appSvc service.ApplicationService
}

func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	var req struct {
		ClubID int64  `json:"club_id"`
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ClubID <= 0 {
		writeBadRequest(w, "club_id is required")
		return
	}

	app, err := h.appSvc.Create(r.Context(), req.ClubID, claims.UserID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	app, err := h.appSvc.Get(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) ListByClub(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	clubID, ok := pathID(w, r, "clubId")
	if !ok {
		return
	}
	status := domain.ApplicationStatus(r.URL.Query().Get("status"))

	apps, err := h.appSvc.ListByClub(r.Context(), clubID, claims.UserID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	status := domain.ApplicationStatus(r.URL.Query().Get("status"))

	apps, err := h.appSvc.ListMine(r.Context(), claims.UserID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"applications": apps})
}

func (h *ApplicationHandler) ScheduleInterview(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Date     time.Time `json:"date"`
		Location string    `json:"location"`
		Note     string    `json:"note"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Date.IsZero() || req.Location == "" {
		writeBadRequest(w, "date and location are required")
		return
	}

	app, err := h.appSvc.ScheduleInterview(r.Context(), id, claims.UserID, req.Date, req.Location, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	app, err := h.appSvc.Reject(r.Context(), id, claims.UserID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Accepted bool   `json:"accepted"`
		Reason   string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	app, err := h.appSvc.Finalize(r.Context(), id, claims.UserID, req.Accepted, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.appSvc.Cancel(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "application cancelled"})
}
