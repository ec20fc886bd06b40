package http

import (
	"net/http"
	"strconv"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/service"
)

type EventHandler struct {
	eventSvc service.EventService
}

func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if claims.Role != string(domain.RoleClub) {
		writeError(w, service.ErrForbidden)
		return
	}
	var event domain.Event
	if !decodeBody(w, r, &event) {
		return
	}
	if event.Title == "" || event.Time.IsZero() {
		writeBadRequest(w, "title and time are required")
		return
	}

	created, err := h.eventSvc.Create(r.Context(), claims.UserID, &event)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	event, registered, err := h.eventSvc.Get(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"event":           event,
		"is_registered":   registered,
		"available_slots": event.AvailableSlots(),
		"is_full":         event.IsFull(),
	})
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	var clubID int64
	if v, err := strconv.ParseInt(r.URL.Query().Get("club_id"), 10, 64); err == nil {
		clubID = v
	}
	kind := r.URL.Query().Get("filter")

	events, total, err := h.eventSvc.List(r.Context(), clubID, kind, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events, "total": total})
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var event domain.Event
	if !decodeBody(w, r, &event) {
		return
	}
	event.ID = id

	updated, err := h.eventSvc.Update(r.Context(), claims.UserID, &event)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.eventSvc.SoftDelete(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

func (h *EventHandler) Restore(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.eventSvc.Restore(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event restored"})
}

func (h *EventHandler) HardDelete(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.eventSvc.HardDelete(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event permanently deleted"})
}

func (h *EventHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	events, err := h.eventSvc.ListDeleted(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.eventSvc.Register(r.Context(), id, claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "registered"})
}

func (h *EventHandler) CancelRegistration(w http.ResponseWriter, r *http.Request) {
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
	if err := h.eventSvc.CancelRegistration(r.Context(), id, claims.UserID, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "registration cancelled"})
}

func (h *EventHandler) Participants(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	regs, err := h.eventSvc.ListParticipants(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"participants": regs})
}

func (h *EventHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.setCheckIn(w, r, true)
}

func (h *EventHandler) UndoCheckIn(w http.ResponseWriter, r *http.Request) {
	h.setCheckIn(w, r, false)
}

func (h *EventHandler) setCheckIn(w http.ResponseWriter, r *http.Request, checkedIn bool) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	if err := h.eventSvc.SetCheckIn(r.Context(), id, claims.UserID, userID, checkedIn); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"checked_in": checkedIn})
}

func (h *EventHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	events, err := h.eventSvc.MyEvents(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
