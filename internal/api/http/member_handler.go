package http

import (
	"fmt"
	"net/http"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/service"
)

// MemberHandler exposes the roster and the pending-action approval flow.
type MemberHandler struct {
	govSvc service.GovernanceService
}

func NewMemberHandler(govSvc service.GovernanceService) *MemberHandler {
	return &MemberHandler{govSvc: govSvc}
}

func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	clubID, ok := pathID(w, r, "clubId")
	if !ok {
		return
	}
	members, err := h.govSvc.ListMembers(r.Context(), clubID, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

func (h *MemberHandler) MyClubs(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	memberships, err := h.govSvc.MyClubs(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"memberships": memberships})
}

func (h *MemberHandler) Stats(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	clubID, ok := pathID(w, r, "clubId")
	if !ok {
		return
	}
	stats, err := h.govSvc.MemberStats(r.Context(), clubID, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *MemberHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	clubID, ok := pathID(w, r, "clubId")
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="members-%d-%s.csv"`, clubID, time.Now().Format("2006-01-02")))
	if err := h.govSvc.ExportMembersCSV(r.Context(), clubID, claims.UserID, w); err != nil {
		// Headers may be gone already; log-and-bail is the best we can do.
		writeError(w, err)
	}
}

type proposeRemoveRequest struct {
	ClubID       int64  `json:"club_id"`
	TargetUserID int64  `json:"target_user_id"`
	Reason       string `json:"reason"`
}

func (h *MemberHandler) ProposeRemove(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	var req proposeRemoveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ClubID <= 0 || req.TargetUserID <= 0 {
		writeBadRequest(w, "club_id and target_user_id are required")
		return
	}

	action, err := h.govSvc.ProposeRemoveMember(r.Context(), req.ClubID, claims.UserID, req.TargetUserID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, action)
}

type proposeRoleRequest struct {
	ClubID       int64  `json:"club_id"`
	TargetUserID int64  `json:"target_user_id"`
	NewRole      string `json:"new_role"`
}

func (h *MemberHandler) ProposeRoleUpdate(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	var req proposeRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ClubID <= 0 || req.TargetUserID <= 0 {
		writeBadRequest(w, "club_id and target_user_id are required")
		return
	}

	action, err := h.govSvc.ProposeUpdateRole(r.Context(), req.ClubID, claims.UserID, req.TargetUserID, domain.MemberRole(req.NewRole))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, action)
}

type proposeUpdateRequest struct {
	ClubID       int64                   `json:"club_id"`
	TargetUserID int64                   `json:"target_user_id"`
	Update       domain.UpdateMemberData `json:"update"`
}

func (h *MemberHandler) ProposeMemberUpdate(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	var req proposeUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ClubID <= 0 || req.TargetUserID <= 0 {
		writeBadRequest(w, "club_id and target_user_id are required")
		return
	}

	action, err := h.govSvc.ProposeUpdateMember(r.Context(), req.ClubID, claims.UserID, req.TargetUserID, req.Update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, action)
}

func (h *MemberHandler) ListPendingActions(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	clubID, ok := pathID(w, r, "clubId")
	if !ok {
		return
	}
	actions, err := h.govSvc.ListPendingActions(r.Context(), clubID, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pending_actions": actions})
}

func (h *MemberHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	actionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	action, err := h.govSvc.ApprovePendingAction(r.Context(), actionID, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

func (h *MemberHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	actionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	action, err := h.govSvc.RejectPendingAction(r.Context(), actionID, claims.UserID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

// ApproveByToken is the unauthenticated email-link approval path.
func (h *MemberHandler) ApproveByToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeBadRequest(w, "token is required")
		return
	}

	action, err := h.govSvc.ApprovePendingActionByToken(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "action approved",
		"action":  action,
	})
}
