package http

import (
	"net/http"

	"clubverse-backend/internal/security"
	"clubverse-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services bundles everything the router needs.
type Services struct {
	Auth        service.AuthService
	User        service.UserService
	Governance  service.GovernanceService
	Application service.ApplicationService
	Event       service.EventService
	Post        service.PostService
	Upload      service.UploadService

	Tokens        security.TokenManager
	MaxFileSizeMB int64
}

// NewRouter builds the full API surface. Register, login, OTP and the
// email-link approval endpoint are public; everything else requires a
// bearer token.
func NewRouter(svcs Services) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	authHandler := NewAuthHandler(svcs.Auth)
	userHandler := NewUserHandler(svcs.User)
	memberHandler := NewMemberHandler(svcs.Governance)
	appHandler := NewApplicationHandler(svcs.Application)
	eventHandler := NewEventHandler(svcs.Event)
	postHandler := NewPostHandler(svcs.Post)
	uploadHandler := NewUploadHandler(svcs.Upload, svcs.MaxFileSizeMB)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-otp", authHandler.VerifyOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/resend-otp", authHandler.ResendOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/members/approve", memberHandler.ApproveByToken).Methods(http.MethodGet)

	// Authenticated routes
	auth := api.NewRoute().Subrouter()
	auth.Use(AuthMiddleware(svcs.Tokens))

	// Users
	auth.HandleFunc("/users/me", userHandler.Me).Methods(http.MethodGet)
	auth.HandleFunc("/users/me", userHandler.UpdateMe).Methods(http.MethodPut)
	auth.HandleFunc("/users/me/avatar", userHandler.SetAvatar).Methods(http.MethodPut)
	auth.HandleFunc("/users/clubs", userHandler.ListClubs).Methods(http.MethodGet)
	auth.HandleFunc("/users/{id:[0-9]+}", userHandler.Get).Methods(http.MethodGet)
	auth.HandleFunc("/users/{id:[0-9]+}/deactivate", userHandler.Deactivate).Methods(http.MethodPost)
	auth.HandleFunc("/users/{id:[0-9]+}/reactivate", userHandler.Reactivate).Methods(http.MethodPost)

	// Roster and pending actions
	auth.HandleFunc("/members/my-clubs", memberHandler.MyClubs).Methods(http.MethodGet)
	auth.HandleFunc("/members/clubs/{clubId:[0-9]+}", memberHandler.ListMembers).Methods(http.MethodGet)
	auth.HandleFunc("/members/clubs/{clubId:[0-9]+}/stats", memberHandler.Stats).Methods(http.MethodGet)
	auth.HandleFunc("/members/clubs/{clubId:[0-9]+}/export", memberHandler.ExportCSV).Methods(http.MethodGet)
	auth.HandleFunc("/members/clubs/{clubId:[0-9]+}/pending-actions", memberHandler.ListPendingActions).Methods(http.MethodGet)
	auth.HandleFunc("/members/remove", memberHandler.ProposeRemove).Methods(http.MethodPost)
	auth.HandleFunc("/members/role", memberHandler.ProposeRoleUpdate).Methods(http.MethodPost)
	auth.HandleFunc("/members/update", memberHandler.ProposeMemberUpdate).Methods(http.MethodPost)
	auth.HandleFunc("/members/pending-actions/{id:[0-9]+}/approve", memberHandler.Approve).Methods(http.MethodPost)
	auth.HandleFunc("/members/pending-actions/{id:[0-9]+}/reject", memberHandler.Reject).Methods(http.MethodPost)

	// Applications
	auth.HandleFunc("/applications", appHandler.Create).Methods(http.MethodPost)
	auth.HandleFunc("/applications/mine", appHandler.ListMine).Methods(http.MethodGet)
	auth.HandleFunc("/applications/clubs/{clubId:[0-9]+}", appHandler.ListByClub).Methods(http.MethodGet)
	auth.HandleFunc("/applications/{id:[0-9]+}", appHandler.Get).Methods(http.MethodGet)
	auth.HandleFunc("/applications/{id:[0-9]+}", appHandler.Cancel).Methods(http.MethodDelete)
	auth.HandleFunc("/applications/{id:[0-9]+}/interview", appHandler.ScheduleInterview).Methods(http.MethodPost)
	auth.HandleFunc("/applications/{id:[0-9]+}/reject", appHandler.Reject).Methods(http.MethodPost)
	auth.HandleFunc("/applications/{id:[0-9]+}/finalize", appHandler.Finalize).Methods(http.MethodPost)

	// Events
	auth.HandleFunc("/events", eventHandler.Create).Methods(http.MethodPost)
	auth.HandleFunc("/events", eventHandler.List).Methods(http.MethodGet)
	auth.HandleFunc("/events/mine", eventHandler.MyEvents).Methods(http.MethodGet)
	auth.HandleFunc("/events/deleted", eventHandler.ListDeleted).Methods(http.MethodGet)
	auth.HandleFunc("/events/{id:[0-9]+}", eventHandler.Get).Methods(http.MethodGet)
	auth.HandleFunc("/events/{id:[0-9]+}", eventHandler.Update).Methods(http.MethodPut)
	auth.HandleFunc("/events/{id:[0-9]+}", eventHandler.Delete).Methods(http.MethodDelete)
	auth.HandleFunc("/events/{id:[0-9]+}/restore", eventHandler.Restore).Methods(http.MethodPost)
	auth.HandleFunc("/events/{id:[0-9]+}/permanent", eventHandler.HardDelete).Methods(http.MethodDelete)
	auth.HandleFunc("/events/{id:[0-9]+}/register", eventHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/events/{id:[0-9]+}/register", eventHandler.CancelRegistration).Methods(http.MethodDelete)
	auth.HandleFunc("/events/{id:[0-9]+}/participants", eventHandler.Participants).Methods(http.MethodGet)
	auth.HandleFunc("/events/{id:[0-9]+}/check-in/{userId:[0-9]+}", eventHandler.CheckIn).Methods(http.MethodPost)
	auth.HandleFunc("/events/{id:[0-9]+}/check-in/{userId:[0-9]+}", eventHandler.UndoCheckIn).Methods(http.MethodDelete)

	// Posts
	auth.HandleFunc("/posts", postHandler.Create).Methods(http.MethodPost)
	auth.HandleFunc("/posts", postHandler.List).Methods(http.MethodGet)
	auth.HandleFunc("/posts/deleted", postHandler.ListDeleted).Methods(http.MethodGet)
	auth.HandleFunc("/posts/{id:[0-9]+}", postHandler.Get).Methods(http.MethodGet)
	auth.HandleFunc("/posts/{id:[0-9]+}", postHandler.Update).Methods(http.MethodPut)
	auth.HandleFunc("/posts/{id:[0-9]+}", postHandler.Delete).Methods(http.MethodDelete)
	auth.HandleFunc("/posts/{id:[0-9]+}/restore", postHandler.Restore).Methods(http.MethodPost)
	auth.HandleFunc("/posts/{id:[0-9]+}/permanent", postHandler.HardDelete).Methods(http.MethodDelete)
	auth.HandleFunc("/posts/{id:[0-9]+}/like", postHandler.Like).Methods(http.MethodPost)
	auth.HandleFunc("/posts/{id:[0-9]+}/like", postHandler.Unlike).Methods(http.MethodDelete)

	// Uploads
	auth.HandleFunc("/upload/{kind:avatars|posts|events}", uploadHandler.Upload).Methods(http.MethodPost)
	auth.HandleFunc("/upload", uploadHandler.Delete).Methods(http.MethodDelete)

	return r
}
