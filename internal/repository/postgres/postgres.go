package postgres

import (
	"database/sql"

	"clubverse-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.OTPRepository
	repository.RosterRepository
	repository.PendingActionRepository
	repository.ApplicationRepository
	repository.EventRepository
	repository.PostRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		UserRepository:          NewUserRepository(db),
		OTPRepository:           NewOTPRepository(db),
		RosterRepository:        NewRosterRepository(db),
		PendingActionRepository: NewPendingActionRepository(db),
		ApplicationRepository:   NewApplicationRepository(db),
		EventRepository:         NewEventRepository(db),
		PostRepository:          NewPostRepository(db),
	}
}
