package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/logger"
	"clubverse-backend/internal/repository"
)

type applicationService struct {
	appRepo    repository.ApplicationRepository
	rosterRepo repository.RosterRepository
	userRepo   repository.UserRepository
	emailSvc   EmailService
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	rosterRepo repository.RosterRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
) ApplicationService {
	return &applicationService{
		appRepo:    appRepo,
		rosterRepo: rosterRepo,
		userRepo:   userRepo,
		emailSvc:   emailSvc,
	}
}

func (s *applicationService) Create(ctx context.Context, clubID, userID int64, reason string) (*domain.Application, error) {
	club, err := s.getClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	applicant, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if applicant.Role != domain.RoleStudent {
		return nil, fmt.Errorf("%w: only students can apply", ErrForbidden)
	}

	if member, err := s.rosterRepo.GetActiveMember(ctx, clubID, userID); err == nil && member != nil {
		return nil, ErrAlreadyMember
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if open, err := s.appRepo.GetOpenByClubAndUser(ctx, clubID, userID); err == nil && open != nil {
		return nil, ErrDuplicateApplication
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	app := &domain.Application{
		ClubID:      clubID,
		UserID:      userID,
		Reason:      reason,
		Status:      domain.ApplicationStatusPending,
		SubmittedAt: time.Now(),
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	if err := s.emailSvc.SendApplicationReceived(ctx, applicant.Email, applicant.FullName, club.FullName); err != nil {
		logger.Error("failed to send application confirmation", "application_id", app.ID, "error", err)
	}

	return app, nil
}

func (s *applicationService) Get(ctx context.Context, appID, requesterID int64) (*domain.Application, error) {
	app, err := s.getApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.UserID == requesterID || app.ClubID == requesterID {
		return app, nil
	}
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil || requester.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return app, nil
}

func (s *applicationService) ListByClub(ctx context.Context, clubID, requesterID int64, status domain.ApplicationStatus) ([]domain.Application, error) {
	if clubID != requesterID {
		return nil, ErrForbidden
	}
	return s.appRepo.ListByClub(ctx, clubID, status)
}

func (s *applicationService) ListMine(ctx context.Context, userID int64, status domain.ApplicationStatus) ([]domain.Application, error) {
	return s.appRepo.ListByUser(ctx, userID, status)
}

func (s *applicationService) ScheduleInterview(ctx context.Context, appID, clubID int64, date time.Time, location, note string) (*domain.Application, error) {
	app, err := s.getClubApplication(ctx, appID, clubID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	app.Status = domain.ApplicationStatusApproved
	app.InterviewDate = &date
	app.InterviewLocation = location
	app.InterviewNote = note
	app.RespondedAt = &now
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	s.notify(ctx, app, func(email, name, clubName string) error {
		return s.emailSvc.SendInterviewScheduled(ctx, email, name, clubName, date, location, note)
	})
	return app, nil
}

func (s *applicationService) Reject(ctx context.Context, appID, clubID int64, reason string) (*domain.Application, error) {
	app, err := s.getClubApplication(ctx, appID, clubID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	app.Status = domain.ApplicationStatusRejected
	app.RejectionReason = reason
	app.RespondedAt = &now
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	s.notify(ctx, app, func(email, name, clubName string) error {
		return s.emailSvc.SendApplicationRejected(ctx, email, name, clubName, reason)
	})
	return app, nil
}

// Finalize records the post-interview decision. Accepting adds the
// applicant to the roster with a profile snapshot taken now.
func (s *applicationService) Finalize(ctx context.Context, appID, clubID int64, accepted bool, reason string) (*domain.Application, error) {
	app, err := s.getClubApplication(ctx, appID, clubID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationStatusApproved {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if !accepted {
		app.Status = domain.ApplicationStatusDeclined
		app.RejectionReason = reason
		app.RespondedAt = &now
		if err := s.appRepo.Update(ctx, app); err != nil {
			return nil, err
		}
		s.notify(ctx, app, func(email, name, clubName string) error {
			return s.emailSvc.SendApplicationDeclined(ctx, email, name, clubName, reason)
		})
		return app, nil
	}

	applicant, err := s.userRepo.GetByID(ctx, app.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.rosterRepo.CreateRoster(ctx, clubID); err != nil {
		return nil, err
	}
	member := &domain.ClubMember{
		ClubID:      clubID,
		UserID:      applicant.ID,
		Email:       applicant.Email,
		FullName:    applicant.FullName,
		PhoneNumber: applicant.PhoneNumber,
		AvatarURL:   applicant.AvatarURL,
		School:      applicant.School,
		Major:       applicant.Major,
		Year:        applicant.Year,
		Skills:      applicant.Skills,
		Interests:   applicant.Interests,
		Role:        domain.MemberRoleMember,
		IsActive:    true,
		JoinedAt:    now,
	}
	if err := s.rosterRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}
	if _, err := s.rosterRepo.RecountQuantity(ctx, clubID); err != nil {
		logger.Error("failed to recount club quantity", "club_id", clubID, "error", err)
	}

	app.Status = domain.ApplicationStatusAccepted
	app.RespondedAt = &now
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	s.notify(ctx, app, func(email, name, clubName string) error {
		return s.emailSvc.SendApplicationAccepted(ctx, email, name, clubName)
	})
	return app, nil
}

func (s *applicationService) Cancel(ctx context.Context, appID, userID int64) error {
	app, err := s.getApplication(ctx, appID)
	if err != nil {
		return err
	}
	if app.UserID != userID {
		return ErrForbidden
	}
	if app.Status != domain.ApplicationStatusPending {
		return ErrInvalidTransition
	}
	return s.appRepo.Delete(ctx, app.ID)
}

func (s *applicationService) notify(ctx context.Context, app *domain.Application, send func(email, name, clubName string) error) {
	applicant, err := s.userRepo.GetByID(ctx, app.UserID)
	if err != nil {
		return
	}
	club, err := s.userRepo.GetByID(ctx, app.ClubID)
	if err != nil {
		return
	}
	if err := send(applicant.Email, applicant.FullName, club.FullName); err != nil {
		logger.Error("failed to send application email", "application_id", app.ID, "error", err)
	}
}

func (s *applicationService) getApplication(ctx context.Context, appID int64) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, appID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (s *applicationService) getClubApplication(ctx context.Context, appID, clubID int64) (*domain.Application, error) {
	app, err := s.getApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.ClubID != clubID {
		return nil, ErrForbidden
	}
	return app, nil
}

func (s *applicationService) getClub(ctx context.Context, clubID int64) (*domain.User, error) {
	club, err := s.userRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	if club.Role != domain.RoleClub {
		return nil, ErrClubNotFound
	}
	return club, nil
}
