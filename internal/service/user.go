package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	current, err := s.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// Only profile fields change here; identity and status fields are
	// managed elsewhere.
	current.FullName = user.FullName
	current.PhoneNumber = user.PhoneNumber
	switch current.Role {
	case domain.RoleStudent:
		current.School = user.School
		current.Major = user.Major
		current.Year = user.Year
		current.Skills = user.Skills
		current.Interests = user.Interests
	case domain.RoleClub:
		current.Category = user.Category
		current.Description = user.Description
		current.SocialLinks = user.SocialLinks
	}

	if err := s.userRepo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *userService) SetAvatar(ctx context.Context, userID int64, avatarURL string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	user.AvatarURL = avatarURL
	return s.userRepo.Update(ctx, user)
}

func (s *userService) Deactivate(ctx context.Context, callerID, userID int64) error {
	if err := s.requireAdminOrSelf(ctx, callerID, userID); err != nil {
		return err
	}
	now := time.Now()
	return s.userRepo.SetActive(ctx, userID, false, &now)
}

func (s *userService) Reactivate(ctx context.Context, callerID, userID int64) error {
	caller, err := s.GetProfile(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	return s.userRepo.SetActive(ctx, userID, true, nil)
}

func (s *userService) ListClubs(ctx context.Context, limit, offset int32) ([]domain.User, int32, error) {
	return s.userRepo.List(ctx, domain.RoleClub, limit, offset)
}

func (s *userService) requireAdminOrSelf(ctx context.Context, callerID, userID int64) error {
	if callerID == userID {
		return nil
	}
	caller, err := s.GetProfile(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
