package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/logger"
	"clubverse-backend/internal/repository"
	"clubverse-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo  repository.UserRepository
	otpRepo   repository.OTPRepository
	tokens    security.TokenManager
	emailSvc  EmailService
	otpExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	otpRepo repository.OTPRepository,
	tokens security.TokenManager,
	emailSvc EmailService,
	otpExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		otpRepo:   otpRepo,
		tokens:    tokens,
		emailSvc:  emailSvc,
		otpExpiry: otpExpiry,
	}
}

func (s *authService) Register(ctx context.Context, email, password, fullName string, role domain.Role) (*domain.User, error) {
	if role != domain.RoleStudent && role != domain.RoleClub {
		return nil, fmt.Errorf("%w: role must be student or club", ErrInvalidTransition)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		if existing.IsVerified {
			return nil, ErrEmailTaken
		}
		// An unverified leftover from an abandoned signup is replaced.
		if err := s.userRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		IsVerified:   false,
		IsActive:     false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) issueOTP(ctx context.Context, user *domain.User) error {
	code, err := generateOTPCode()
	if err != nil {
		return err
	}

	otp := &domain.OTP{
		Email:     user.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpExpiry),
	}
	if err := s.otpRepo.Replace(ctx, otp); err != nil {
		return err
	}

	if err := s.emailSvc.SendOTP(ctx, user.Email, user.FullName, code); err != nil {
		logger.Error("failed to send OTP email", "email", user.Email, "error", err)
	}
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*domain.User, string, string, error) {
	otp, err := s.otpRepo.GetLive(ctx, email, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", ErrOTPInvalid
		}
		return nil, "", "", err
	}
	if otp.IsExpired(time.Now()) {
		_ = s.otpRepo.Delete(ctx, otp.ID)
		return nil, "", "", ErrOTPInvalid
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", ErrUserNotFound
		}
		return nil, "", "", err
	}

	if err := s.userRepo.SetVerified(ctx, user.ID, true, true); err != nil {
		return nil, "", "", err
	}
	if err := s.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
		return nil, "", "", err
	}
	user.IsVerified = true
	user.IsActive = true

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsVerified {
		return fmt.Errorf("%w: account already verified", ErrInvalidTransition)
	}
	return s.issueOTP(ctx, user)
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, "", "", fmt.Errorf("%w: email not verified", ErrInvalidCredentials)
	}
	if !user.IsActive {
		return nil, "", "", ErrAccountInactive
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	if !user.IsActive {
		return "", "", ErrAccountInactive
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// generateOTPCode returns a 6-digit numeric code.
func generateOTPCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	n := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	return fmt.Sprintf("%06d", n%1000000), nil
}
