package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"clubverse-backend/internal/domain"
	"clubverse-backend/internal/security"
)

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID int64, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) GenerateRefreshToken(userID int64, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) ValidateToken(tokenString string) (*security.UserClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}

type authFixture struct {
	userRepo *MockUserRepo
	otpRepo  *MockOTPRepo
	tokens   *MockTokenManager
	emailSvc *MockEmailService
	svc      AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		userRepo: new(MockUserRepo),
		otpRepo:  new(MockOTPRepo),
		tokens:   new(MockTokenManager),
		emailSvc: new(MockEmailService),
	}
	f.svc = NewAuthService(f.userRepo, f.otpRepo, f.tokens, f.emailSvc, 5*time.Minute)
	return f
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	var sentCode string
	f.userRepo.On("GetByEmail", ctx, "student@university.edu").Return(nil, sql.ErrNoRows)
	f.userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	f.otpRepo.On("Replace", ctx, mock.AnythingOfType("*domain.OTP")).
		Run(func(args mock.Arguments) { sentCode = args.Get(1).(*domain.OTP).Code }).
		Return(nil)
	f.emailSvc.On("SendOTP", ctx, "student@university.edu", "Jordan Lee", mock.Anything).Return(nil)

	user, err := f.svc.Register(ctx, "student@university.edu", "hunter22", "Jordan Lee", domain.RoleStudent)
	require.NoError(t, err)

	assert.False(t, user.IsVerified)
	assert.False(t, user.IsActive)
	assert.NotEqual(t, "hunter22", user.PasswordHash, "password is stored hashed")
	assert.Len(t, sentCode, 6)
	f.otpRepo.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.userRepo.On("GetByEmail", ctx, "student@university.edu").
		Return(&domain.User{ID: 1, Email: "student@university.edu", IsVerified: true}, nil)

	_, err := f.svc.Register(ctx, "student@university.edu", "pw", "Someone", domain.RoleStudent)
	assert.ErrorIs(t, err, ErrEmailTaken)
	f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_ReplacesUnverifiedLeftover(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.userRepo.On("GetByEmail", ctx, "student@university.edu").
		Return(&domain.User{ID: 7, Email: "student@university.edu", IsVerified: false}, nil)
	f.userRepo.On("Delete", ctx, int64(7)).Return(nil)
	f.userRepo.On("Create", ctx, mock.Anything).Return(nil)
	f.otpRepo.On("Replace", ctx, mock.Anything).Return(nil)
	f.emailSvc.On("SendOTP", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Register(ctx, "student@university.edu", "pw", "Someone", domain.RoleStudent)
	require.NoError(t, err)
	f.userRepo.AssertCalled(t, "Delete", ctx, int64(7))
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), "x@y.edu", "pw", "X", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestVerifyOTP(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	otp := &domain.OTP{ID: 3, Email: "student@university.edu", Code: "123456", ExpiresAt: time.Now().Add(4 * time.Minute)}
	user := &domain.User{ID: 9, Email: "student@university.edu", Role: domain.RoleStudent}

	f.otpRepo.On("GetLive", ctx, "student@university.edu", "123456").Return(otp, nil)
	f.userRepo.On("GetByEmail", ctx, "student@university.edu").Return(user, nil)
	f.userRepo.On("SetVerified", ctx, int64(9), true, true).Return(nil)
	f.otpRepo.On("MarkUsed", ctx, int64(3)).Return(nil)
	f.tokens.On("GenerateAccessToken", int64(9), "student@university.edu", "student").Return("access-token", nil)
	f.tokens.On("GenerateRefreshToken", int64(9), "student@university.edu").Return("refresh-token", nil)

	verified, access, refresh, err := f.svc.VerifyOTP(ctx, "student@university.edu", "123456")
	require.NoError(t, err)

	assert.True(t, verified.IsVerified)
	assert.True(t, verified.IsActive)
	assert.Equal(t, "access-token", access)
	assert.Equal(t, "refresh-token", refresh)
	f.otpRepo.AssertExpectations(t)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.otpRepo.On("GetLive", ctx, "student@university.edu", "000000").Return(nil, sql.ErrNoRows)

	_, _, _, err := f.svc.VerifyOTP(ctx, "student@university.edu", "000000")
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestVerifyOTP_Expired(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	otp := &domain.OTP{ID: 3, Email: "student@university.edu", Code: "123456", ExpiresAt: time.Now().Add(-time.Second)}
	f.otpRepo.On("GetLive", ctx, "student@university.edu", "123456").Return(otp, nil)
	f.otpRepo.On("Delete", ctx, int64(3)).Return(nil)

	_, _, _, err := f.svc.VerifyOTP(ctx, "student@university.edu", "123456")
	assert.ErrorIs(t, err, ErrOTPInvalid)

	// A stale code is purged and the account stays unverified.
	f.otpRepo.AssertCalled(t, "Delete", ctx, int64(3))
	f.userRepo.AssertNotCalled(t, "SetVerified", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResendOTP_AlreadyVerified(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.userRepo.On("GetByEmail", ctx, "student@university.edu").
		Return(&domain.User{ID: 9, Email: "student@university.edu", IsVerified: true}, nil)

	err := f.svc.ResendOTP(ctx, "student@university.edu")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &domain.User{
		ID: 9, Email: "student@university.edu", Role: domain.RoleStudent,
		PasswordHash: hashPassword(t, "hunter22"),
		IsVerified:   true, IsActive: true,
	}
	f.userRepo.On("GetByEmail", ctx, "student@university.edu").Return(user, nil)
	f.tokens.On("GenerateAccessToken", int64(9), "student@university.edu", "student").Return("access-token", nil)
	f.tokens.On("GenerateRefreshToken", int64(9), "student@university.edu").Return("refresh-token", nil)

	got, access, refresh, err := f.svc.Login(ctx, "student@university.edu", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &domain.User{ID: 9, PasswordHash: hashPassword(t, "hunter22"), IsVerified: true, IsActive: true}
	f.userRepo.On("GetByEmail", ctx, "student@university.edu").Return(user, nil)

	_, _, _, err := f.svc.Login(ctx, "student@university.edu", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.userRepo.On("GetByEmail", ctx, "nobody@university.edu").Return(nil, sql.ErrNoRows)

	_, _, _, err := f.svc.Login(ctx, "nobody@university.edu", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Unverified(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &domain.User{ID: 9, PasswordHash: hashPassword(t, "hunter22"), IsVerified: false}
	f.userRepo.On("GetByEmail", ctx, "student@university.edu").Return(user, nil)

	_, _, _, err := f.svc.Login(ctx, "student@university.edu", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Inactive(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user := &domain.User{ID: 9, PasswordHash: hashPassword(t, "hunter22"), IsVerified: true, IsActive: false}
	f.userRepo.On("GetByEmail", ctx, "student@university.edu").Return(user, nil)

	_, _, _, err := f.svc.Login(ctx, "student@university.edu", "hunter22")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	claims := &security.UserClaims{UserID: 9, Email: "student@university.edu", Type: security.TokenTypeRefresh}
	user := &domain.User{ID: 9, Email: "student@university.edu", Role: domain.RoleStudent, IsActive: true}

	f.tokens.On("ValidateToken", "old-refresh").Return(claims, nil)
	f.userRepo.On("GetByID", ctx, int64(9)).Return(user, nil)
	f.tokens.On("GenerateAccessToken", int64(9), "student@university.edu", "student").Return("new-access", nil)
	f.tokens.On("GenerateRefreshToken", int64(9), "student@university.edu").Return("new-refresh", nil)

	access, refresh, err := f.svc.RefreshToken(ctx, "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", access)
	assert.Equal(t, "new-refresh", refresh)
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	f := newAuthFixture(t)

	claims := &security.UserClaims{UserID: 9, Type: security.TokenTypeAccess}
	f.tokens.On("ValidateToken", "an-access-token").Return(claims, nil)

	_, _, err := f.svc.RefreshToken(context.Background(), "an-access-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
