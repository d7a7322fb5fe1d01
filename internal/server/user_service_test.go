package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/types"
)

// memDB is an in-memory DBClient for user service tests.
type memDB struct {
	users map[uuid.UUID]*db.User
}

func newMemDB() *memDB {
	return &memDB{users: map[uuid.UUID]*db.User{}}
}

func (m *memDB) CheckEmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDB) CreateUser(_ context.Context, name, email, passwordHash, role string, verified bool) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now()
	m.users[id] = &db.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Verified:     verified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return id, nil
}

func (m *memDB) GetUser(_ context.Context, userID uuid.UUID) (*db.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *memDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memDB) SetUserVerified(_ context.Context, userID uuid.UUID, verified bool) error {
	u, ok := m.users[userID]
	if !ok {
		return assert.AnError
	}
	u.Verified = verified
	return nil
}

func newTestUserService() (*UserService, *memDB, *memCodeStore) {
	database := newMemDB()
	codes := newMemCodeStore()
	svc := NewUserService(database, &config.PasswordConfig{BcryptCost: 10}, NewOTPService(codes))
	return svc, database, codes
}

func registerReq() *types.CreateUserRequest {
	return &types.CreateUserRequest{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "password123",
	}
}

func TestRegisterCreatesUnverifiedUser(t *testing.T) {
	svc, _, codes := newTestUserService()

	user, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, types.RoleUser, user.Role)
	assert.False(t, user.Verified)

	// A verification code was stored for the email.
	assert.Contains(t, codes.values, otpKeyPrefix+"jane@example.com")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestUserService()

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq())
	var dup *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &dup)
}

func TestLoginUnverifiedIsRefused(t *testing.T) {
	svc, _, _ := newTestUserService()
	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &types.LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	var notVerified *ErrAccountNotVerified
	assert.ErrorAs(t, err, &notVerified)
}

func TestVerifyThenLogin(t *testing.T) {
	svc, _, codes := newTestUserService()
	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	code := codes.values[otpKeyPrefix+"jane@example.com"]
	user, err := svc.VerifyEmail(context.Background(), "jane@example.com", code)
	require.NoError(t, err)
	assert.True(t, user.Verified)

	loggedIn, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestVerifyWithWrongCode(t *testing.T) {
	svc, _, codes := newTestUserService()
	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	wrong := "000000"
	if codes.values[otpKeyPrefix+"jane@example.com"] == wrong {
		wrong = "000001"
	}

	_, err = svc.VerifyEmail(context.Background(), "jane@example.com", wrong)
	var invalid *ErrInvalidOTP
	assert.ErrorAs(t, err, &invalid)
}

func TestVerifyUnknownEmailLooksLikeWrongCode(t *testing.T) {
	svc, _, _ := newTestUserService()

	_, err := svc.VerifyEmail(context.Background(), "nobody@example.com", "123456")
	var invalid *ErrInvalidOTP
	assert.ErrorAs(t, err, &invalid)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, database, codes := newTestUserService()
	user, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	_ = codes
	require.NoError(t, database.SetUserVerified(context.Background(), user.ID, true))

	_, err = svc.Login(context.Background(), &types.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestUserService()

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}

func TestResendCodeSilentForUnknownEmail(t *testing.T) {
	svc, _, codes := newTestUserService()

	require.NoError(t, svc.ResendCode(context.Background(), "nobody@example.com"))
	assert.Empty(t, codes.values)
}

func TestResendCodeReissues(t *testing.T) {
	svc, _, codes := newTestUserService()
	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	require.NoError(t, svc.ResendCode(context.Background(), "jane@example.com"))
	assert.Contains(t, codes.values, otpKeyPrefix+"jane@example.com")
}

func TestInviteCreatesVerifiedUser(t *testing.T) {
	svc, _, _ := newTestUserService()

	user, password, err := svc.Invite(context.Background(), &types.InviteUserRequest{
		Name:  "Admin Pick",
		Email: "picked@example.com",
		Role:  types.RoleAdmin,
	})
	require.NoError(t, err)
	assert.True(t, user.Verified)
	assert.Equal(t, types.RoleAdmin, user.Role)
	require.NotEmpty(t, password)

	loggedIn, err := svc.Login(context.Background(), &types.LoginRequest{
		Email:    "picked@example.com",
		Password: password,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestInviteDefaultsToUserRole(t *testing.T) {
	svc, _, _ := newTestUserService()

	user, _, err := svc.Invite(context.Background(), &types.InviteUserRequest{
		Name:  "Plain",
		Email: "plain@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, types.RoleUser, user.Role)
}
