package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/types"
)

// DBClient is the subset of database operations the user service needs.
type DBClient interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email, passwordHash, role string, verified bool) (uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	SetUserVerified(ctx context.Context, userID uuid.UUID, verified bool) error
}

// UserService provides business logic for account operations.
type UserService struct {
	db             DBClient
	passwordConfig *config.PasswordConfig
	otp            *OTPService
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(db DBClient, passwordConfig *config.PasswordConfig, otp *OTPService) *UserService {
	return &UserService{
		db:             db,
		passwordConfig: passwordConfig,
		otp:            otp,
	}
}

// convertDBUserToTypesUser converts db.User to types.User, excluding the
// password hash.
func convertDBUserToTypesUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:        dbUser.ID,
		Name:      dbUser.Name,
		Email:     dbUser.Email,
		Role:      dbUser.Role,
		Verified:  dbUser.Verified,
		CreatedAt: dbUser.CreatedAt,
		UpdatedAt: dbUser.UpdatedAt,
	}
}

// Register creates an unverified account and issues a verification code.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.db.CreateUser(ctx, req.Name, req.Email, passwordHash, types.RoleUser, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := s.otp.Issue(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to issue verification code: %w", err)
	}

	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// Login authenticates a verified user.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Same error for unknown email and wrong password.
	if dbUser == nil {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	if !dbUser.Verified {
		return nil, &ErrAccountNotVerified{Email: dbUser.Email}
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// VerifyEmail consumes a verification code and marks the account verified.
func (s *UserService) VerifyEmail(ctx context.Context, email, code string) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	// Unknown email behaves like a wrong code.
	if dbUser == nil {
		return nil, &ErrInvalidOTP{}
	}

	ok, err := s.otp.Verify(ctx, email, code)
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if !ok {
		return nil, &ErrInvalidOTP{}
	}

	if !dbUser.Verified {
		if err := s.db.SetUserVerified(ctx, dbUser.ID, true); err != nil {
			return nil, fmt.Errorf("failed to mark user verified: %w", err)
		}
		dbUser.Verified = true
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// ResendCode issues a fresh verification code. Unknown or already
// verified emails succeed silently so the endpoint does not reveal which
// accounts exist.
func (s *UserService) ResendCode(ctx context.Context, email string) error {
	dbUser, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if dbUser == nil || dbUser.Verified {
		return nil
	}

	_, err = s.otp.Issue(ctx, email)
	return err
}

// Invite creates a pre-verified account with a generated password.
// Returns the user and the one-time password.
func (s *UserService) Invite(ctx context.Context, req *types.InviteUserRequest) (*types.User, string, error) {
	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, "", &ErrEmailAlreadyExists{Email: req.Email}
	}

	password, err := randomPassword()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate password: %w", err)
	}
	passwordHash, err := s.passwordConfig.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = types.RoleUser
	}
	userID, err := s.db.CreateUser(ctx, req.Name, req.Email, passwordHash, role, true)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, "", fmt.Errorf("created user not found: %s", userID)
	}

	return convertDBUserToTypesUser(dbUser), password, nil
}

func randomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
