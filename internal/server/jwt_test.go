package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/types"
)

func testJWTService(secret string) *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: secret, ExpirationHours: 1})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testJWTService("test-secret-for-tokens")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, types.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
	assert.Equal(t, types.RoleAdmin, claims.GetRole())
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := testJWTService("secret-one").GenerateToken(uuid.New(), types.RoleUser)
	require.NoError(t, err)

	_, err = testJWTService("secret-two").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenEmpty(t *testing.T) {
	_, err := testJWTService("test-secret").ValidateToken("")
	assert.Error(t, err)
}

func TestValidateTokenMalformed(t *testing.T) {
	_, err := testJWTService("test-secret").ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestTokenValidatorAdapter(t *testing.T) {
	svc := testJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, types.RoleUser)
	require.NoError(t, err)

	claims, err := svc.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
	assert.Equal(t, types.RoleUser, claims.GetRole())
}
