package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix = "otp:"
	otpTTL       = 10 * time.Minute
	otpDigits    = 6
)

// CodeStore is the key-value backend for verification codes. The redis
// client satisfies the calls directly; tests use an in-memory fake.
type CodeStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// OTPService issues and checks email verification codes. Codes live for
// ten minutes and are single use.
type OTPService struct {
	store CodeStore
}

// NewOTPService creates an OTP service backed by the given store.
func NewOTPService(store CodeStore) *OTPService {
	return &OTPService{store: store}
}

// Issue generates a fresh code for the email, replacing any previous one.
// Mail delivery is outside this service; the code is logged for the
// delivery pipeline to pick up.
func (s *OTPService) Issue(ctx context.Context, email string) (string, error) {
	code, err := randomCode(otpDigits)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	if err := s.store.Set(ctx, otpKeyPrefix+email, code, otpTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store verification code: %w", err)
	}

	log.Printf("[otp] verification code issued for %s", email)
	return code, nil
}

// Verify checks the code for the email and consumes it on success.
func (s *OTPService) Verify(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.store.Get(ctx, otpKeyPrefix+email).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read verification code: %w", err)
	}
	if stored != code {
		return false, nil
	}

	if err := s.store.Del(ctx, otpKeyPrefix+email).Err(); err != nil {
		return false, fmt.Errorf("failed to consume verification code: %w", err)
	}
	return true, nil
}

// randomCode returns a zero-padded numeric code of the given length.
func randomCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
