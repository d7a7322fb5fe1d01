package server

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCodeStore is an in-memory CodeStore for tests.
type memCodeStore struct {
	values map[string]string
}

func newMemCodeStore() *memCodeStore {
	return &memCodeStore{values: map[string]string{}}
}

func (m *memCodeStore) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (m *memCodeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memCodeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := m.values[key]; ok {
			delete(m.values, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestIssueAndVerify(t *testing.T) {
	svc := NewOTPService(newMemCodeStore())
	ctx := context.Background()

	code, err := svc.Issue(ctx, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	ok, err := svc.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyConsumesCode(t *testing.T) {
	svc := NewOTPService(newMemCodeStore())
	ctx := context.Background()

	code, err := svc.Issue(ctx, "jane@example.com")
	require.NoError(t, err)

	ok, err := svc.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	require.True(t, ok)

	// Second use fails.
	ok, err = svc.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyWrongCode(t *testing.T) {
	svc := NewOTPService(newMemCodeStore())
	ctx := context.Background()

	_, err := svc.Issue(ctx, "jane@example.com")
	require.NoError(t, err)

	ok, err := svc.Verify(ctx, "jane@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUnknownEmail(t *testing.T) {
	svc := NewOTPService(newMemCodeStore())

	ok, err := svc.Verify(context.Background(), "nobody@example.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIssueReplacesPreviousCode(t *testing.T) {
	svc := NewOTPService(newMemCodeStore())
	ctx := context.Background()

	first, err := svc.Issue(ctx, "jane@example.com")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, "jane@example.com")
	require.NoError(t, err)

	if first != second {
		ok, err := svc.Verify(ctx, "jane@example.com", first)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	ok, err := svc.Verify(ctx, "jane@example.com", second)
	require.NoError(t, err)
	assert.True(t, ok)
}
