package auth

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	"github.com/VinniciusRRosario/PMCsoftware/modules/database"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

// memoryThrottle blocks a key after limit recorded failures.
type memoryThrottle struct {
	mu       sync.Mutex
	limit    int
	failures map[string]int
}

func newMemoryThrottle(limit int) *memoryThrottle {
	return &memoryThrottle{limit: limit, failures: make(map[string]int)}
}

func (t *memoryThrottle) Blocked(_ context.Context, key string) (bool, time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures[key] >= t.limit, time.Minute, nil
}

func (t *memoryThrottle) RecordFailure(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures[key]++
	return nil
}

func (t *memoryThrottle) Reset(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failures, key)
	return nil
}

const (
	adminEmail    = "admin@example.com"
	adminPassword = "s3cret-pass"
)

func newTestService(t *testing.T, throttle SignInThrottle) *AuthService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth.db")
	db, err := database.Open(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      "file:" + path + "?_foreign_keys=1&_busy_timeout=5000",
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	svc := NewAuthService(
		NewUserRepository(db),
		NewPasswordHasher(bcrypt.MinCost),
		NewTokenManager(testTokenConfig()),
		NewMemoryRevocations(),
		throttle,
		nil,
		&mockLogger{},
	)
	require.NoError(t, svc.SeedAdmin(context.Background(), adminEmail, adminPassword))
	return svc
}

func TestAuthService_SignInAndSession(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	resp, err := svc.SignIn(ctx, SignInRequest{Email: "  Admin@Example.com ", Password: adminPassword})
	require.NoError(t, err)
	assert.Equal(t, adminEmail, resp.Email)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	session, err := svc.Session(ctx, SessionRequest{Token: resp.AccessToken})
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, session.UserID)
	assert.Equal(t, adminEmail, session.Email)
	assert.NotEmpty(t, session.TokenID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	_, err = svc.Session(ctx, SessionRequest{Token: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_SignInRejections(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		req      SignInRequest
		wantErr  error
		wantKind error
	}{
		{"missing email", SignInRequest{Password: adminPassword}, ErrCredentialsRequired, errs.ErrInvalidInput},
		{"missing password", SignInRequest{Email: adminEmail}, ErrCredentialsRequired, errs.ErrInvalidInput},
		{"wrong password", SignInRequest{Email: adminEmail, Password: "nope-nope"}, ErrInvalidCredentials, errs.ErrUnauthorized},
		{"unknown email", SignInRequest{Email: "who@example.com", Password: adminPassword}, ErrInvalidCredentials, errs.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignIn(ctx, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}
}

func TestAuthService_SignInThrottle(t *testing.T) {
	throttle := newMemoryThrottle(3)
	svc := newTestService(t, throttle)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, SignInRequest{Email: adminEmail, Password: "bad-1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, SignInRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err, "a success before the limit resets the counter")

	for i := 0; i < 3; i++ {
		_, err := svc.SignIn(ctx, SignInRequest{Email: adminEmail, Password: "bad"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err = svc.SignIn(ctx, SignInRequest{Email: adminEmail, Password: adminPassword})
	require.ErrorIs(t, err, ErrSignInThrottled)
	assert.ErrorIs(t, err, errs.ErrThrottled)

	_, err = svc.SignIn(ctx, SignInRequest{Email: "other@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "throttling is per email")
}

func TestAuthService_SignOutRevokes(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	resp, err := svc.SignIn(ctx, SignInRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	out := svc.SignOut(ctx, SignOutRequest{Token: resp.AccessToken, RefreshToken: resp.RefreshToken})
	assert.True(t, out.SignedOut)

	_, err = svc.Session(ctx, SessionRequest{Token: resp.AccessToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	other, err := svc.SignIn(ctx, SignInRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	_, err = svc.Session(ctx, SessionRequest{Token: other.AccessToken})
	assert.NoError(t, err, "signing out one session leaves others alive")
}

func TestAuthService_SignOutNeverFails(t *testing.T) {
	svc := newTestService(t, nil)

	out := svc.SignOut(context.Background(), SignOutRequest{Token: "garbage", RefreshToken: "also-garbage"})
	assert.True(t, out.SignedOut)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.SignIn(ctx, SignInRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, first.UserID, second.UserID)

	_, err = svc.Session(ctx, SessionRequest{Token: second.AccessToken})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: first.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_SeedAdmin(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.SeedAdmin(ctx, adminEmail, adminPassword), "seeding twice is a no-op")

	require.NoError(t, svc.SeedAdmin(ctx, adminEmail, "new-password"))
	_, err := svc.SignIn(ctx, SignInRequest{Email: adminEmail, Password: adminPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, SignInRequest{Email: adminEmail, Password: "new-password"})
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.SeedAdmin(ctx, "not-an-email", adminPassword), ErrInvalidEmail)
	assert.ErrorIs(t, svc.SeedAdmin(ctx, "x@example.com", "short"), ErrWeakPassword)
}

func TestMemoryRevocations_Lapse(t *testing.T) {
	store := NewMemoryRevocations()
	ctx := context.Background()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, store.Revoke(ctx, "b", now.Add(-time.Minute)))

	revoked, err := store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, _ = store.IsRevoked(ctx, "b")
	assert.False(t, revoked, "already-expired tokens are not stored")

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	revoked, _ = store.IsRevoked(ctx, "a")
	assert.False(t, revoked)
}
