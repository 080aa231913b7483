package auth

import (
	"errors"
	"testing"
	"time"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		SecretKey:  "test-secret-key",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Issuer:     "test-issuer",
	}
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	access, refresh, err := manager.IssuePair("user-123", "ops@example.com")
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("IssuePair() returned an empty token")
	}

	claims, err := manager.ParseAccess(access)
	if err != nil {
		t.Fatalf("ParseAccess() error = %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("claims.UserID = %v, want %v", claims.UserID, "user-123")
	}
	if claims.Email != "ops@example.com" {
		t.Errorf("claims.Email = %v, want %v", claims.Email, "ops@example.com")
	}
	if claims.ID == "" {
		t.Error("claims.ID is empty")
	}

	refreshClaims, err := manager.ParseRefresh(refresh)
	if err != nil {
		t.Fatalf("ParseRefresh() error = %v", err)
	}
	if refreshClaims.ID == claims.ID {
		t.Error("access and refresh tokens share a token ID")
	}
}

func TestTokenManager_TokenTypeMismatch(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())
	access, refresh, err := manager.IssuePair("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}

	if _, err := manager.ParseAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseAccess(refresh) error = %v, want %v", err, ErrInvalidToken)
	}
	if _, err := manager.ParseRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseRefresh(access) error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestTokenManager_Rejections(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())
	access, _, err := manager.IssuePair("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}

	otherKey := testTokenConfig()
	otherKey.SecretKey = "another-secret"
	otherIssuer := testTokenConfig()
	otherIssuer.Issuer = "someone-else"

	tests := []struct {
		name    string
		manager *TokenManager
		token   string
		wantErr error
	}{
		{"empty", manager, "", ErrInvalidToken},
		{"garbage", manager, "not-a-jwt", ErrInvalidToken},
		{"tampered", manager, access + "x", ErrInvalidToken},
		{"wrong secret", NewTokenManager(otherKey), access, ErrInvalidToken},
		{"wrong issuer", NewTokenManager(otherIssuer), access, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.manager.ParseAccess(tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseAccess() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenManager_Expired(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())
	manager.now = func() time.Time { return time.Now().Add(-time.Hour) }
	access, _, err := manager.IssuePair("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}

	manager.now = time.Now
	if _, err := manager.ParseAccess(access); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ParseAccess() error = %v, want %v", err, ErrExpiredToken)
	}
}

func TestTokenManager_Defaults(t *testing.T) {
	manager := NewTokenManager(TokenConfig{SecretKey: "k"})
	if manager.AccessTTL() != 15*time.Minute {
		t.Errorf("AccessTTL() = %v, want 15m", manager.AccessTTL())
	}
}
