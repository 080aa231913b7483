package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
)

// Token errors. All of them are authorization failures.
var (
	ErrInvalidToken = errs.New(errs.ErrUnauthorized, "invalid token")
	ErrExpiredToken = errs.New(errs.ErrUnauthorized, "token has expired")
	ErrTokenRevoked = errs.New(errs.ErrUnauthorized, "token has been revoked")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenConfig holds the signing key and token lifetimes.
type TokenConfig struct {
	SecretKey  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

func (c TokenConfig) withDefaults() TokenConfig {
	if c.AccessTTL <= 0 {
		c.AccessTTL = 15 * time.Minute
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = 7 * 24 * time.Hour
	}
	if c.Issuer == "" {
		c.Issuer = "pmc-backoffice"
	}
	return c
}

// Claims are the JWT claims issued at sign-in. The registered ID claim is
// unique per token and is what sign-out revokes.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens.
type TokenManager struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. Zero lifetimes take defaults.
func NewTokenManager(config TokenConfig) *TokenManager {
	return &TokenManager{
		config: config.withDefaults(),
		now:    time.Now,
	}
}

// IssuePair signs a fresh access and refresh token for the user.
func (m *TokenManager) IssuePair(userID, email string) (accessToken, refreshToken string, err error) {
	accessToken, err = m.sign(userID, email, tokenTypeAccess, m.config.AccessTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = m.sign(userID, email, tokenTypeRefresh, m.config.RefreshTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (m *TokenManager) sign(userID, email, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.config.SecretKey))
}

// ParseAccess verifies an access token.
func (m *TokenManager) ParseAccess(token string) (*Claims, error) {
	return m.parse(token, tokenTypeAccess)
}

// ParseRefresh verifies a refresh token.
func (m *TokenManager) ParseRefresh(token string) (*Claims, error) {
	return m.parse(token, tokenTypeRefresh)
}

func (m *TokenManager) parse(token, tokenType string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	}, jwt.WithIssuer(m.config.Issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.TokenType != tokenType || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessTTL returns the access token lifetime.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.config.AccessTTL
}
