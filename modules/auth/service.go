package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"

	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	domain "github.com/VinniciusRRosario/PMCsoftware/domain/user"
	"github.com/VinniciusRRosario/PMCsoftware/events"
)

var (
	// ErrCredentialsRequired is returned when email or password is empty.
	ErrCredentialsRequired = errs.New(errs.ErrInvalidInput, "email and password are required")
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = errs.New(errs.ErrUnauthorized, "invalid email or password")
	// ErrSignInThrottled is returned after too many failed sign-ins.
	ErrSignInThrottled = errs.New(errs.ErrThrottled, "sign-in temporarily blocked")
	// ErrInvalidEmail is returned when the email is malformed.
	ErrInvalidEmail = errs.New(errs.ErrInvalidInput, "invalid email format")
	// ErrWeakPassword is returned when the password is outside 8..72 bytes.
	ErrWeakPassword = errs.New(errs.ErrInvalidInput, "password must be between 8 and 72 characters")
)

// UserStore is the persistence the service needs.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AuthService handles sign-in, session checks and sign-out.
type AuthService struct {
	users       UserStore
	hasher      *PasswordHasher
	tokens      *TokenManager
	revocations RevocationStore
	throttle    SignInThrottle
	eventBus    mono.EventBus
	logger      types.Logger
}

// NewAuthService creates an AuthService. A nil throttle disables sign-in
// throttling; a nil revocation store keeps revocations in memory.
func NewAuthService(
	users UserStore,
	hasher *PasswordHasher,
	tokens *TokenManager,
	revocations RevocationStore,
	throttle SignInThrottle,
	bus mono.EventBus,
	logger types.Logger,
) *AuthService {
	if revocations == nil {
		revocations = NewMemoryRevocations()
	}
	return &AuthService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		revocations: revocations,
		throttle:    throttle,
		eventBus:    bus,
		logger:      logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn checks the credential pair and issues a token pair.
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest) (SignInResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return SignInResponse{}, ErrCredentialsRequired
	}

	if s.throttle != nil {
		blocked, retryAfter, err := s.throttle.Blocked(ctx, email)
		if err != nil {
			s.logger.Warn("Sign-in throttle unavailable", "error", err)
		} else if blocked {
			s.logger.Warn("Sign-in throttled", "email", email, "retry_after", retryAfter.String())
			return SignInResponse{}, ErrSignInThrottled
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return SignInResponse{}, err
	}
	if user == nil || !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return SignInResponse{}, ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn("Failed to reset sign-in throttle", "email", email, "error", err)
		}
	}

	resp, err := s.issue(user)
	if err != nil {
		return SignInResponse{}, err
	}

	if s.eventBus != nil {
		event := events.UserSignedInEvent{
			UserID:     user.ID,
			Email:      user.Email,
			SignedInAt: time.Now(),
		}
		if err := events.UserSignedInV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish UserSignedIn event", "user_id", user.ID, "error", err)
		}
	}

	s.logger.Info("User signed in", "user_id", user.ID)
	return resp, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("Failed to record sign-in failure", "email", email, "error", err)
	}
}

// Session returns the session behind a live access token.
func (s *AuthService) Session(ctx context.Context, req SessionRequest) (domain.Session, error) {
	claims, err := s.tokens.ParseAccess(req.Token)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		UserID:    claims.UserID,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (SignInResponse, error) {
	claims, err := s.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		return SignInResponse{}, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return SignInResponse{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return SignInResponse{}, ErrInvalidToken
		}
		return SignInResponse{}, err
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return SignInResponse{}, err
	}
	return s.issue(user)
}

// SignOut revokes the presented tokens. It never fails; problems are logged.
func (s *AuthService) SignOut(ctx context.Context, req SignOutRequest) SignOutResponse {
	claims, err := s.tokens.ParseAccess(req.Token)
	if err != nil {
		s.logger.Warn("Sign-out with unusable access token", "error", err)
	} else if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error("Failed to revoke access token", "user_id", claims.UserID, "error", err)
	}

	if req.RefreshToken != "" {
		refresh, err := s.tokens.ParseRefresh(req.RefreshToken)
		if err != nil {
			s.logger.Warn("Sign-out with unusable refresh token", "error", err)
		} else if err := s.revocations.Revoke(ctx, refresh.ID, refresh.ExpiresAt.Time); err != nil {
			s.logger.Error("Failed to revoke refresh token", "user_id", refresh.UserID, "error", err)
		}
	}

	if claims != nil {
		if s.eventBus != nil {
			event := events.UserSignedOutEvent{
				UserID:      claims.UserID,
				Email:       claims.Email,
				SignedOutAt: time.Now(),
			}
			if err := events.UserSignedOutV1.Publish(s.eventBus, event, nil); err != nil {
				s.logger.Warn("Failed to publish UserSignedOut event", "user_id", claims.UserID, "error", err)
			}
		}
		s.logger.Info("User signed out", "user_id", claims.UserID)
	}
	return SignOutResponse{SignedOut: true}
}

// SeedAdmin makes sure an operator with the given credentials exists. An
// existing account whose password differs gets the new password.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if len(password) < 8 || len(password) > 72 {
		return ErrWeakPassword
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return err
	}
	if existing != nil {
		if s.hasher.Verify(password, existing.PasswordHash) {
			return nil
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.users.UpdatePassword(ctx, existing.ID, hash); err != nil {
			return err
		}
		s.logger.Info("Admin password updated", "user_id", existing.ID)
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Admin user created", "user_id", user.ID)
	return nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *Claims) error {
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("failed to check token: %w", err)
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func (s *AuthService) issue(user *domain.User) (SignInResponse, error) {
	access, refresh, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return SignInResponse{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return SignInResponse{
		TokenPair: domain.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
		UserID: user.ID,
		Email:  user.Email,
	}, nil
}
