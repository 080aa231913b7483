package auth

import (
	domain "github.com/VinniciusRRosario/PMCsoftware/domain/user"
)

// SignInRequest carries the credential pair.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse is the issued token pair and the signed-in user.
type SignInResponse struct {
	domain.TokenPair
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// SessionRequest asks whether an access token is a live session.
type SessionRequest struct {
	Token string `json:"token"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignOutRequest revokes the access token and, when given, its refresh token.
type SignOutRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SignOutResponse always reports success; failures are only logged.
type SignOutResponse struct {
	SignedOut bool `json:"signed_out"`
}
