package api

import (
	"github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
)

// SignInRequest is the sign-in body.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the token refresh body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignOutRequest optionally names the refresh token to revoke with the
// access token.
type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// IDsRequest is the body of bulk deletions.
type IDsRequest struct {
	IDs []string `json:"ids"`
}

// StockRequest is the body of a manual stock adjustment.
type StockRequest struct {
	Amount    int               `json:"amount"`
	Direction catalog.Direction `json:"direction"`
}

// ProductionRequest is the body of a production confirmation.
type ProductionRequest struct {
	Quantity      int  `json:"quantity"`
	AllowOverflow bool `json:"allow_overflow"`
}

// FinishRequest is the body of a force-finish. Confirm must be true.
type FinishRequest struct {
	Confirm bool `json:"confirm"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
