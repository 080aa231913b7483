package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
	domain "github.com/VinniciusRRosario/PMCsoftware/domain/user"
)

// AuthPort is the authentication API used by the HTTP layer.
type AuthPort interface {
	SignIn(ctx context.Context, email, password string) (*SignInResponse, error)
	Session(ctx context.Context, token string) (*domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*SignInResponse, error)
	SignOut(ctx context.Context, token, refreshToken string) error
}

type authAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates an AuthPort for the auth module's container.
func NewAuthAdapter(container mono.ServiceContainer) AuthPort {
	if container == nil {
		panic("auth adapter requires non-nil ServiceContainer")
	}
	return &authAdapter{container: container}
}

func (a *authAdapter) SignIn(ctx context.Context, email, password string) (*SignInResponse, error) {
	var resp SignInResponse
	req := SignInRequest{Email: email, Password: password}
	if err := callService(ctx, a.container, "sign-in", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *authAdapter) Session(ctx context.Context, token string) (*domain.Session, error) {
	var resp domain.Session
	if err := callService(ctx, a.container, "session", &SessionRequest{Token: token}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *authAdapter) Refresh(ctx context.Context, refreshToken string) (*SignInResponse, error) {
	var resp SignInResponse
	if err := callService(ctx, a.container, "refresh-token", &RefreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *authAdapter) SignOut(ctx context.Context, token, refreshToken string) error {
	var resp SignOutResponse
	req := SignOutRequest{Token: token, RefreshToken: refreshToken}
	return callService(ctx, a.container, "sign-out", &req, &resp)
}

func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, errs.FromRemote(err))
	}
	return nil
}
