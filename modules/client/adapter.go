package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
)

// ClientPort is the client registry API for other modules.
type ClientPort interface {
	ListClients(ctx context.Context, name string) (*ListClientsResponse, error)
	GetClient(ctx context.Context, id string) (*ClientResponse, error)
	CreateClient(ctx context.Context, req *CreateClientRequest) (*ClientResponse, error)
	UpdateClient(ctx context.Context, req *UpdateClientRequest) (*ClientResponse, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientAdapter struct {
	container mono.ServiceContainer
}

// NewClientAdapter creates a ClientPort for the client module's container.
func NewClientAdapter(container mono.ServiceContainer) ClientPort {
	if container == nil {
		panic("client adapter requires non-nil ServiceContainer")
	}
	return &clientAdapter{container: container}
}

func (a *clientAdapter) ListClients(ctx context.Context, name string) (*ListClientsResponse, error) {
	var resp ListClientsResponse
	if err := callService(ctx, a.container, "list-clients", &ListClientsRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *clientAdapter) GetClient(ctx context.Context, id string) (*ClientResponse, error) {
	var resp ClientResponse
	if err := callService(ctx, a.container, "get-client", &GetClientRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *clientAdapter) CreateClient(ctx context.Context, req *CreateClientRequest) (*ClientResponse, error) {
	var resp ClientResponse
	if err := callService(ctx, a.container, "create-client", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *clientAdapter) UpdateClient(ctx context.Context, req *UpdateClientRequest) (*ClientResponse, error) {
	var resp ClientResponse
	if err := callService(ctx, a.container, "update-client", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *clientAdapter) DeleteClient(ctx context.Context, id string) error {
	var resp DeleteClientResponse
	if err := callService(ctx, a.container, "delete-client", &DeleteClientRequest{ID: id}, &resp); err != nil {
		return err
	}
	if !resp.Deleted {
		return fmt.Errorf("client not deleted: %s", id)
	}
	return nil
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
