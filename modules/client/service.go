package client

import (
	"context"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"

	domain "github.com/VinniciusRRosario/PMCsoftware/domain/client"
	"github.com/VinniciusRRosario/PMCsoftware/domain/errs"
)

// Validation errors (exported for error checking via errors.Is).
var (
	ErrIDRequired = errs.New(errs.ErrInvalidInput, "client id is required")
	ErrIDInvalid  = errs.New(errs.ErrInvalidInput, "client id is not a valid UUID")
)

// ClientRepository is the storage used by the client service.
type ClientRepository interface {
	List(ctx context.Context, name string) ([]domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, c *domain.Client) error
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}

// ClientService defines the client registry operations.
type ClientService interface {
	List(ctx context.Context, req ListClientsRequest) (ListClientsResponse, error)
	Get(ctx context.Context, req GetClientRequest) (ClientResponse, error)
	Create(ctx context.Context, req CreateClientRequest) (ClientResponse, error)
	Update(ctx context.Context, req UpdateClientRequest) (ClientResponse, error)
	Delete(ctx context.Context, req DeleteClientRequest) (DeleteClientResponse, error)
}

// ClientServiceImpl implements ClientService.
type ClientServiceImpl struct {
	repo   ClientRepository
	logger types.Logger
}

var _ ClientService = (*ClientServiceImpl)(nil)

// NewClientService creates the client service.
func NewClientService(repo ClientRepository, logger types.Logger) *ClientServiceImpl {
	return &ClientServiceImpl{repo: repo, logger: logger}
}

func (s *ClientServiceImpl) List(ctx context.Context, req ListClientsRequest) (ListClientsResponse, error) {
	clients, err := s.repo.List(ctx, req.Name)
	if err != nil {
		return ListClientsResponse{}, err
	}

	resp := ListClientsResponse{
		Clients: make([]ClientResponse, 0, len(clients)),
		Total:   len(clients),
	}
	for i := range clients {
		resp.Clients = append(resp.Clients, toClientResponse(&clients[i]))
	}
	return resp, nil
}

func (s *ClientServiceImpl) Get(ctx context.Context, req GetClientRequest) (ClientResponse, error) {
	if err := validateID(req.ID); err != nil {
		return ClientResponse{}, err
	}
	c, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return ClientResponse{}, err
	}
	return toClientResponse(c), nil
}

func (s *ClientServiceImpl) Create(ctx context.Context, req CreateClientRequest) (ClientResponse, error) {
	now := time.Now()
	c := &domain.Client{
		ID:          uuid.New().String(),
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Address:     req.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Validate(); err != nil {
		return ClientResponse{}, errs.Invalid(err)
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return ClientResponse{}, err
	}

	s.logger.Info("Client created", "id", c.ID)
	return toClientResponse(c), nil
}

func (s *ClientServiceImpl) Update(ctx context.Context, req UpdateClientRequest) (ClientResponse, error) {
	if err := validateID(req.ID); err != nil {
		return ClientResponse{}, err
	}
	changes := &domain.Client{
		ID:          req.ID,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Address:     req.Address,
	}
	if err := changes.Validate(); err != nil {
		return ClientResponse{}, errs.Invalid(err)
	}
	if err := s.repo.Update(ctx, changes); err != nil {
		return ClientResponse{}, err
	}

	c, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return ClientResponse{}, err
	}
	return toClientResponse(c), nil
}

// Delete removes a client. Clients referenced by orders are kept and
// ErrClientHasOrders is returned.
func (s *ClientServiceImpl) Delete(ctx context.Context, req DeleteClientRequest) (DeleteClientResponse, error) {
	if err := validateID(req.ID); err != nil {
		return DeleteClientResponse{}, err
	}
	if err := s.repo.Delete(ctx, req.ID); err != nil {
		return DeleteClientResponse{}, err
	}

	s.logger.Info("Client deleted", "id", req.ID)
	return DeleteClientResponse{Deleted: true}, nil
}

func validateID(id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrIDInvalid
	}
	return nil
}
