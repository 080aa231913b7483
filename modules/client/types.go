package client

import (
	"time"

	domain "github.com/VinniciusRRosario/PMCsoftware/domain/client"
)

// ClientResponse is the client representation returned by the registry.
type ClientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListClientsRequest filters the client list by name.
type ListClientsRequest struct {
	Name string `json:"name,omitempty"`
}

// ListClientsResponse is the list-clients result.
type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
	Total   int              `json:"total"`
}

// GetClientRequest identifies a client.
type GetClientRequest struct {
	ID string `json:"id"`
}

// CreateClientRequest is the create-client request.
type CreateClientRequest struct {
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// UpdateClientRequest replaces all fields of a client.
type UpdateClientRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// DeleteClientRequest identifies the client to delete.
type DeleteClientRequest struct {
	ID string `json:"id"`
}

// DeleteClientResponse confirms a deletion.
type DeleteClientResponse struct {
	Deleted bool `json:"deleted"`
}

func toClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		CompanyName: c.CompanyName,
		Phone:       c.Phone,
		Address:     c.Address,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
