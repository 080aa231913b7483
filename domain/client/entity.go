package client

import (
	"errors"
	"strings"
	"time"
)

// Validation errors for client input.
var (
	ErrNameRequired  = errors.New("client name is required")
	ErrPhoneRequired = errors.New("client phone is required")
)

// Client is a customer that places orders.
type Client struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:200;not null;index" json:"name"`
	CompanyName string    `gorm:"size:200" json:"company_name"`
	Phone       string    `gorm:"size:50;not null" json:"phone"`
	Address     string    `gorm:"size:500" json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for Client.
func (Client) TableName() string {
	return "clients"
}

// Validate checks the required contact fields.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrPhoneRequired
	}
	return nil
}
