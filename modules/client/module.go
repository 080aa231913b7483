package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/VinniciusRRosario/PMCsoftware/modules/database"
)

// Module exposes the client registry as request-reply services.
type Module struct {
	database *database.PluginModule
	service  *ClientServiceImpl
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the client module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		logger: logger.WithModule("client"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "client"
}

// SetPlugin receives the database plugin from the framework.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "database" {
		return
	}
	db, ok := plugin.(*database.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for database",
			"alias", alias,
			"expected", "*database.PluginModule")
		return
	}
	m.database = db
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-clients", json.Unmarshal, json.Marshal, m.listClients,
	); err != nil {
		return fmt.Errorf("failed to register list-clients service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-client", json.Unmarshal, json.Marshal, m.getClient,
	); err != nil {
		return fmt.Errorf("failed to register get-client service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-client", json.Unmarshal, json.Marshal, m.createClient,
	); err != nil {
		return fmt.Errorf("failed to register create-client service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-client", json.Unmarshal, json.Marshal, m.updateClient,
	); err != nil {
		return fmt.Errorf("failed to register update-client service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-client", json.Unmarshal, json.Marshal, m.deleteClient,
	); err != nil {
		return fmt.Errorf("failed to register delete-client service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "list-clients, get-client, create-client, update-client, delete-client")
	return nil
}

// Start builds the service on top of the shared connection.
func (m *Module) Start(_ context.Context) error {
	if m.database == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}
	db := m.database.DB()
	if db == nil {
		return fmt.Errorf("database plugin not started")
	}

	m.service = NewClientService(NewRepository(db), m.logger)
	m.logger.Info("Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health reports whether the module is ready to serve.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

func (m *Module) listClients(ctx context.Context, req ListClientsRequest, _ *mono.Msg) (ListClientsResponse, error) {
	return m.service.List(ctx, req)
}

func (m *Module) getClient(ctx context.Context, req GetClientRequest, _ *mono.Msg) (ClientResponse, error) {
	return m.service.Get(ctx, req)
}

func (m *Module) createClient(ctx context.Context, req CreateClientRequest, _ *mono.Msg) (ClientResponse, error) {
	return m.service.Create(ctx, req)
}

func (m *Module) updateClient(ctx context.Context, req UpdateClientRequest, _ *mono.Msg) (ClientResponse, error) {
	return m.service.Update(ctx, req)
}

func (m *Module) deleteClient(ctx context.Context, req DeleteClientRequest, _ *mono.Msg) (DeleteClientResponse, error) {
	return m.service.Delete(ctx, req)
}
