package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// PluginModule owns the shared database connection. Plugins start before
// regular modules and stop after them, so every ledger module can rely on
// the connection for its whole lifetime.
type PluginModule struct {
	container types.ServiceContainer
	cfg       Config
	logger    types.Logger

	mu sync.RWMutex
	db *gorm.DB
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates the database plugin.
func NewPluginModule(cfg Config, logger types.Logger) *PluginModule {
	return &PluginModule{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "database"
}

// Start opens the connection and migrates the schema.
func (m *PluginModule) Start(_ context.Context) error {
	db, err := Open(m.cfg)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}

	m.mu.Lock()
	m.db = db
	m.mu.Unlock()

	m.logger.Info("Database plugin started", "driver", m.driverName())
	return nil
}

// Stop closes the connection.
func (m *PluginModule) Stop(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	m.db = nil
	m.logger.Info("Database plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// DB returns the open connection, or nil before Start.
func (m *PluginModule) DB() *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Health pings the database.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	db := m.DB()
	if db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	stats := sqlDB.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver":           m.driverName(),
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
		},
	}
}

func (m *PluginModule) driverName() string {
	if m.cfg.Driver == "" {
		return DriverSQLite
	}
	return m.cfg.Driver
}
