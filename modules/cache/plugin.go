package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/storage"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/storage/redis/v3"
)

// Config holds the Redis connection and cache policy.
type Config struct {
	Addr     string
	Password string
	Prefix   string
	TTL      time.Duration
}

// PluginModule provides caching as a mono plugin. It is registered only when
// Redis is configured; consumers treat a missing cache as a pass-through.
type PluginModule struct {
	container types.ServiceContainer
	storage   storage.Storage
	service   CacheService
	cfg       Config
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates the cache plugin.
func NewPluginModule(cfg Config, logger types.Logger) *PluginModule {
	if cfg.Prefix == "" {
		cfg.Prefix = "pmc:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return &PluginModule{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "cache"
}

// Start connects to Redis.
func (m *PluginModule) Start(_ context.Context) error {
	host, port := parseRedisAddr(m.cfg.Addr)
	m.storage = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: m.cfg.Password,
		PoolSize: 20,
	})
	m.service = NewCacheService(m.storage, m.cfg.Prefix, m.cfg.TTL)
	m.logger.Info("Cache plugin started", "addr", m.cfg.Addr, "prefix", m.cfg.Prefix, "ttl", m.cfg.TTL.String())
	return nil
}

// Stop closes the Redis connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.service != nil {
		if err := m.service.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	m.logger.Info("Cache plugin stopped")
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

// Port returns the CacheService for consumers, or nil before Start.
func (m *PluginModule) Port() CacheService {
	return m.service
}

// Health probes Redis with a read of a missing key.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.storage == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	if _, err := m.storage.GetWithContext(ctx, "__health_check__"); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.cfg.Addr,
			"prefix":     m.cfg.Prefix,
			"ttl":        m.cfg.TTL.String(),
		},
	}
}

// parseRedisAddr splits "host:port", falling back to 127.0.0.1:6379.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
