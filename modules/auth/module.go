package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"

	domain "github.com/VinniciusRRosario/PMCsoftware/domain/user"
	"github.com/VinniciusRRosario/PMCsoftware/events"
	"github.com/VinniciusRRosario/PMCsoftware/modules/database"
)

// Config configures the auth module.
type Config struct {
	Tokens        TokenConfig
	BcryptCost    int
	RedisAddr     string
	RedisPassword string
	KeyPrefix     string
	Throttle      ThrottleConfig
	AdminEmail    string
	AdminPassword string
}

// Module provides authentication services.
type Module struct {
	cfg      Config
	database *database.PluginModule
	redis    *redis.Client
	service  *AuthService
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the auth module.
func NewModule(cfg Config, logger types.Logger) *Module {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "pmc:auth:"
	}
	return &Module{
		cfg:    cfg,
		logger: logger.WithModule("auth"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "auth"
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

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserSignedInV1.ToBase(),
		events.UserSignedOutV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "sign-in", json.Unmarshal, json.Marshal, m.signIn,
	); err != nil {
		return fmt.Errorf("failed to register sign-in service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "session", json.Unmarshal, json.Marshal, m.session,
	); err != nil {
		return fmt.Errorf("failed to register session service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "refresh-token", json.Unmarshal, json.Marshal, m.refresh,
	); err != nil {
		return fmt.Errorf("failed to register refresh-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "sign-out", json.Unmarshal, json.Marshal, m.signOut,
	); err != nil {
		return fmt.Errorf("failed to register sign-out service: %w", err)
	}

	m.logger.Info("Registered services", "services", "sign-in, session, refresh-token, sign-out")
	return nil
}

// Start connects the optional Redis stores, builds the service and seeds
// the admin account.
func (m *Module) Start(ctx context.Context) error {
	if m.database == nil {
		return fmt.Errorf("required plugin 'database' not registered")
	}
	db := m.database.DB()
	if db == nil {
		return fmt.Errorf("database plugin not started")
	}
	if m.cfg.Tokens.SecretKey == "" {
		return fmt.Errorf("JWT secret key is required")
	}

	var (
		revocations RevocationStore
		throttle    SignInThrottle
	)
	if m.cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     m.cfg.RedisAddr,
			Password: m.cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			m.logger.Warn("Redis unreachable, using in-memory revocations without throttling",
				"addr", m.cfg.RedisAddr, "error", err)
			_ = client.Close()
		} else {
			m.redis = client
			revocations = NewRedisRevocations(client, m.cfg.KeyPrefix)
			throttle = NewRedisThrottle(client, m.cfg.Throttle, m.cfg.KeyPrefix)
		}
	}

	m.service = NewAuthService(
		NewUserRepository(db),
		NewPasswordHasher(m.cfg.BcryptCost),
		NewTokenManager(m.cfg.Tokens),
		revocations,
		throttle,
		m.eventBus,
		m.logger,
	)

	if m.cfg.AdminEmail != "" {
		if err := m.service.SeedAdmin(ctx, m.cfg.AdminEmail, m.cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
	}

	m.logger.Info("Module started", "redis", m.redis != nil)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.redis != nil {
		if err := m.redis.Close(); err != nil {
			m.logger.Warn("Failed to close Redis connection", "error", err)
		}
	}
	m.logger.Info("Module stopped")
	return nil
}

// Health reports the module state and which revocation store is in use.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}

	store := "memory"
	if m.redis != nil {
		store = "redis"
		if err := m.redis.Ping(ctx).Err(); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("redis ping failed: %v", err),
			}
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"revocations": store,
			"throttle":    m.redis != nil,
		},
	}
}

func (m *Module) signIn(ctx context.Context, req SignInRequest, _ *mono.Msg) (SignInResponse, error) {
	return m.service.SignIn(ctx, req)
}

func (m *Module) session(ctx context.Context, req SessionRequest, _ *mono.Msg) (domain.Session, error) {
	return m.service.Session(ctx, req)
}

func (m *Module) refresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (SignInResponse, error) {
	return m.service.Refresh(ctx, req)
}

func (m *Module) signOut(ctx context.Context, req SignOutRequest, _ *mono.Msg) (SignOutResponse, error) {
	return m.service.SignOut(ctx, req), nil
}
