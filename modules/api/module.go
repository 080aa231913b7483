package api

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/VinniciusRRosario/PMCsoftware/modules/auth"
	"github.com/VinniciusRRosario/PMCsoftware/modules/catalog"
	"github.com/VinniciusRRosario/PMCsoftware/modules/client"
	"github.com/VinniciusRRosario/PMCsoftware/modules/dashboard"
	"github.com/VinniciusRRosario/PMCsoftware/modules/order"
	"github.com/VinniciusRRosario/PMCsoftware/modules/realtime"
)

// Config configures the HTTP server.
type Config struct {
	Addr           string
	AllowOrigins   string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Module is the HTTP API module.
type Module struct {
	cfg      Config
	app      *fiber.App
	ports    Ports
	realtime *realtime.Module
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the API module. rt may be nil, in which case /ws is not
// served.
func NewModule(cfg Config, rt *realtime.Module, logger types.Logger) *Module {
	if cfg.Addr == "" {
		cfg.Addr = ":3000"
	}
	return &Module{
		cfg:      cfg,
		realtime: rt,
		logger:   logger.WithModule("api"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"auth", "catalog", "client", "order", "dashboard"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.ports.Auth = auth.NewAuthAdapter(container)
	case "catalog":
		m.ports.Catalog = catalog.NewCatalogAdapter(container)
	case "client":
		m.ports.Clients = client.NewClientAdapter(container)
	case "order":
		m.ports.Orders = order.NewOrderAdapter(container)
	case "dashboard":
		m.ports.Dashboard = dashboard.NewDashboardAdapter(container)
	}
}

// Start builds the Fiber app and starts listening.
func (m *Module) Start(_ context.Context) error {
	if m.ports.Auth == nil || m.ports.Catalog == nil || m.ports.Clients == nil ||
		m.ports.Orders == nil || m.ports.Dashboard == nil {
		return fmt.Errorf("api dependencies not set")
	}

	var serveWS func(*websocket.Conn)
	if m.realtime != nil {
		serveWS = m.realtime.Serve
	}
	m.app = NewApp(m.ports, m.cfg, serveWS, m.logger)

	go func() {
		if err := m.app.Listen(m.cfg.Addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", m.cfg.Addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.cfg.Addr,
		},
	}
}

// NewApp builds the Fiber app with every route. serveWS may be nil.
func NewApp(ports Ports, cfg Config, serveWS func(*websocket.Conn), log types.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	h := NewHandlers(ports, log)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	if serveWS != nil {
		app.Use("/ws", WebSocketGuard(ports.Auth))
		app.Get("/ws", websocket.New(serveWS))
	}

	v1 := app.Group("/api/v1", RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/sign-in", h.SignIn)
	authRoutes.Post("/refresh", h.Refresh)

	requireAuth := AuthMiddleware(ports.Auth)
	authRoutes.Get("/session", requireAuth, h.Session)
	authRoutes.Post("/sign-out", requireAuth, h.SignOut)

	protected := v1.Group("", requireAuth)

	products := protected.Group("/products")
	products.Get("/", h.ListProducts)
	products.Post("/", h.CreateProduct)
	products.Get("/categories", h.ListCategories)
	products.Post("/bulk-delete", h.DeleteProducts)
	products.Get("/:id", h.GetProduct)
	products.Put("/:id", h.UpdateProduct)
	products.Delete("/:id", h.DeleteProduct)
	products.Post("/:id/stock", h.AdjustStock)

	clients := protected.Group("/clients")
	clients.Get("/", h.ListClients)
	clients.Post("/", h.CreateClient)
	clients.Get("/:id", h.GetClient)
	clients.Put("/:id", h.UpdateClient)
	clients.Delete("/:id", h.DeleteClient)

	orders := protected.Group("/orders")
	orders.Get("/", h.ListOrders)
	orders.Post("/", h.CreateOrder)
	orders.Post("/quote", h.QuoteOrder)
	orders.Post("/bulk-delete", h.DeleteOrders)
	orders.Post("/items/:itemId/production", h.ConfirmProduction)
	orders.Get("/:id", h.GetOrder)
	orders.Post("/:id/finish", h.FinishOrder)

	protected.Get("/dashboard", h.Dashboard)

	return app
}
