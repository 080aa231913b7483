package realtime

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/VinniciusRRosario/PMCsoftware/events"
)

// Notification types.
const (
	TypeSignedIn            = "signed_in"
	TypeSignedOut           = "signed_out"
	TypeOrderCreated        = "order_created"
	TypeProductionConfirmed = "production_confirmed"
	TypeOrderFinished       = "order_finished"
	TypeOrdersDeleted       = "orders_deleted"
	TypeProductChanged      = "product_changed"
	TypeStockAdjusted       = "stock_adjusted"
)

// LocalUserID is the fiber local holding the authenticated user of an
// upgraded connection.
const LocalUserID = "user_id"

// Module pushes auth and ledger events to websocket clients.
type Module struct {
	hub       *Hub
	cancelHub context.CancelFunc
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the realtime module.
func NewModule(logger types.Logger) *Module {
	logger = logger.WithModule("realtime")
	return &Module{
		hub:    NewHub(logger),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "realtime"
}

// Start runs the hub.
func (m *Module) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	m.logger.Info("Module started")
	return nil
}

// Stop closes all connections and waits for the hub to exit.
func (m *Module) Stop(_ context.Context) error {
	clients := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	m.logger.Info("Module stopped", "clients", clients)
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// Hub returns the websocket hub.
func (m *Module) Hub() *Hub {
	return m.hub
}

// Serve handles one upgraded connection until the peer goes away. The
// connection must carry LocalUserID.
func (m *Module) Serve(c *websocket.Conn) {
	userID, _ := c.Locals(LocalUserID).(string)
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Conn:   c,
	}
	m.hub.Register(client)
	defer func() {
		m.hub.Unregister(client)
		_ = c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Warn("WebSocket read failed", "client_id", client.ID, "error", err)
			}
			return
		}
	}
}

// RegisterEventConsumers subscribes to auth and ledger events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.UserSignedInV1, m.handleSignedIn, m); err != nil {
		return fmt.Errorf("failed to register UserSignedIn consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.UserSignedOutV1, m.handleSignedOut, m); err != nil {
		return fmt.Errorf("failed to register UserSignedOut consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderCreatedV1, m.handleOrderCreated, m); err != nil {
		return fmt.Errorf("failed to register OrderCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductionConfirmedV1, m.handleProductionConfirmed, m); err != nil {
		return fmt.Errorf("failed to register ProductionConfirmed consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderFinishedV1, m.handleOrderFinished, m); err != nil {
		return fmt.Errorf("failed to register OrderFinished consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrdersDeletedV1, m.handleOrdersDeleted, m); err != nil {
		return fmt.Errorf("failed to register OrdersDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductChangedV1, m.handleProductChanged, m); err != nil {
		return fmt.Errorf("failed to register ProductChanged consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.StockAdjustedV1, m.handleStockAdjusted, m); err != nil {
		return fmt.Errorf("failed to register StockAdjusted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", "UserSignedIn, UserSignedOut, OrderCreated, ProductionConfirmed, OrderFinished, OrdersDeleted, ProductChanged, StockAdjusted")
	return nil
}

func (m *Module) handleSignedIn(_ context.Context, event events.UserSignedInEvent, _ *mono.Msg) error {
	m.hub.Notify(event.UserID, Notification{Type: TypeSignedIn, UserID: event.UserID, At: event.SignedInAt})
	return nil
}

func (m *Module) handleSignedOut(_ context.Context, event events.UserSignedOutEvent, _ *mono.Msg) error {
	m.hub.Notify(event.UserID, Notification{Type: TypeSignedOut, UserID: event.UserID, At: event.SignedOutAt})
	return nil
}

func (m *Module) handleOrderCreated(_ context.Context, event events.OrderCreatedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(Notification{Type: TypeOrderCreated, OrderID: event.OrderID, At: event.CreatedAt})
	return nil
}

func (m *Module) handleProductionConfirmed(_ context.Context, event events.ProductionConfirmedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(Notification{
		Type:      TypeProductionConfirmed,
		OrderID:   event.OrderID,
		ItemID:    event.ItemID,
		ProductID: event.ProductID,
		Status:    event.Status,
		At:        event.ConfirmedAt,
	})
	return nil
}

func (m *Module) handleOrderFinished(_ context.Context, event events.OrderFinishedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(Notification{Type: TypeOrderFinished, OrderID: event.OrderID, At: event.FinishedAt})
	return nil
}

func (m *Module) handleOrdersDeleted(_ context.Context, event events.OrdersDeletedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(Notification{Type: TypeOrdersDeleted, OrderIDs: event.OrderIDs, At: event.DeletedAt})
	return nil
}

func (m *Module) handleProductChanged(_ context.Context, event events.ProductChangedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(Notification{Type: TypeProductChanged, ProductIDs: event.ProductIDs, Status: event.Action, At: event.ChangedAt})
	return nil
}

func (m *Module) handleStockAdjusted(_ context.Context, event events.StockAdjustedEvent, _ *mono.Msg) error {
	m.hub.Broadcast(Notification{Type: TypeStockAdjusted, ProductID: event.ProductID, At: event.AdjustedAt})
	return nil
}
