// Package relay forwards ledger events to a Kafka topic.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/segmentio/kafka-go"

	"github.com/VinniciusRRosario/PMCsoftware/events"
)

// Writer is the subset of *kafka.Writer the relay uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config selects the brokers and topic.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// Envelope is the JSON value of every relayed message.
type Envelope struct {
	Event      string          `json:"event"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Module consumes order events and writes them to Kafka.
type Module struct {
	cfg    Config
	writer Writer
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the relay module.
func NewModule(cfg Config, logger types.Logger) *Module {
	if cfg.Topic == "" {
		cfg.Topic = "pmc.orders"
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	return &Module{
		cfg:    cfg,
		logger: logger.WithModule("relay"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "relay"
}

// Start creates the Kafka writer.
func (m *Module) Start(_ context.Context) error {
	if m.writer == nil {
		if len(m.cfg.Brokers) == 0 {
			return fmt.Errorf("no Kafka brokers configured")
		}
		m.writer = &kafka.Writer{
			Addr:                   kafka.TCP(m.cfg.Brokers...),
			Topic:                  m.cfg.Topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		}
	}
	m.logger.Info("Module started", "brokers", m.cfg.Brokers, "topic", m.cfg.Topic)
	return nil
}

// Stop flushes and closes the writer.
func (m *Module) Stop(_ context.Context) error {
	if m.writer != nil {
		if err := m.writer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka writer: %w", err)
		}
	}
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.writer == nil {
		return mono.HealthStatus{Healthy: false, Message: "writer not initialized"}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"topic": m.cfg.Topic},
	}
}

// RegisterEventConsumers subscribes to the order events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
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

	m.logger.Info("Registered event consumers",
		"events", "OrderCreated, ProductionConfirmed, OrderFinished, OrdersDeleted")
	return nil
}

func (m *Module) handleOrderCreated(ctx context.Context, event events.OrderCreatedEvent, _ *mono.Msg) error {
	msg, err := newMessage("created", event.OrderID, event.CreatedAt, event)
	if err != nil {
		return err
	}
	return m.write(ctx, msg)
}

func (m *Module) handleProductionConfirmed(ctx context.Context, event events.ProductionConfirmedEvent, _ *mono.Msg) error {
	msg, err := newMessage("production-confirmed", event.OrderID, event.ConfirmedAt, event)
	if err != nil {
		return err
	}
	return m.write(ctx, msg)
}

func (m *Module) handleOrderFinished(ctx context.Context, event events.OrderFinishedEvent, _ *mono.Msg) error {
	msg, err := newMessage("finished", event.OrderID, event.FinishedAt, event)
	if err != nil {
		return err
	}
	return m.write(ctx, msg)
}

// handleOrdersDeleted writes one message per deleted order so every order
// keeps its own key.
func (m *Module) handleOrdersDeleted(ctx context.Context, event events.OrdersDeletedEvent, _ *mono.Msg) error {
	msgs := make([]kafka.Message, 0, len(event.OrderIDs))
	for _, id := range event.OrderIDs {
		msg, err := newMessage("deleted", id, event.DeletedAt, map[string]any{
			"order_id":   id,
			"deleted_at": event.DeletedAt,
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}
	return m.write(ctx, msgs...)
}

func (m *Module) write(ctx context.Context, msgs ...kafka.Message) error {
	if m.writer == nil {
		return fmt.Errorf("relay not started")
	}
	ctx, cancel := context.WithTimeout(ctx, m.cfg.WriteTimeout)
	defer cancel()

	if err := m.writer.WriteMessages(ctx, msgs...); err != nil {
		m.logger.Error("Failed to relay events", "count", len(msgs), "key", string(msgs[0].Key), "error", err)
		return fmt.Errorf("failed to write to Kafka: %w", err)
	}
	m.logger.Debug("Relayed events", "count", len(msgs), "key", string(msgs[0].Key))
	return nil
}

// newMessage builds a message keyed "order-<event>-<id>".
func newMessage(event, orderID string, at time.Time, data any) (kafka.Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	value, err := json.Marshal(Envelope{
		Event:      "order." + event,
		OccurredAt: at,
		Data:       raw,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%s", event, orderID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("order." + event)},
		},
		Time: at,
	}, nil
}
