package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VinniciusRRosario/PMCsoftware/domain/catalog"
	"github.com/VinniciusRRosario/PMCsoftware/domain/client"
	"github.com/VinniciusRRosario/PMCsoftware/domain/finance"
	"github.com/VinniciusRRosario/PMCsoftware/domain/order"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

func testConfig(t *testing.T) Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	return Config{
		Driver:   DriverSQLite,
		DSN:      "file:" + path + "?_foreign_keys=1&_busy_timeout=5000",
		LogLevel: logger.Silent,
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle"}); err == nil {
		t.Fatal("Open() error = nil, want unsupported driver error")
	}
	if _, err := Open(Config{Driver: DriverPostgres}); err == nil {
		t.Fatal("Open() error = nil, want missing DSN error")
	}
}

func TestPluginModule_Lifecycle(t *testing.T) {
	m := NewPluginModule(testConfig(t), &mockLogger{})
	ctx := context.Background()

	if name := m.Name(); name != "database" {
		t.Errorf("Name() = %q, want 'database'", name)
	}
	if m.DB() != nil {
		t.Error("DB() should be nil before Start()")
	}
	if h := m.Health(ctx); h.Healthy {
		t.Error("Health() should be unhealthy before Start()")
	}

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if m.DB() == nil {
		t.Fatal("DB() returned nil after Start()")
	}

	h := m.Health(ctx)
	if !h.Healthy {
		t.Errorf("Health() = %+v, want healthy", h)
	}
	if h.Details["driver"] != DriverSQLite {
		t.Errorf("Health().Details[driver] = %v, want %s", h.Details["driver"], DriverSQLite)
	}

	for _, table := range []string{"products", "clients", "orders", "order_items", "users"} {
		if !m.DB().Migrator().HasTable(table) {
			t.Errorf("table %s was not migrated", table)
		}
	}

	if err := m.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if m.DB() != nil {
		t.Error("DB() should be nil after Stop()")
	}
}

func TestMigrate_EnforcesReferences(t *testing.T) {
	db, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	p := &catalog.Product{ID: uuid.NewString(), Name: "Bolo", UnitPrice: decimal.NewFromInt(30)}
	c := &client.Client{ID: uuid.NewString(), Name: "Ana", Phone: "5511999990000"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create product error = %v", err)
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create client error = %v", err)
	}

	o := &order.Order{
		ID:               uuid.NewString(),
		Code:             "TEST0001",
		ClientID:         c.ID,
		DeliveryDeadline: time.Now().Add(48 * time.Hour),
		Status:           order.StatusPending,
		DiscountType:     finance.DiscountPercent,
		DiscountValue:    decimal.Zero,
		Items: []order.Item{
			{ID: uuid.NewString(), ProductID: p.ID, QtyOrdered: 2, UnitPrice: p.UnitPrice},
		},
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("create order error = %v", err)
	}

	err = db.Delete(&catalog.Product{}, "id = ?", p.ID).Error
	if !IsForeignKeyViolation(err) {
		t.Errorf("deleting referenced product: error = %v, want foreign key violation", err)
	}

	err = db.Delete(&client.Client{}, "id = ?", c.ID).Error
	if !IsForeignKeyViolation(err) {
		t.Errorf("deleting referenced client: error = %v, want foreign key violation", err)
	}

	dup := &order.Order{
		ID:               uuid.NewString(),
		Code:             o.Code,
		ClientID:         c.ID,
		DeliveryDeadline: o.DeliveryDeadline,
		Status:           order.StatusPending,
		DiscountType:     finance.DiscountFixed,
		DiscountValue:    decimal.Zero,
	}
	if err := db.Create(dup).Error; !IsDuplicateKey(err) {
		t.Errorf("duplicate order code: error = %v, want duplicate key", err)
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("failed to delete product: %w", gorm.ErrForeignKeyViolated), true},
		{"postgres restrict", &pgconn.PgError{Code: "23503"}, true},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, false},
		{"mysql referenced row", &mysql.MySQLError{Number: 1451}, true},
		{"mysql missing parent", &mysql.MySQLError{Number: 1452}, true},
		{"mysql other", &mysql.MySQLError{Number: 1205}, false},
		{"sqlite message", errors.New("FOREIGN KEY constraint failed"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsForeignKeyViolation(tt.err); got != tt.want {
				t.Errorf("IsForeignKeyViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"postgres unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, true},
		{"sqlite message", errors.New("UNIQUE constraint failed: orders.code"), true},
		{"foreign key", &pgconn.PgError{Code: "23503"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateKey(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKey() = %v, want %v", got, tt.want)
			}
		})
	}
}
