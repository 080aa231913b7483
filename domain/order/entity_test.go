package order

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/VinniciusRRosario/PMCsoftware/domain/finance"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCompleted, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusPending, false},
		{StatusPending, StatusPending, false},
		{Status("cancelado"), StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItem_Quantities(t *testing.T) {
	tests := []struct {
		name          string
		item          Item
		wantRemaining int
		wantExcess    int
		wantProgress  int
	}{
		{"untouched", Item{QtyOrdered: 10}, 10, 0, 0},
		{"partial", Item{QtyOrdered: 10, QtyDelivered: 3}, 7, 0, 30},
		{"complete", Item{QtyOrdered: 4, QtyDelivered: 4}, 0, 0, 100},
		{"over delivered", Item{QtyOrdered: 4, QtyDelivered: 6}, 0, 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Remaining(); got != tt.wantRemaining {
				t.Errorf("Remaining() = %d, want %d", got, tt.wantRemaining)
			}
			if got := tt.item.Excess(); got != tt.wantExcess {
				t.Errorf("Excess() = %d, want %d", got, tt.wantExcess)
			}
			if got := tt.item.Progress(); got != tt.wantProgress {
				t.Errorf("Progress() = %d, want %d", got, tt.wantProgress)
			}
		})
	}
}

func TestItem_Overflows(t *testing.T) {
	it := Item{QtyOrdered: 10, QtyDelivered: 3}

	if it.Overflows(7) {
		t.Error("Overflows(7) = true, want false")
	}
	if !it.Overflows(8) {
		t.Error("Overflows(8) = false, want true")
	}
}

func TestOrder_Summary(t *testing.T) {
	o := Order{
		DiscountType:  finance.DiscountPercent,
		DiscountValue: decimal.NewFromInt(10),
		Items: []Item{
			{QtyOrdered: 5, QtyDelivered: 5, UnitPrice: decimal.RequireFromString("10.00")},
			{QtyOrdered: 2, QtyDelivered: 0, UnitPrice: decimal.RequireFromString("25.00")},
		},
	}

	s := o.Summary()
	if !s.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Subtotal = %s, want 100", s.Subtotal)
	}
	if !s.Discount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Discount = %s, want 10", s.Discount)
	}
	if !s.Total.Equal(decimal.NewFromInt(90)) {
		t.Errorf("Total = %s, want 90", s.Total)
	}

	ordered, delivered := o.Quantities()
	if ordered != 7 || delivered != 5 {
		t.Errorf("Quantities() = (%d, %d), want (7, 5)", ordered, delivered)
	}
	if got := o.Completion(); got != 71 {
		t.Errorf("Completion() = %d, want 71", got)
	}
}
