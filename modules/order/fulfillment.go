package order

import (
	"context"
	"time"

	domain "github.com/VinniciusRRosario/PMCsoftware/domain/order"
	"github.com/VinniciusRRosario/PMCsoftware/events"
)

// ConfirmProduction records produced units against an order item. The
// item's delivered count grows by the quantity, the product's stock shrinks
// by the same amount and a pending order becomes in-progress. Delivering
// past the ordered quantity requires AllowOverflow.
func (s *LedgerServiceImpl) ConfirmProduction(ctx context.Context, req ConfirmProductionRequest) (ConfirmProductionResponse, error) {
	if err := validateID(req.ItemID); err != nil {
		return ConfirmProductionResponse{}, err
	}
	if req.Quantity <= 0 {
		return ConfirmProductionResponse{}, ErrInvalidQuantity
	}

	result, err := s.repo.ConfirmProduction(ctx, req.ItemID, req.Quantity, req.AllowOverflow)
	if err != nil {
		return ConfirmProductionResponse{}, err
	}

	item := result.Item
	if s.eventBus != nil {
		event := events.ProductionConfirmedEvent{
			OrderID:      item.OrderID,
			ItemID:       item.ID,
			ProductID:    item.ProductID,
			Quantity:     req.Quantity,
			QtyDelivered: item.QtyDelivered,
			QtyOrdered:   item.QtyOrdered,
			Status:       string(result.Status),
			ConfirmedAt:  time.Now(),
		}
		if err := events.ProductionConfirmedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish ProductionConfirmed event", "item_id", item.ID, "error", err)
		}
	}

	s.logger.Info("Production confirmed",
		"order_id", item.OrderID,
		"item_id", item.ID,
		"quantity", req.Quantity,
		"delivered", item.QtyDelivered,
		"ordered", item.QtyOrdered,
		"overflow", item.Excess() > 0)

	return ConfirmProductionResponse{
		OrderID:      item.OrderID,
		ItemID:       item.ID,
		ProductID:    item.ProductID,
		QtyOrdered:   item.QtyOrdered,
		QtyDelivered: item.QtyDelivered,
		Remaining:    item.Remaining(),
		Excess:       item.Excess(),
		ProductStock: result.ProductStock,
		Status:       result.Status,
	}, nil
}

// ForceFinish concludes an order, delivering whatever is still outstanding
// and debiting it from stock. The caller must confirm explicitly.
func (s *LedgerServiceImpl) ForceFinish(ctx context.Context, req FinishOrderRequest) (FinishOrderResponse, error) {
	if err := validateID(req.ID); err != nil {
		return FinishOrderResponse{}, err
	}
	if !req.Confirm {
		return FinishOrderResponse{}, ErrConfirmationRequired
	}

	debits, err := s.repo.ForceFinish(ctx, req.ID)
	if err != nil {
		return FinishOrderResponse{}, err
	}

	if s.eventBus != nil {
		event := events.OrderFinishedEvent{
			OrderID:    req.ID,
			Debits:     debits,
			FinishedAt: time.Now(),
		}
		if err := events.OrderFinishedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish OrderFinished event", "order_id", req.ID, "error", err)
		}
	}

	s.logger.Info("Order finished", "order_id", req.ID, "debited_items", len(debits))
	return FinishOrderResponse{
		OrderID: req.ID,
		Status:  domain.StatusCompleted,
		Debits:  debits,
	}, nil
}
