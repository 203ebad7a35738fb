package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wearly/storefront-admin/internal/domain"
)

// ListOrders fetches orders, optionally filtered by status. An empty
// status lists everything.
func (a *AdminAPI) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}

	var orders []domain.Order
	if err := a.c.getJSON(ctx, "/orders", query, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// OrderDetails fetches the read-only detail aggregate for one order.
func (s *StorefrontAPI) OrderDetails(ctx context.Context, orderID int64) (*domain.OrderDetails, error) {
	details := &domain.OrderDetails{}
	if err := s.c.getJSON(ctx, fmt.Sprintf("/orders/details/%d", orderID), nil, details); err != nil {
		return nil, fmt.Errorf("order details %d: %w", orderID, err)
	}
	return details, nil
}

// ShipOrder moves a PLACED order to SHIPPED with carrier and tracking
// information.
func (a *AdminAPI) ShipOrder(ctx context.Context, orderID int64, req domain.ShipmentRequest) (json.RawMessage, error) {
	data, err := a.c.call(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/ship", orderID), nil, req)
	if err != nil {
		return nil, fmt.Errorf("ship order %d: %w", orderID, err)
	}
	return data, nil
}

// UpdateOrderStatus applies the generic status transition.
func (a *AdminAPI) UpdateOrderStatus(ctx context.Context, orderID int64, upd domain.StatusUpdate) (json.RawMessage, error) {
	data, err := a.c.call(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/status", orderID), nil, upd)
	if err != nil {
		return nil, fmt.Errorf("update order %d status: %w", orderID, err)
	}
	return data, nil
}

// ApproveOrder accepts a REQUESTED order. The call carries no body.
func (a *AdminAPI) ApproveOrder(ctx context.Context, orderID int64) (json.RawMessage, error) {
	data, err := a.c.call(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/approve", orderID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("approve order %d: %w", orderID, err)
	}
	return data, nil
}

// RejectOrder declines a REQUESTED order. The call carries no body.
func (a *AdminAPI) RejectOrder(ctx context.Context, orderID int64) (json.RawMessage, error) {
	data, err := a.c.call(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/reject", orderID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("reject order %d: %w", orderID, err)
	}
	return data, nil
}
