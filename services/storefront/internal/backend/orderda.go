package backend

import (
	"context"
	"fmt"
	"net/http"
)

// OrderDataAccess reads and mutates placed orders.
type OrderDataAccess struct {
	client *Client
}

func NewOrderDataAccess(client *Client) *OrderDataAccess {
	return &OrderDataAccess{client: client}
}

func (da *OrderDataAccess) GetOrder(ctx context.Context, id int64) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	var order Order
	if err := da.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder returns the order as stored after the update, including the
// version the server assigned to it.
func (da *OrderDataAccess) UpdateOrder(ctx context.Context, id int64, req UpdateOrderRequest) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	var order Order
	if err := da.client.Do(ctx, http.MethodPut, fmt.Sprintf("/api/orders/%d", id), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (da *OrderDataAccess) CancelOrder(ctx context.Context, id int64) (*Order, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	var order Order
	if err := da.client.Do(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (da *OrderDataAccess) ListModificationLogs(ctx context.Context, id int64) ([]ModificationLog, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("order client not configured")
	}

	var logs []ModificationLog
	path := fmt.Sprintf("/api/orders/%d/modifications", id)
	if err := da.client.Do(ctx, http.MethodGet, path, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
