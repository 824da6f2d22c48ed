package backend

import (
	"context"
	"fmt"
	"net/http"
)

// CartDataAccess wraps the customer's server-side cart.
type CartDataAccess struct {
	client *Client
}

func NewCartDataAccess(client *Client) *CartDataAccess {
	return &CartDataAccess{client: client}
}

func (da *CartDataAccess) GetCart(ctx context.Context) (*Cart, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("cart client not configured")
	}

	var cart Cart
	if err := da.client.Do(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (da *CartDataAccess) AddItem(ctx context.Context, req AddCartItemRequest) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("cart client not configured")
	}
	return da.client.Do(ctx, http.MethodPost, "/api/cart/items", req, nil)
}

func (da *CartDataAccess) UpdateItem(ctx context.Context, id int64, quantity int) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("cart client not configured")
	}
	path := fmt.Sprintf("/api/cart/items/%d", id)
	return da.client.Do(ctx, http.MethodPut, path, map[string]int{"quantity": quantity}, nil)
}

func (da *CartDataAccess) RemoveItem(ctx context.Context, id int64) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("cart client not configured")
	}
	return da.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/items/%d", id), nil, nil)
}

func (da *CartDataAccess) ClearCart(ctx context.Context) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("cart client not configured")
	}
	return da.client.Do(ctx, http.MethodDelete, "/api/cart", nil, nil)
}
