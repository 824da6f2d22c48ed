package backend

import (
	"context"
	"fmt"
	"net/http"
)

// CustomerDataAccess reads the signed-in customer's profile and coupons.
type CustomerDataAccess struct {
	client *Client
}

func NewCustomerDataAccess(client *Client) *CustomerDataAccess {
	return &CustomerDataAccess{client: client}
}

func (da *CustomerDataAccess) GetProfile(ctx context.Context) (*Customer, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("customer client not configured")
	}

	var customer Customer
	if err := da.client.Do(ctx, http.MethodGet, "/api/customers/me", nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (da *CustomerDataAccess) ListCoupons(ctx context.Context) ([]CustomerCoupon, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("customer client not configured")
	}

	var coupons []CustomerCoupon
	if err := da.client.Do(ctx, http.MethodGet, "/api/customers/me/coupons", nil, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}
