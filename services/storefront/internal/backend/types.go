package backend

import (
	"time"

	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

// AddCartItemRequest is the cart API input produced by the normalizer.
type AddCartItemRequest struct {
	MenuID               int64          `json:"menuId"`
	StyleType            string         `json:"styleType"`
	CustomizedQuantities map[string]int `json:"customizedQuantities"`
	Quantity             int            `json:"quantity"`
}

type Cart struct {
	ID         int64      `json:"id"`
	Items      []CartItem `json:"items"`
	TotalPrice int64      `json:"totalPrice"`
}

type CartItem struct {
	ID                   int64          `json:"id"`
	Menu                 catalog.Menu   `json:"menu"`
	SelectedStyle        string         `json:"selectedStyle"`
	CustomizedQuantities map[string]int `json:"customizedQuantities"`
	Quantity             int            `json:"quantity"`
	SubTotal             int64          `json:"subTotal"`
}

type Coupon struct {
	ID             int64  `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name,omitempty"`
	DiscountAmount int64  `json:"discountAmount"`
}

type CustomerCoupon struct {
	ID     int64  `json:"id"`
	IsUsed bool   `json:"isUsed"`
	Coupon Coupon `json:"coupon"`
}

type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Order carries every item row ever written for it. Rows are appended on
// edit; Version increases with each server-side mutation.
type Order struct {
	OrderID         int64       `json:"orderId"`
	Status          string      `json:"status"`
	OrderItems      []OrderItem `json:"orderItems"`
	Coupon          *Coupon     `json:"coupon,omitempty"`
	TotalPrice      int64       `json:"totalPrice"`
	FinalPrice      int64       `json:"finalPrice"`
	DeliveryAddress string      `json:"deliveryAddress,omitempty"`
	DeliveryType    string      `json:"deliveryType,omitempty"`
	ReservationTime string      `json:"reservationTime,omitempty"`
	Version         int64       `json:"version"`
	CreatedAt       time.Time   `json:"createdAt"`
}

type OrderItem struct {
	ID                   int64          `json:"id"`
	Menu                 catalog.Menu   `json:"menu"`
	StyleType            string         `json:"styleType"`
	CustomizedQuantities map[string]int `json:"customizedQuantities"`
	Quantity             int            `json:"quantity"`
	SubTotal             int64          `json:"subTotal"`
}

// DiscountAmount is zero when no coupon is applied.
func (o *Order) DiscountAmount() int64 {
	if o == nil || o.Coupon == nil {
		return 0
	}
	return o.Coupon.DiscountAmount
}

type UpdateOrderRequest struct {
	OrderItems []UpdateOrderItem `json:"orderItems"`
}

type UpdateOrderItem struct {
	MenuID               int64          `json:"menuId"`
	StyleType            string         `json:"styleType"`
	CustomizedQuantities map[string]int `json:"customizedQuantities"`
	Quantity             int            `json:"quantity"`
}

// ModificationLog holds JSON-encoded item snapshots taken around one edit.
type ModificationLog struct {
	ID                 int64     `json:"id"`
	OrderID            int64     `json:"orderId"`
	PreviousOrderItems string    `json:"previousOrderItems"`
	NewOrderItems      string    `json:"newOrderItems"`
	ModifiedAt         time.Time `json:"modifiedAt"`
}
