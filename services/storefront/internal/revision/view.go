package revision

import (
	"github.com/appetiteclub/dinner/pkg/enums/orderstatus"
	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
	"github.com/appetiteclub/dinner/services/storefront/internal/deliverytime"
)

type ItemView struct {
	ID         int64       `json:"id"`
	MenuID     int64       `json:"menuId"`
	MenuName   string      `json:"menuName"`
	Style      string      `json:"style"`
	StyleLabel string      `json:"styleLabel"`
	Quantity   int         `json:"quantity"`
	Components []Component `json:"components"`
	Price      int64       `json:"price"`
}

// OrderView is an order as the customer sees it: current rows only, priced
// from stored subtotals.
type OrderView struct {
	OrderID         int64      `json:"orderId"`
	Status          string     `json:"status"`
	StatusLabel     string     `json:"statusLabel"`
	Editable        bool       `json:"editable"`
	Items           []ItemView `json:"items"`
	TotalPrice      int64      `json:"totalPrice"`
	Discount        int64      `json:"discount"`
	FinalPrice      int64      `json:"finalPrice"`
	DeliveryAddress string     `json:"deliveryAddress,omitempty"`
	DeliveryType    string     `json:"deliveryType,omitempty"`
	ReservationTime string     `json:"reservationTime,omitempty"`
	Version         int64      `json:"version"`
}

func NewOrderView(order *backend.Order) *OrderView {
	if order == nil {
		return nil
	}

	current := Current(order.OrderItems)
	items := make([]ItemView, 0, len(current))
	for _, item := range current {
		items = append(items, ItemView{
			ID:         item.ID,
			MenuID:     item.Menu.ID,
			MenuName:   menuName(item.Menu),
			Style:      item.StyleType,
			StyleLabel: catalog.StyleLabel(item.StyleType),
			Quantity:   item.Quantity,
			Components: components(item.CustomizedQuantities),
			Price:      PriceOf(item, nil, nil),
		})
	}

	total := Total(order, nil, nil)
	status := orderstatus.ByName(order.Status)
	view := &OrderView{
		OrderID:         order.OrderID,
		Status:          order.Status,
		StatusLabel:     orderstatus.LabelOf(order.Status),
		Editable:        status != nil && status.Editable(),
		Items:           items,
		TotalPrice:      total,
		Discount:        order.DiscountAmount(),
		FinalPrice:      FinalPrice(order, total),
		DeliveryAddress: order.DeliveryAddress,
		DeliveryType:    order.DeliveryType,
		Version:         order.Version,
	}
	if ts, ok := deliverytime.ReservationTime(order.ReservationTime, nil); ok {
		view.ReservationTime = ts
	}
	return view
}

func menuName(m catalog.Menu) string {
	if m.Name != "" {
		return m.Name
	}
	return m.Type.DisplayName()
}
