package revision

import (
	"github.com/appetiteclub/dinner/pkg/enums/servingstyle"
	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

// PriceOf returns the line price of an order item. Without a draft the
// stored subtotal is authoritative. With a draft the price is recomputed from
// the menu; a missing menu falls back to the stored subtotal as well.
func PriceOf(item backend.OrderItem, menu *catalog.Menu, draft *Draft) int64 {
	if draft == nil || menu == nil {
		return item.SubTotal
	}

	style := draft.StyleOf(item)
	quantities := draft.QuantitiesOf(item)

	unit := menu.BasePrice + servingstyle.SurchargeOf(style)
	for _, mi := range menu.Items {
		baseline := mi.Baseline()
		qty, ok := quantities[mi.Code]
		if !ok {
			qty = baseline
		}
		unit += int64(qty-baseline) * mi.UnitPrice
	}
	return unit * int64(item.Quantity)
}

// Total sums the prices of the current composition.
func Total(order *backend.Order, menus map[int64]catalog.Menu, draft *Draft) int64 {
	if order == nil {
		return 0
	}
	var total int64
	for _, item := range Current(order.OrderItems) {
		total += PriceOf(item, lookup(menus, item.Menu.ID), draft)
	}
	return total
}

// FinalPrice applies the order's coupon to total, never going below zero.
func FinalPrice(order *backend.Order, total int64) int64 {
	final := total - order.DiscountAmount()
	if final < 0 {
		return 0
	}
	return final
}

func lookup(menus map[int64]catalog.Menu, id int64) *catalog.Menu {
	m, ok := menus[id]
	if !ok {
		return nil
	}
	return &m
}
