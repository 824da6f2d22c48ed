package revision

import (
	"sort"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
)

// Current collapses the append-only item rows of an order to its present
// composition: per menu, the row with the highest id. The result is ordered
// newest first. Every view of an order's content or price goes through here.
func Current(items []backend.OrderItem) []backend.OrderItem {
	latest := make(map[int64]backend.OrderItem, len(items))
	for _, item := range items {
		menuID := item.Menu.ID
		if prev, ok := latest[menuID]; !ok || item.ID > prev.ID {
			latest[menuID] = item
		}
	}

	out := make([]backend.OrderItem, 0, len(latest))
	for _, item := range latest {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// MenuIDs lists the distinct menus of the current composition.
func MenuIDs(order *backend.Order) []int64 {
	if order == nil {
		return nil
	}
	current := Current(order.OrderItems)
	ids := make([]int64, 0, len(current))
	for _, item := range current {
		ids = append(ids, item.Menu.ID)
	}
	return ids
}
