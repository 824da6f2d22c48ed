package revision

import (
	"errors"
	"fmt"

	"github.com/appetiteclub/dinner/pkg/enums/orderstatus"
	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

var (
	ErrNotEditable     = errors.New("order can no longer be edited")
	ErrStyleNotAllowed = errors.New("style not allowed for this menu")
	ErrUnknownItem     = errors.New("draft references an item outside the current order")
)

// Draft holds in-progress edits keyed by order item id. Items absent from
// the draft keep their stored values.
type Draft struct {
	Styles     map[int64]string         `json:"styles,omitempty"`
	Quantities map[int64]map[string]int `json:"quantities,omitempty"`
}

func NewDraft() *Draft {
	return &Draft{
		Styles:     make(map[int64]string),
		Quantities: make(map[int64]map[string]int),
	}
}

func (d *Draft) StyleOf(item backend.OrderItem) string {
	if d != nil {
		if style, ok := d.Styles[item.ID]; ok {
			return style
		}
	}
	return item.StyleType
}

// QuantitiesOf returns the edited customization of item, else the stored
// one, else an empty map.
func (d *Draft) QuantitiesOf(item backend.OrderItem) map[string]int {
	if d != nil {
		if q, ok := d.Quantities[item.ID]; ok {
			return q
		}
	}
	if item.CustomizedQuantities != nil {
		return item.CustomizedQuantities
	}
	return map[string]int{}
}

func (d *Draft) SetStyle(itemID int64, style string) {
	if d.Styles == nil {
		d.Styles = make(map[int64]string)
	}
	d.Styles[itemID] = style
}

// ChangeQuantity adds delta to one component of item, clamping at zero, and
// returns the new quantity. The starting point is the draft value, then the
// stored value, then the menu baseline when menu is known.
func (d *Draft) ChangeQuantity(item backend.OrderItem, menu *catalog.Menu, code string, delta int) int {
	base := item.CustomizedQuantities
	current, ok := d.Quantities[item.ID]
	if !ok {
		current = base
	}

	qty, found := current[code]
	if !found {
		qty, found = base[code]
	}
	if !found {
		qty = baselineOf(menu, code)
	}

	qty += delta
	if qty < 0 {
		qty = 0
	}

	next := make(map[string]int, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[code] = qty

	if d.Quantities == nil {
		d.Quantities = make(map[int64]map[string]int)
	}
	d.Quantities[item.ID] = next
	return qty
}

func baselineOf(menu *catalog.Menu, code string) int {
	if menu == nil {
		return 0
	}
	for _, mi := range menu.Items {
		if mi.Code == code {
			return mi.Baseline()
		}
	}
	return 0
}

// Validate checks that order may be edited and that every draft entry
// targets a current item with a style its menu accepts.
func Validate(order *backend.Order, draft *Draft) error {
	if order == nil {
		return ErrNotEditable
	}
	status := orderstatus.ByName(order.Status)
	if status == nil || !status.Editable() {
		return ErrNotEditable
	}
	if draft == nil {
		return nil
	}

	current := make(map[int64]backend.OrderItem)
	for _, item := range Current(order.OrderItems) {
		current[item.ID] = item
	}

	for id, style := range draft.Styles {
		item, ok := current[id]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownItem, id)
		}
		if !item.Menu.Type.AllowsStyle(style) {
			return fmt.Errorf("%w: %s %s", ErrStyleNotAllowed, item.Menu.Type, style)
		}
	}
	for id, quantities := range draft.Quantities {
		if _, ok := current[id]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownItem, id)
		}
		for code, qty := range quantities {
			if qty < 0 {
				return fmt.Errorf("negative quantity for %s", code)
			}
		}
	}
	return nil
}

// BuildUpdateRequest writes the full current composition with the draft
// applied, so the server receives one row per menu.
func BuildUpdateRequest(order *backend.Order, draft *Draft) backend.UpdateOrderRequest {
	current := Current(order.OrderItems)
	req := backend.UpdateOrderRequest{OrderItems: make([]backend.UpdateOrderItem, 0, len(current))}
	for _, item := range current {
		quantities := draft.QuantitiesOf(item)
		copied := make(map[string]int, len(quantities))
		for k, v := range quantities {
			copied[k] = v
		}
		req.OrderItems = append(req.OrderItems, backend.UpdateOrderItem{
			MenuID:               item.Menu.ID,
			StyleType:            draft.StyleOf(item),
			CustomizedQuantities: copied,
			Quantity:             item.Quantity,
		})
	}
	return req
}
