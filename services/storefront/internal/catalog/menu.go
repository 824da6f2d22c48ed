package catalog

// Menu is a dinner as served by the menu endpoints.
type Menu struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Type        MenuType   `json:"type"`
	Description string     `json:"description,omitempty"`
	BasePrice   int64      `json:"basePrice"`
	Items       []MenuItem `json:"items"`
}

// MenuItem is one component of a dinner. DefaultQuantity is the
// customization baseline; the backend may omit it.
type MenuItem struct {
	ID              int64  `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	UnitPrice       int64  `json:"unitPrice"`
	DefaultQuantity *int   `json:"defaultQuantity,omitempty"`
}

// Baseline is the default quantity, 1 when unspecified.
func (mi MenuItem) Baseline() int {
	if mi.DefaultQuantity == nil {
		return 1
	}
	return *mi.DefaultQuantity
}

// DefaultQuantities returns the baseline customization map of the menu.
func (m Menu) DefaultQuantities() map[string]int {
	out := make(map[string]int, len(m.Items))
	for _, item := range m.Items {
		out[item.Code] = item.Baseline()
	}
	return out
}

// FindByType returns the first menu of the given category in list order.
// Menus without an identifier are skipped.
func FindByType(menus []Menu, t MenuType) (Menu, bool) {
	for _, m := range menus {
		if m.Type == t && m.ID != 0 {
			return m, true
		}
	}
	return Menu{}, false
}
