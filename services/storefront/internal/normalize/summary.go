package normalize

// Summary is the order snapshot produced by the dialogue capability once
// the customer confirms. OrderItems takes precedence over the flat legacy
// fields, which are read only when the list is empty.
type Summary struct {
	CustomerName    string        `json:"customerName,omitempty"`
	CustomerAddress string        `json:"customerAddress,omitempty"`
	MenuName        string        `json:"menuName,omitempty"`
	MenuStyle       string        `json:"menuStyle,omitempty"`
	MenuItems       string        `json:"menuItems,omitempty"`
	Quantity        *int          `json:"quantity,omitempty"`
	DeliveryTime    string        `json:"deliveryTime,omitempty"`
	OrderID         string        `json:"orderId,omitempty"`
	OrderTime       string        `json:"orderTime,omitempty"`
	CouponCode      string        `json:"couponCode,omitempty"`
	UseCoupon       *bool         `json:"useCoupon,omitempty"`
	OrderItems      []SummaryItem `json:"orderItems,omitempty"`
}

// SummaryItem is one dinner inside a summary. MenuItems is free text such
// as "에그 스크램블=1, 베이컨=2".
type SummaryItem struct {
	MenuName  string `json:"menuName"`
	MenuStyle string `json:"menuStyle,omitempty"`
	MenuItems string `json:"menuItems,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// Items returns the entries to convert: the list form when present,
// otherwise the flat fields folded into one entry.
func (s Summary) Items() []SummaryItem {
	if len(s.OrderItems) > 0 {
		return s.OrderItems
	}
	if s.MenuName == "" {
		return nil
	}
	qty := 1
	if s.Quantity != nil && *s.Quantity > 0 {
		qty = *s.Quantity
	}
	return []SummaryItem{{
		MenuName:  s.MenuName,
		MenuStyle: s.MenuStyle,
		MenuItems: s.MenuItems,
		Quantity:  qty,
	}}
}

// WantsCoupon is false only when the customer explicitly declined one.
func (s Summary) WantsCoupon() bool {
	return s.CouponCode != "" && (s.UseCoupon == nil || *s.UseCoupon)
}
