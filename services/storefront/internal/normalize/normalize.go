package normalize

import (
	"errors"
	"fmt"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

var (
	ErrNoItems         = errors.New("order summary has no items")
	ErrAllItemsDropped = errors.New("no order item could be resolved")
)

// Drop records why an entry was left out of the result.
type Drop struct {
	Index    int    `json:"index"`
	MenuName string `json:"menuName"`
	Reason   string `json:"reason"`
}

const (
	reasonMissingMenuName = "missing menu name"
	reasonUnknownMenu     = "unknown menu name"
	reasonMenuUnavailable = "no menu of that type"
)

// Result keeps input order for the requests that survived.
type Result struct {
	Requests []backend.AddCartItemRequest
	Dropped  []Drop
}

type Normalizer struct {
	logger aqm.Logger
}

func New(logger aqm.Logger) *Normalizer {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Normalizer{logger: logger}
}

// Normalize converts a confirmed summary into cart requests against the
// known menus. Individual failures are dropped and reported in the result;
// an error is returned only when nothing survives.
func (n *Normalizer) Normalize(summary Summary, menus []catalog.Menu) (Result, error) {
	items := summary.Items()
	if len(items) == 0 {
		n.logger.Info("order summary carries no items")
		return Result{}, ErrNoItems
	}

	var res Result
	for i, item := range items {
		req, reason := convertItem(item, menus)
		if reason != "" {
			n.logger.Info("order item dropped", "index", i, "menu_name", item.MenuName, "reason", reason)
			res.Dropped = append(res.Dropped, Drop{Index: i, MenuName: item.MenuName, Reason: reason})
			continue
		}
		res.Requests = append(res.Requests, req)
	}

	if len(res.Requests) == 0 {
		return res, fmt.Errorf("%w: %d dropped", ErrAllItemsDropped, len(res.Dropped))
	}
	return res, nil
}

func convertItem(item SummaryItem, menus []catalog.Menu) (backend.AddCartItemRequest, string) {
	if item.MenuName == "" {
		return backend.AddCartItemRequest{}, reasonMissingMenuName
	}

	menuType, ok := ResolveMenuType(item.MenuName)
	if !ok {
		return backend.AddCartItemRequest{}, reasonUnknownMenu
	}

	menu, ok := catalog.FindByType(menus, menuType)
	if !ok {
		return backend.AddCartItemRequest{}, reasonMenuUnavailable
	}

	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}

	return backend.AddCartItemRequest{
		MenuID:               menu.ID,
		StyleType:            ResolveStyle(item.MenuStyle),
		CustomizedQuantities: ParseCustomization(item.MenuItems),
		Quantity:             qty,
	}, ""
}
