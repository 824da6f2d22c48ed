package revision

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

// Snapshot is one item as serialized into a modification log. Older logs
// nest the menu instead of flattening menuId and menuType.
type Snapshot struct {
	ItemID               int64            `json:"itemId,omitempty"`
	MenuID               int64            `json:"menuId,omitempty"`
	MenuType             catalog.MenuType `json:"menuType,omitempty"`
	Menu                 *snapshotMenu    `json:"menu,omitempty"`
	StyleType            string           `json:"styleType"`
	CustomizedQuantities map[string]int   `json:"customizedQuantities,omitempty"`
	Quantity             int              `json:"quantity,omitempty"`
	SubTotal             int64            `json:"subTotal"`
}

type snapshotMenu struct {
	ID   int64            `json:"id"`
	Type catalog.MenuType `json:"type"`
}

func (s Snapshot) menuID() int64 {
	if s.MenuID != 0 {
		return s.MenuID
	}
	if s.Menu != nil {
		return s.Menu.ID
	}
	return 0
}

func (s Snapshot) menuType() catalog.MenuType {
	if s.MenuType != "" {
		return s.MenuType
	}
	if s.Menu != nil {
		return s.Menu.Type
	}
	return ""
}

type Component struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Quantity int    `json:"quantity"`
}

type QuantityChange struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Previous int    `json:"previous"`
	New      int    `json:"new"`
	Delta    int    `json:"delta"`
}

// ItemChange compares one menu before and after an edit.
type ItemChange struct {
	MenuName           string           `json:"menuName"`
	PreviousStyle      string           `json:"previousStyle"`
	NewStyle           string           `json:"newStyle"`
	StyleChanged       bool             `json:"styleChanged"`
	PreviousSubTotal   int64            `json:"previousSubTotal"`
	NewSubTotal        int64            `json:"newSubTotal"`
	PreviousComponents []Component      `json:"previousComponents"`
	NewComponents      []Component      `json:"newComponents"`
	Changes            []QuantityChange `json:"changes"`
}

type LogEntry struct {
	ID         int64        `json:"id"`
	Title      string       `json:"title"`
	ModifiedAt time.Time    `json:"modifiedAt"`
	Items      []ItemChange `json:"items"`
}

// Diff explains a single modification log. It is display-only and never
// feeds the current composition of an order.
//
// A new entry is paired with the previous entry of the same menu; when
// there is none it is paired by position, which can mis-pair items if one
// edit touched several menus.
func Diff(log backend.ModificationLog) []ItemChange {
	previous := dedupe(parseSnapshots(log.PreviousOrderItems))
	next := dedupe(parseSnapshots(log.NewOrderItems))

	changes := make([]ItemChange, 0, len(next))
	for idx, n := range next {
		p, ok := findByMenu(previous, n.menuID())
		if !ok {
			if idx >= len(previous) {
				continue
			}
			p = previous[idx]
		}
		changes = append(changes, compare(p, n))
	}
	return changes
}

// DiffAll numbers logs so the newest, listed first, has the highest number.
func DiffAll(logs []backend.ModificationLog) []LogEntry {
	out := make([]LogEntry, 0, len(logs))
	for i, log := range logs {
		out = append(out, LogEntry{
			ID:         log.ID,
			Title:      fmt.Sprintf("수정 #%d", len(logs)-i),
			ModifiedAt: log.ModifiedAt,
			Items:      Diff(log),
		})
	}
	return out
}

func parseSnapshots(raw string) []Snapshot {
	if raw == "" {
		return nil
	}
	var items []Snapshot
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// dedupe keeps one entry per menu and style: the highest item id, later
// entries winning ties. First-seen order is preserved.
func dedupe(items []Snapshot) []Snapshot {
	type key struct {
		menuID int64
		style  string
	}
	pos := make(map[key]int)
	var out []Snapshot
	for _, item := range items {
		k := key{item.menuID(), item.StyleType}
		i, seen := pos[k]
		if !seen {
			pos[k] = len(out)
			out = append(out, item)
			continue
		}
		if item.ItemID >= out[i].ItemID {
			out[i] = item
		}
	}
	return out
}

func findByMenu(items []Snapshot, menuID int64) (Snapshot, bool) {
	for _, item := range items {
		if item.menuID() == menuID {
			return item, true
		}
	}
	return Snapshot{}, false
}

func compare(p, n Snapshot) ItemChange {
	menuType := p.menuType()
	if menuType == "" {
		menuType = n.menuType()
	}

	change := ItemChange{
		MenuName:           menuType.DisplayName(),
		PreviousStyle:      p.StyleType,
		NewStyle:           n.StyleType,
		StyleChanged:       p.StyleType != n.StyleType,
		PreviousSubTotal:   p.SubTotal,
		NewSubTotal:        n.SubTotal,
		PreviousComponents: components(p.CustomizedQuantities),
		NewComponents:      components(n.CustomizedQuantities),
	}

	for _, code := range unionCodes(p.CustomizedQuantities, n.CustomizedQuantities) {
		before, after := p.CustomizedQuantities[code], n.CustomizedQuantities[code]
		if before == after {
			continue
		}
		change.Changes = append(change.Changes, QuantityChange{
			Code:     code,
			Label:    catalog.ItemLabel(code),
			Previous: before,
			New:      after,
			Delta:    after - before,
		})
	}
	return change
}

// components lists the positive quantities of a snapshot.
func components(quantities map[string]int) []Component {
	out := []Component{}
	for _, code := range unionCodes(quantities, nil) {
		if qty := quantities[code]; qty > 0 {
			out = append(out, Component{Code: code, Label: catalog.ItemLabel(code), Quantity: qty})
		}
	}
	return out
}

func unionCodes(a, b map[string]int) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for code := range a {
		seen[code] = struct{}{}
	}
	for code := range b {
		seen[code] = struct{}{}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
