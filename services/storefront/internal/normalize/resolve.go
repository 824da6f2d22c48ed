package normalize

import (
	"strconv"
	"strings"

	"github.com/appetiteclub/dinner/pkg/enums/servingstyle"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

// Markers the summarizer writes when a component quantity was never stated.
const (
	unconfirmedMarker = "미확인"
	nullMarker        = "null"
)

var (
	resolveMenu  = ranked(menuNames)
	resolveStyle = ranked(styleNames)
)

// ResolveMenuType maps a spoken dinner name to its category. Unresolvable
// names report false and the caller drops the item.
func ResolveMenuType(name string) (catalog.MenuType, bool) {
	return resolveMenu(name)
}

// ResolveStyle maps a spoken style name to a style code. Unlike menus, a
// style that cannot be resolved falls back to SIMPLE instead of dropping.
func ResolveStyle(name string) string {
	if style, ok := resolveStyle(name); ok {
		return style
	}
	return servingstyle.Styles.Simple.Name
}

// ParseCustomization reads "name=qty, name=qty" into a code to quantity map.
// Segments with unknown names or unusable quantities are skipped.
func ParseCustomization(raw string) map[string]int {
	out := make(map[string]int)
	for _, segment := range strings.Split(raw, ",") {
		segment = strings.TrimSpace(segment)
		if !strings.Contains(segment, "=") {
			continue
		}

		parts := strings.Split(segment, "=")
		name := clean(parts[0])
		qtyToken := strings.TrimSpace(parts[1])
		if name == "" || qtyToken == "" {
			continue
		}
		if qtyToken == unconfirmedMarker || strings.EqualFold(qtyToken, nullMarker) {
			continue
		}

		qty, ok := leadingInt(qtyToken)
		if !ok || qty <= 0 {
			continue
		}

		if code, ok := itemNames[name]; ok {
			out[code] = qty
		}
	}
	return out
}

// leadingInt parses the optionally signed digits at the start of s, so
// "2개" reads as 2.
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
