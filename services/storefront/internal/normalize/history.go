package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
	"github.com/appetiteclub/dinner/services/storefront/internal/conversation"
)

// Longer style names are preferred when several appear in one message.
var historyStyleNames = []string{"심플 스타일", "그랜드 스타일", "디럭스 스타일", "심플", "그랜드", "디럭스"}

type menuPattern struct {
	name   string
	after  *regexp.Regexp // "프렌치 디너 2개"
	before *regexp.Regexp // "2세트의 프렌치 디너"
}

var historyMenus = func() []menuPattern {
	out := make([]menuPattern, 0, len(catalog.MenuTypes))
	for _, t := range catalog.MenuTypes {
		name := t.DisplayName()
		quoted := regexp.QuoteMeta(strings.ToLower(name))
		out = append(out, menuPattern{
			name:   name,
			after:  regexp.MustCompile(fmt.Sprintf(`(?i)%s\s*(?:을|를)?\s*(\d+)\s*(?:개|세트|인분|명)`, quoted)),
			before: regexp.MustCompile(fmt.Sprintf(`(?i)(\d+)\s*(?:개|세트|인분|명)\s*(?:의)?\s*%s`, quoted)),
		})
	}
	return out
}()

// ExtractMenusFromHistory is the rule-based fallback used when a confirmed
// summary yields nothing. It scans newest messages first, records each
// canonical dinner once, and takes style and quantity from the same message.
func ExtractMenusFromHistory(history []conversation.Message) []SummaryItem {
	var found []SummaryItem
	seen := make(map[string]bool)

	for i := len(history) - 1; i >= 0; i-- {
		content := history[i].Content
		lower := strings.ToLower(content)

		for _, menu := range historyMenus {
			if seen[menu.name] || !strings.Contains(lower, strings.ToLower(menu.name)) {
				continue
			}
			seen[menu.name] = true

			found = append(found, SummaryItem{
				MenuName:  menu.name,
				MenuStyle: longestStyleIn(lower),
				Quantity:  quantityIn(content, menu),
			})
		}
	}
	return found
}

func longestStyleIn(lower string) string {
	var best string
	for _, name := range historyStyleNames {
		if strings.Contains(lower, strings.ToLower(name)) && len([]rune(name)) > len([]rune(best)) {
			best = name
		}
	}
	return best
}

func quantityIn(content string, menu menuPattern) int {
	for _, re := range []*regexp.Regexp{menu.after, menu.before} {
		m := re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
		return 1
	}
	return 1
}
