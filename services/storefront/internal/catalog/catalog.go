package catalog

import "github.com/appetiteclub/dinner/pkg/enums/servingstyle"

type MenuType string

const (
	Valentine         MenuType = "VALENTINE"
	French            MenuType = "FRENCH"
	English           MenuType = "ENGLISH"
	ChampagneFestival MenuType = "CHAMPAGNE_FESTIVAL"
)

// MenuTypes lists every dinner category in display order.
var MenuTypes = []MenuType{Valentine, French, English, ChampagneFestival}

var menuDisplayNames = map[MenuType]string{
	Valentine:         "발렌타인 디너",
	French:            "프렌치 디너",
	English:           "잉글리시 디너",
	ChampagneFestival: "샴페인 축제 디너",
}

// DisplayName returns the canonical Korean name, or the raw code when unknown.
func (t MenuType) DisplayName() string {
	if name, ok := menuDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

// AllowsStyle reports whether a serving style can be combined with the menu.
// The champagne festival dinner is never served in the simple style.
func (t MenuType) AllowsStyle(style string) bool {
	if servingstyle.ByName(style) == nil {
		return false
	}
	return !(t == ChampagneFestival && style == servingstyle.Styles.Simple.Name)
}

// Component codes used in customization maps.
const (
	EggScramble = "EGG_SCRAMBLE"
	Bacon       = "BACON"
	Bread       = "BREAD"
	Steak       = "STEAK"
	WineBottle  = "WINE_BOTTLE"
	WineGlass   = "WINE_GLASS"
	Coffee      = "COFFEE"
	Salad       = "SALAD"
	Champagne   = "CHAMPAGNE"
	Baguette    = "BAGUETTE"
	CoffeePot   = "COFFEE_POT"
)

var itemLabels = map[string]string{
	Steak:       "스테이크",
	WineBottle:  "와인(병)",
	Champagne:   "샴페인",
	WineGlass:   "와인(잔)",
	Coffee:      "커피",
	Salad:       "샐러드",
	EggScramble: "에그 스크램블",
	Bacon:       "베이컨",
	Bread:       "빵",
	Baguette:    "바게트빵",
	CoffeePot:   "커피 포트",
}

// ItemLabel returns the Korean label for a component code.
func ItemLabel(code string) string {
	if label, ok := itemLabels[code]; ok {
		return label
	}
	return code
}

// StyleLabel returns the Korean label for a style code.
func StyleLabel(code string) string {
	if s := servingstyle.ByName(code); s != nil {
		return s.Label()
	}
	return code
}
