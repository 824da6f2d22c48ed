package normalize

import (
	"github.com/appetiteclub/dinner/pkg/enums/servingstyle"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

// entry keeps tables ordered: substring matching walks them in this order
// and the first hit wins.
type entry[T any] struct {
	key   string
	value T
}

type table[T any] []entry[T]

func (t table[T]) lookup(key string) (T, bool) {
	for _, e := range t {
		if e.key == key {
			return e.value, true
		}
	}
	var zero T
	return zero, false
}

var menuNames = table[catalog.MenuType]{
	{"발렌타인 디너", catalog.Valentine},
	{"발렌타인디너", catalog.Valentine},
	{"발렌타인", catalog.Valentine},
	{"프렌치 디너", catalog.French},
	{"프렌치디너", catalog.French},
	{"프렌치", catalog.French},
	{"잉글리시 디너", catalog.English},
	{"잉글리시디너", catalog.English},
	{"잉글리시", catalog.English},
	{"샴페인 축제 디너", catalog.ChampagneFestival},
	{"샴페인축제디너", catalog.ChampagneFestival},
	{"샴페인 축제", catalog.ChampagneFestival},
	{"샴페인축제", catalog.ChampagneFestival},
}

var styleNames = table[string]{
	{"심플 스타일", servingstyle.Styles.Simple.Name},
	{"심플스타일", servingstyle.Styles.Simple.Name},
	{"심플", servingstyle.Styles.Simple.Name},
	{"그랜드 스타일", servingstyle.Styles.Grand.Name},
	{"그랜드스타일", servingstyle.Styles.Grand.Name},
	{"그랜드", servingstyle.Styles.Grand.Name},
	{"디럭스 스타일", servingstyle.Styles.Deluxe.Name},
	{"디럭스스타일", servingstyle.Styles.Deluxe.Name},
	{"디럭스", servingstyle.Styles.Deluxe.Name},
}

// itemNames maps spoken component names to codes. Exact lookup only.
var itemNames = map[string]string{
	"에그 스크램블": catalog.EggScramble,
	"베이컨":     catalog.Bacon,
	"기본 빵":    catalog.Bread,
	"빵":       catalog.Bread,
	"스테이크":    catalog.Steak,
	"와인(병)":   catalog.WineBottle,
	"와인(잔)":   catalog.WineGlass,
	"커피":      catalog.Coffee,
	"샐러드":     catalog.Salad,
	"샴페인":     catalog.Champagne,
	"바게트빵":    catalog.Baguette,
	"커피 포트":   catalog.CoffeePot,
}
