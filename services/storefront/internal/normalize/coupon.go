package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
)

// couponAliases maps spoken coupon names to the code family they refer to.
var couponAliases = map[string]string{
	"단골":    "REGULAR",
	"단골 쿠폰": "REGULAR",
	"단골고객":  "REGULAR",
	"단골 고객": "REGULAR",
}

// MatchCoupon picks the unused coupon a spoken code or name refers to:
// exact code, then containment either way, then a known Korean alias.
func MatchCoupon(spoken string, coupons []backend.CustomerCoupon) (*backend.CustomerCoupon, bool) {
	trimmed := clean(spoken)
	if trimmed == "" {
		return nil, false
	}
	upper := cases.Upper(language.Und)
	code := upper.String(trimmed)

	var available []backend.CustomerCoupon
	for _, c := range coupons {
		if !c.IsUsed {
			available = append(available, c)
		}
	}

	for i := range available {
		if upper.String(available[i].Coupon.Code) == code {
			return &available[i], true
		}
	}

	for i := range available {
		candidate := upper.String(available[i].Coupon.Code)
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, code) || strings.Contains(code, candidate) {
			return &available[i], true
		}
	}

	family, ok := couponAliases[code]
	if !ok {
		family, ok = couponAliases[trimmed]
	}
	if ok {
		for i := range available {
			if strings.Contains(upper.String(available[i].Coupon.Code), family) {
				return &available[i], true
			}
		}
	}

	return nil, false
}
