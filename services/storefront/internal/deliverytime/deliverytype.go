package deliverytime

import (
	"strings"
	"time"
)

type DeliveryType string

const (
	Immediate   DeliveryType = "IMMEDIATE"
	Reservation DeliveryType = "RESERVATION"
)

var layouts = []string{Layout, "2006-01-02T15:04", time.RFC3339}

func parseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TypeOf treats a parseable timestamp after now as a reservation and
// everything else, absent or malformed included, as immediate delivery.
func TypeOf(deliveryTime string, now time.Time) DeliveryType {
	t, ok := parseTimestamp(deliveryTime, now.Location())
	if ok && t.After(now) {
		return Reservation
	}
	return Immediate
}

// ReservationTime normalizes a delivery time to Layout in loc, the local
// zone when loc is nil.
func ReservationTime(deliveryTime string, loc *time.Location) (string, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, ok := parseTimestamp(deliveryTime, loc)
	if !ok {
		return "", false
	}
	return t.In(loc).Format(Layout), true
}
