package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrEmptySummary = errors.New("summary text is empty")

const orderItemsKey = "orderItems"

var summaryKeys = map[string]bool{
	"customerName":    true,
	"customerAddress": true,
	"menuName":        true,
	"menuStyle":       true,
	"menuItems":       true,
	"deliveryTime":    true,
	"quantity":        true,
	"couponCode":      true,
	"useCoupon":       true,
}

func isNullToken(v string) bool {
	switch strings.ToLower(v) {
	case "", "null", "-", "none":
		return true
	}
	return false
}

// DecodeSummaryText reads the line-oriented snapshot some summarizers emit:
//
//	customerName = 홍길동
//	deliveryTime = 2025-12-09T18:00:00
//	orderItems = [
//	  {menuName: '프렌치 디너', menuStyle: '그랜드', menuItems: '스테이크=1', quantity: 1},
//	]
//
// Entries may also span several lines, one "key: value" per line.
func DecodeSummaryText(raw string) (Summary, error) {
	if strings.TrimSpace(raw) == "" {
		return Summary{}, ErrEmptySummary
	}

	var s Summary
	block := &itemBlock{}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !block.open && strings.HasPrefix(line, orderItemsKey) && strings.Contains(line, "=") {
			block.open = true
			rest := strings.TrimSpace(line[strings.Index(line, "=")+1:])
			rest = strings.TrimPrefix(rest, "[")
			if err := block.scan(rest); err != nil {
				return Summary{}, err
			}
			continue
		}

		if block.open {
			if err := block.scan(line); err != nil {
				return Summary{}, err
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		s.setField(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	if err := block.flush(); err != nil {
		return Summary{}, err
	}

	s.OrderItems = block.items
	if len(s.OrderItems) == 0 && s.MenuName != "" {
		s.OrderItems = s.Items()
	}
	return s, nil
}

func (s *Summary) setField(key, value string) {
	if !summaryKeys[key] || isNullToken(value) {
		return
	}

	switch key {
	case "customerName":
		s.CustomerName = value
	case "customerAddress":
		s.CustomerAddress = value
	case "menuName":
		s.MenuName = value
	case "menuStyle":
		s.MenuStyle = value
	case "menuItems":
		s.MenuItems = value
	case "deliveryTime":
		s.DeliveryTime = value
	case "couponCode":
		s.CouponCode = value
	case "quantity":
		if n, err := strconv.Atoi(value); err == nil {
			s.Quantity = &n
		}
	case "useCoupon":
		switch strings.ToLower(value) {
		case "true":
			v := true
			s.UseCoupon = &v
		case "false":
			v := false
			s.UseCoupon = &v
		}
	}
}

// itemBlock scans the orderItems array. Braces open and close entries,
// commas outside quotes separate "key: value" pairs, and a closing bracket
// ends the block. A pair never spans lines.
type itemBlock struct {
	open    bool
	current map[string]string
	items   []SummaryItem
}

func (b *itemBlock) scan(line string) error {
	var segment strings.Builder
	var quote rune

	for _, r := range line {
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			segment.WriteRune(r)
			continue
		}

		switch r {
		case '\'', '"':
			quote = r
			segment.WriteRune(r)
		case '{':
			b.pair(segment.String())
			segment.Reset()
			if err := b.flush(); err != nil {
				return err
			}
			b.current = make(map[string]string)
		case '}':
			b.pair(segment.String())
			segment.Reset()
			if err := b.flush(); err != nil {
				return err
			}
		case ']':
			b.pair(segment.String())
			segment.Reset()
			if err := b.flush(); err != nil {
				return err
			}
			b.open = false
			return nil
		case ',':
			b.pair(segment.String())
			segment.Reset()
		default:
			segment.WriteRune(r)
		}
	}

	b.pair(segment.String())
	return nil
}

func (b *itemBlock) pair(segment string) {
	key, value, ok := strings.Cut(segment, ":")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if b.current == nil {
		b.current = make(map[string]string)
	}
	b.current[key] = unquote(strings.TrimSpace(value))
}

func (b *itemBlock) flush() error {
	if len(b.current) == 0 {
		b.current = nil
		return nil
	}
	fields := b.current
	b.current = nil

	name := fields["menuName"]
	if isNullToken(name) {
		return fmt.Errorf("order item without menuName")
	}

	item := SummaryItem{MenuName: name, Quantity: 1}
	if v := fields["menuStyle"]; !isNullToken(v) {
		item.MenuStyle = v
	}
	if v := fields["menuItems"]; !isNullToken(v) {
		item.MenuItems = v
	}
	if v := fields["quantity"]; !isNullToken(v) {
		if n, err := strconv.Atoi(v); err == nil {
			item.Quantity = n
		}
	}

	b.items = append(b.items, item)
	return nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
