package normalize

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecodeSummaryTextFlat(t *testing.T) {
	raw := `
customerName = 홍길동
customerAddress = null
menuName = 프렌치 디너
menuStyle = 그랜드
menuItems = 스테이크=2, 와인(잔)=1
deliveryTime = 2025-12-09T18:00:00
quantity = 2
couponCode = -
useCoupon = FALSE
unknownKey = ignored
`
	s, err := DecodeSummaryText(raw)
	if err != nil {
		t.Fatalf("DecodeSummaryText() error = %v", err)
	}

	if s.CustomerName != "홍길동" || s.CustomerAddress != "" {
		t.Errorf("customer = %q / %q", s.CustomerName, s.CustomerAddress)
	}
	if s.MenuItems != "스테이크=2, 와인(잔)=1" {
		t.Errorf("MenuItems = %q", s.MenuItems)
	}
	if s.CouponCode != "" {
		t.Errorf("CouponCode = %q, want empty", s.CouponCode)
	}
	if s.UseCoupon == nil || *s.UseCoupon {
		t.Errorf("UseCoupon = %v, want false", s.UseCoupon)
	}

	want := []SummaryItem{{MenuName: "프렌치 디너", MenuStyle: "그랜드", MenuItems: "스테이크=2, 와인(잔)=1", Quantity: 2}}
	if !reflect.DeepEqual(s.OrderItems, want) {
		t.Errorf("OrderItems = %+v, want %+v", s.OrderItems, want)
	}
}

func TestDecodeSummaryTextOrderItems(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []SummaryItem
	}{
		{
			name: "inlineEntries",
			raw: `customerName = 김철수
orderItems = [
  {menuName: '발렌타인 디너', menuStyle: 'null', menuItems: '에그 스크램블=1, 베이컨=2', quantity: 2},
  {menuName: "잉글리시 디너", menuStyle: "디럭스", menuItems: null, quantity: many}
]
deliveryTime = 2025-12-10T19:30:00`,
			want: []SummaryItem{
				{MenuName: "발렌타인 디너", MenuItems: "에그 스크램블=1, 베이컨=2", Quantity: 2},
				{MenuName: "잉글리시 디너", MenuStyle: "디럭스", Quantity: 1},
			},
		},
		{
			name: "multilineEntries",
			raw: `orderItems = [
{
menuName: '프렌치 디너',
menuStyle: '그랜드',
quantity: 3
}
{
menuName: '샴페인 축제 디너'
}
]`,
			want: []SummaryItem{
				{MenuName: "프렌치 디너", MenuStyle: "그랜드", Quantity: 3},
				{MenuName: "샴페인 축제 디너", Quantity: 1},
			},
		},
		{
			name: "listOverridesFlat",
			raw: `menuName = 프렌치 디너
orderItems = [{menuName: '잉글리시 디너'}]`,
			want: []SummaryItem{{MenuName: "잉글리시 디너", Quantity: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeSummaryText(tt.raw)
			if err != nil {
				t.Fatalf("DecodeSummaryText() error = %v", err)
			}
			if !reflect.DeepEqual(s.OrderItems, tt.want) {
				t.Errorf("OrderItems = %+v, want %+v", s.OrderItems, tt.want)
			}
		})
	}
}

func TestDecodeSummaryTextFieldsAfterBlock(t *testing.T) {
	raw := `orderItems = [
  {menuName: '프렌치 디너', quantity: 1}
]
deliveryTime = 2025-12-10T19:30:00`

	s, err := DecodeSummaryText(raw)
	if err != nil {
		t.Fatalf("DecodeSummaryText() error = %v", err)
	}
	if s.DeliveryTime != "2025-12-10T19:30:00" {
		t.Errorf("DeliveryTime = %q", s.DeliveryTime)
	}
}

func TestDecodeSummaryTextErrors(t *testing.T) {
	if _, err := DecodeSummaryText("  \n "); !errors.Is(err, ErrEmptySummary) {
		t.Errorf("DecodeSummaryText(blank) error = %v, want ErrEmptySummary", err)
	}

	raw := "orderItems = [\n  {menuStyle: '그랜드', quantity: 1}\n]"
	if _, err := DecodeSummaryText(raw); err == nil {
		t.Error("DecodeSummaryText() with entry lacking menuName should fail")
	}
}

func TestDecodeSummaryTextFlatQuantity(t *testing.T) {
	s, err := DecodeSummaryText("menuName = 발렌타인\nquantity = 두 개")
	if err != nil {
		t.Fatalf("DecodeSummaryText() error = %v", err)
	}
	if s.Quantity != nil {
		t.Errorf("Quantity = %v, want nil", *s.Quantity)
	}
	if len(s.OrderItems) != 1 || s.OrderItems[0].Quantity != 1 {
		t.Errorf("OrderItems = %+v, want one entry with quantity 1", s.OrderItems)
	}
}
