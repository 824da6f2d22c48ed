package revision

import (
	"reflect"
	"testing"
	"time"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		next     string
		want     []ItemChange
	}{
		{
			name:     "quantityAndStyleChange",
			previous: `[{"menuId":12,"menuType":"FRENCH","styleType":"SIMPLE","customizedQuantities":{"STEAK":1,"WINE_BOTTLE":1},"subTotal":50000}]`,
			next:     `[{"itemId":9,"menuId":12,"menuType":"FRENCH","styleType":"GRAND","customizedQuantities":{"STEAK":2,"WINE_BOTTLE":1,"COFFEE":0},"subTotal":75000}]`,
			want: []ItemChange{{
				MenuName:           "프렌치 디너",
				PreviousStyle:      "SIMPLE",
				NewStyle:           "GRAND",
				StyleChanged:       true,
				PreviousSubTotal:   50000,
				NewSubTotal:        75000,
				PreviousComponents: []Component{{Code: "STEAK", Label: "스테이크", Quantity: 1}, {Code: "WINE_BOTTLE", Label: "와인(병)", Quantity: 1}},
				NewComponents:      []Component{{Code: "STEAK", Label: "스테이크", Quantity: 2}, {Code: "WINE_BOTTLE", Label: "와인(병)", Quantity: 1}},
				Changes:            []QuantityChange{{Code: "STEAK", Label: "스테이크", Previous: 1, New: 2, Delta: 1}},
			}},
		},
		{
			name:     "nestedMenuInPrevious",
			previous: `[{"menu":{"id":5,"type":"ENGLISH"},"styleType":"DELUXE","customizedQuantities":{"BACON":2},"subTotal":40000}]`,
			next:     `[{"itemId":3,"menuId":5,"styleType":"DELUXE","customizedQuantities":{},"subTotal":30000}]`,
			want: []ItemChange{{
				MenuName:           "잉글리시 디너",
				PreviousStyle:      "DELUXE",
				NewStyle:           "DELUXE",
				PreviousSubTotal:   40000,
				NewSubTotal:        30000,
				PreviousComponents: []Component{{Code: "BACON", Label: "베이컨", Quantity: 2}},
				NewComponents:      []Component{},
				Changes:            []QuantityChange{{Code: "BACON", Label: "베이컨", Previous: 2, New: 0, Delta: -2}},
			}},
		},
		{
			name:     "malformedDegradesToEmpty",
			previous: `not json`,
			next:     `[{"menuId":5,"styleType":"SIMPLE","subTotal":1}]`,
			want:     []ItemChange{},
		},
		{
			name:     "emptySnapshots",
			previous: "",
			next:     "",
			want:     []ItemChange{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(backend.ModificationLog{PreviousOrderItems: tt.previous, NewOrderItems: tt.next})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Diff() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDiffDeduplicatesByHighestItemID(t *testing.T) {
	log := backend.ModificationLog{
		PreviousOrderItems: `[
			{"menuId":12,"menuType":"FRENCH","styleType":"SIMPLE","customizedQuantities":{"STEAK":1},"subTotal":1},
			{"menuId":12,"menuType":"FRENCH","styleType":"SIMPLE","customizedQuantities":{"STEAK":3},"subTotal":3}
		]`,
		NewOrderItems: `[
			{"itemId":8,"menuId":12,"styleType":"SIMPLE","customizedQuantities":{"STEAK":5},"subTotal":8},
			{"itemId":4,"menuId":12,"styleType":"SIMPLE","customizedQuantities":{"STEAK":2},"subTotal":4}
		]`,
	}

	got := Diff(log)
	if len(got) != 1 {
		t.Fatalf("Diff() returned %d items, want 1", len(got))
	}
	if got[0].PreviousSubTotal != 3 || got[0].NewSubTotal != 8 {
		t.Errorf("subtotals = %d -> %d, want 3 -> 8", got[0].PreviousSubTotal, got[0].NewSubTotal)
	}
	if len(got[0].Changes) != 1 || got[0].Changes[0].Delta != 2 {
		t.Errorf("Changes = %+v, want one delta of 2", got[0].Changes)
	}
}

func TestDiffPositionalFallback(t *testing.T) {
	log := backend.ModificationLog{
		PreviousOrderItems: `[{"menuId":1,"menuType":"VALENTINE","styleType":"SIMPLE","subTotal":10}]`,
		NewOrderItems:      `[{"menuId":2,"styleType":"GRAND","subTotal":20},{"menuId":3,"styleType":"GRAND","subTotal":30}]`,
	}

	got := Diff(log)
	if len(got) != 1 {
		t.Fatalf("Diff() returned %d items, want 1", len(got))
	}
	if got[0].MenuName != "발렌타인 디너" || !got[0].StyleChanged {
		t.Errorf("Diff()[0] = %+v, want the valentine row paired by position", got[0])
	}
}

func TestDiffAllNumbersNewestHighest(t *testing.T) {
	at := time.Date(2025, 12, 8, 18, 0, 0, 0, time.UTC)
	logs := []backend.ModificationLog{{ID: 30, ModifiedAt: at}, {ID: 20}, {ID: 10}}

	got := DiffAll(logs)
	titles := []string{got[0].Title, got[1].Title, got[2].Title}
	want := []string{"수정 #3", "수정 #2", "수정 #1"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}
	if !got[0].ModifiedAt.Equal(at) {
		t.Errorf("ModifiedAt = %v, want %v", got[0].ModifiedAt, at)
	}
}
