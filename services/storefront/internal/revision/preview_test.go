package revision

import (
	"testing"

	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

func TestPreview(t *testing.T) {
	menus := map[int64]catalog.Menu{12: frenchMenu()}

	tests := []struct {
		name        string
		draft       *Draft
		wantDiff    int64
		wantKind    PromptKind
		wantMessage string
	}{
		{
			name:        "upgrade",
			draft:       &Draft{Styles: map[int64]string{4: "GRAND"}},
			wantDiff:    10000,
			wantKind:    PromptAdditionalPayment,
			wantMessage: "주문 수정 시 추가 결제 10,000원이 필요합니다. 계속하시겠습니까?",
		},
		{
			name:        "fewerSteaks",
			draft:       &Draft{Quantities: map[int64]map[string]int{4: {catalog.Steak: 0}}},
			wantDiff:    -15000,
			wantKind:    PromptRefund,
			wantMessage: "주문 수정 시 15,000원이 환불됩니다. 계속하시겠습니까?",
		},
		{
			name:        "unchanged",
			draft:       NewDraft(),
			wantDiff:    0,
			wantKind:    PromptConfirm,
			wantMessage: "주문을 수정하시겠습니까?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Preview(receivedOrder(), menus, tt.draft)
			if got.CurrentFinal != 45000 {
				t.Errorf("CurrentFinal = %d, want 45000", got.CurrentFinal)
			}
			if got.Diff != tt.wantDiff {
				t.Errorf("Diff = %d, want %d", got.Diff, tt.wantDiff)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}
