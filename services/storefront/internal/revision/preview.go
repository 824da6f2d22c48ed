package revision

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

type PromptKind string

const (
	PromptAdditionalPayment PromptKind = "additional_payment"
	PromptRefund            PromptKind = "refund"
	PromptConfirm           PromptKind = "confirm"
)

// PriceDiff is what the customer must confirm before an edit is sent.
type PriceDiff struct {
	CurrentFinal int64      `json:"currentFinal"`
	EditedFinal  int64      `json:"editedFinal"`
	Diff         int64      `json:"diff"`
	Kind         PromptKind `json:"kind"`
	Message      string     `json:"message"`
}

// Preview compares the stored final price with the price of the draft.
func Preview(order *backend.Order, menus map[int64]catalog.Menu, draft *Draft) PriceDiff {
	if draft == nil {
		draft = NewDraft()
	}
	current := FinalPrice(order, Total(order, menus, nil))
	edited := FinalPrice(order, Total(order, menus, draft))

	p := PriceDiff{CurrentFinal: current, EditedFinal: edited, Diff: edited - current}
	switch {
	case p.Diff > 0:
		p.Kind = PromptAdditionalPayment
		p.Message = fmt.Sprintf("주문 수정 시 추가 결제 %s원이 필요합니다. 계속하시겠습니까?", formatWon(p.Diff))
	case p.Diff < 0:
		p.Kind = PromptRefund
		p.Message = fmt.Sprintf("주문 수정 시 %s원이 환불됩니다. 계속하시겠습니까?", formatWon(-p.Diff))
	default:
		p.Kind = PromptConfirm
		p.Message = "주문을 수정하시겠습니까?"
	}
	return p
}

// formatWon groups digits the way prices are shown to customers.
func formatWon(n int64) string {
	return message.NewPrinter(language.Korean).Sprintf("%d", n)
}
