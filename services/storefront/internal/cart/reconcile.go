package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/appetiteclub/dinner/pkg/event"
	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
)

var ErrAllAddsFailed = errors.New("no cart item could be added")

type Outcome string

const (
	Complete Outcome = "complete"
	Partial  Outcome = "partial"
	Failed   Outcome = "failed"
)

type ItemFailure struct {
	Index   int
	Request backend.AddCartItemRequest
	Message string
}

// Report is the result of one reconciliation. Failed halts the flow;
// Partial still lets the customer move on with what was added.
type Report struct {
	Requested int
	Added     int
	Failures  []ItemFailure
	Outcome   Outcome
}

// Message is the text shown to the customer.
func (r Report) Message() string {
	switch r.Outcome {
	case Failed:
		return "모든 메뉴 추가에 실패했습니다: " + r.failureList()
	case Partial:
		return "일부 메뉴 추가에 실패했습니다: " + r.failureList()
	default:
		return fmt.Sprintf("%d개의 메뉴가 장바구니에 추가되었습니다!", r.Requested)
	}
}

func (r Report) failureList() string {
	parts := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		parts = append(parts, fmt.Sprintf("메뉴 %d: %s", f.Index+1, f.Message))
	}
	return strings.Join(parts, ", ")
}

// Reconciler replaces a cart's content with a confirmed voice order.
type Reconciler struct {
	publisher events.Publisher
	logger    aqm.Logger
}

func NewReconciler(publisher events.Publisher, logger aqm.Logger) *Reconciler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Reconciler{publisher: publisher, logger: logger}
}

// Apply clears the cart and adds every request in order. A failed clear is
// logged and ignored. The error is non-nil only when every add failed.
func (r *Reconciler) Apply(ctx context.Context, store *Store, reqs []backend.AddCartItemRequest) (Report, error) {
	report := Report{Requested: len(reqs), Outcome: Complete}

	if err := store.Clear(ctx); err != nil {
		r.logger.Error("cannot clear cart before reconciliation", "error", err)
	}

	for i, req := range reqs {
		if err := store.Add(ctx, req); err != nil {
			r.logger.Error("cannot add voice order item", "index", i, "menu_id", req.MenuID, "error", err)
			report.Failures = append(report.Failures, ItemFailure{
				Index:   i,
				Request: req,
				Message: backend.MessageOf(err, "추가 실패"),
			})
			continue
		}
		report.Added++
	}

	switch {
	case len(reqs) > 0 && len(report.Failures) == len(reqs):
		report.Outcome = Failed
	case len(report.Failures) > 0:
		report.Outcome = Partial
	}

	r.publish(ctx, report)

	if report.Outcome == Failed {
		return report, ErrAllAddsFailed
	}
	return report, nil
}

func (r *Reconciler) publish(ctx context.Context, report Report) {
	if r.publisher == nil {
		return
	}

	evt := event.CartReconciledEvent{
		EventType:  event.EventCartReconciled,
		OccurredAt: time.Now().UTC(),
		SessionID:  SessionIDFrom(ctx),
		Added:      report.Added,
		Failed:     len(report.Failures),
		Outcome:    string(report.Outcome),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		r.logger.Error("cannot encode cart event", "error", err)
		return
	}
	if err := r.publisher.Publish(ctx, event.CartsTopic, payload); err != nil {
		r.logger.Error("cannot publish cart event", "error", err)
	}
}
