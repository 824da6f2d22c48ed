package revision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/appetiteclub/dinner/pkg/enums/orderstatus"
	"github.com/appetiteclub/dinner/pkg/event"
	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

var (
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrVersionNotObserved   = errors.New("updated order version not observed in time")
)

const (
	MessageUpdated      = "주문이 수정되었습니다. (환불 및 재결제 완료)"
	MessageUpdateFailed = "주문 수정에 실패했습니다."
	MessageCancelled    = "주문이 취소되었습니다."
	MessageCancelFailed = "주문 취소에 실패했습니다."
)

// OrderAPI is the order side of the REST backend.
type OrderAPI interface {
	GetOrder(ctx context.Context, id int64) (*backend.Order, error)
	UpdateOrder(ctx context.Context, id int64, req backend.UpdateOrderRequest) (*backend.Order, error)
	CancelOrder(ctx context.Context, id int64) (*backend.Order, error)
	ListModificationLogs(ctx context.Context, id int64) ([]backend.ModificationLog, error)
}

// MenuLookup returns freshly fetched menus by id. Edits price against the
// current menu, not a cached copy.
type MenuLookup interface {
	Fresh(ctx context.Context, ids []int64) map[int64]catalog.Menu
}

type UpdaterOption func(*Updater)

func WithPublisher(p events.Publisher) UpdaterOption {
	return func(u *Updater) { u.publisher = p }
}

func WithTracker(t *VersionTracker) UpdaterOption {
	return func(u *Updater) { u.tracker = t }
}

// WithConfirmTimeout bounds the wait for the updated version.
func WithConfirmTimeout(d time.Duration) UpdaterOption {
	return func(u *Updater) {
		if d > 0 {
			u.timeout = d
		}
	}
}

// Updater applies confirmed edit drafts and cancellations to orders.
type Updater struct {
	orders    OrderAPI
	menus     MenuLookup
	tracker   *VersionTracker
	publisher events.Publisher
	logger    aqm.Logger

	timeout     time.Duration
	minInterval time.Duration
	maxInterval time.Duration
}

func NewUpdater(orders OrderAPI, menus MenuLookup, logger aqm.Logger, opts ...UpdaterOption) *Updater {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	u := &Updater{
		orders:      orders,
		menus:       menus,
		logger:      logger,
		timeout:     5 * time.Second,
		minInterval: 50 * time.Millisecond,
		maxInterval: time.Second,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type UpdateResult struct {
	Order   *OrderView `json:"order"`
	Diff    PriceDiff  `json:"diff"`
	Logs    []LogEntry `json:"modifications"`
	Message string     `json:"message"`
}

// Preview prices draft against the order without changing anything.
func (u *Updater) Preview(ctx context.Context, orderID int64, draft *Draft) (PriceDiff, error) {
	order, menus, err := u.load(ctx, orderID, draft)
	if err != nil {
		return PriceDiff{}, err
	}
	return Preview(order, menus, draft), nil
}

// Update sends draft once confirmed is set, then waits until the backend
// serves the version it assigned before reading the order back.
func (u *Updater) Update(ctx context.Context, orderID int64, draft *Draft, confirmed bool) (*UpdateResult, error) {
	order, menus, err := u.load(ctx, orderID, draft)
	if err != nil {
		return nil, err
	}

	diff := Preview(order, menus, draft)
	if !confirmed {
		return &UpdateResult{Diff: diff, Message: diff.Message}, ErrConfirmationRequired
	}

	updated, err := u.orders.UpdateOrder(ctx, orderID, BuildUpdateRequest(order, draft))
	if err != nil {
		return nil, fmt.Errorf("cannot update order %d: %w", orderID, err)
	}

	var target int64
	if updated != nil {
		target = updated.Version
	}

	fresh, err := u.awaitVersion(ctx, orderID, target)
	if err != nil {
		if fresh == nil {
			return nil, fmt.Errorf("cannot reload order %d: %w", orderID, err)
		}
		u.logger.Info("serving order before its update was observed", "order_id", orderID, "version", target, "error", err)
	}

	u.publish(ctx, event.OrderRevisedEvent{
		EventType:  event.EventOrderRevised,
		OccurredAt: time.Now().UTC(),
		OrderID:    orderID,
		Version:    fresh.Version,
		FinalPrice: diff.EditedFinal,
		PriceDiff:  diff.Diff,
		ItemCount:  len(Current(fresh.OrderItems)),
	})

	return &UpdateResult{
		Order:   NewOrderView(fresh),
		Diff:    diff,
		Logs:    u.modifications(ctx, orderID),
		Message: MessageUpdated,
	}, nil
}

// Cancel cancels a RECEIVED order once confirmed is set.
func (u *Updater) Cancel(ctx context.Context, orderID int64, confirmed bool) (*OrderView, error) {
	order, err := u.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot get order %d: %w", orderID, err)
	}
	if s := orderstatus.ByName(order.Status); s == nil || !s.Editable() {
		return nil, ErrNotEditable
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	cancelled, err := u.orders.CancelOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot cancel order %d: %w", orderID, err)
	}
	if cancelled == nil {
		cancelled = order
	}

	u.publish(ctx, event.OrderRevisedEvent{
		EventType:  event.EventOrderCancelled,
		OccurredAt: time.Now().UTC(),
		OrderID:    orderID,
		Version:    cancelled.Version,
	})
	return NewOrderView(cancelled), nil
}

// View returns the current composition of an order.
func (u *Updater) View(ctx context.Context, orderID int64) (*OrderView, error) {
	order, err := u.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot get order %d: %w", orderID, err)
	}
	return NewOrderView(order), nil
}

// Modifications explains every edit of an order, newest first.
func (u *Updater) Modifications(ctx context.Context, orderID int64) ([]LogEntry, error) {
	logs, err := u.orders.ListModificationLogs(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cannot list modifications of order %d: %w", orderID, err)
	}
	return DiffAll(logs), nil
}

func (u *Updater) load(ctx context.Context, orderID int64, draft *Draft) (*backend.Order, map[int64]catalog.Menu, error) {
	order, err := u.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot get order %d: %w", orderID, err)
	}
	if err := Validate(order, draft); err != nil {
		return nil, nil, err
	}

	var menus map[int64]catalog.Menu
	if u.menus != nil {
		menus = u.menus.Fresh(ctx, MenuIDs(order))
	}
	return order, menus, nil
}

// awaitVersion reads the order until it reports at least target. Reads are
// retried with backoff, and retried early when the tracker sees a newer
// version. A zero target means the backend did not report one; the order is
// read once. On timeout the last read order is returned with the error.
func (u *Updater) awaitVersion(ctx context.Context, orderID, target int64) (*backend.Order, error) {
	if target == 0 {
		order, err := u.orders.GetOrder(ctx, orderID)
		return order, err
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	var last *backend.Order
	interval := u.minInterval
	for {
		var changed <-chan struct{}
		if u.tracker != nil {
			changed = u.tracker.Changed(orderID)
		}

		order, err := u.orders.GetOrder(ctx, orderID)
		if err == nil {
			last = order
			if order.Version >= target {
				return order, nil
			}
		} else {
			u.logger.Debug("order reload failed", "order_id", orderID, "error", err)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last, fmt.Errorf("%w: version %d: %v", ErrVersionNotObserved, target, ctx.Err())
		case <-changed:
			timer.Stop()
		case <-timer.C:
			interval *= 2
			if interval > u.maxInterval {
				interval = u.maxInterval
			}
		}
	}
}

func (u *Updater) modifications(ctx context.Context, orderID int64) []LogEntry {
	entries, err := u.Modifications(ctx, orderID)
	if err != nil {
		u.logger.Error("cannot load modification logs", "order_id", orderID, "error", err)
		return []LogEntry{}
	}
	return entries
}

func (u *Updater) publish(ctx context.Context, evt event.OrderRevisedEvent) {
	if u.publisher == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		u.logger.Error("cannot encode revision event", "error", err)
		return
	}
	if err := u.publisher.Publish(ctx, event.OrderRevisionsTopic, payload); err != nil {
		u.logger.Error("cannot publish revision event", "order_id", evt.OrderID, "error", err)
	}
}
