package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/appetiteclub/dinner/pkg/event"
	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/cart"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
	"github.com/appetiteclub/dinner/services/storefront/internal/conversation"
	"github.com/appetiteclub/dinner/services/storefront/internal/deliverytime"
	"github.com/appetiteclub/dinner/services/storefront/internal/hint"
	"github.com/appetiteclub/dinner/services/storefront/internal/normalize"
	"github.com/appetiteclub/dinner/services/storefront/internal/voice"
)

const (
	OrderPagePath = "/order"

	messageMenusUnavailable = "메뉴 정보를 불러오지 못했습니다."
	messageConversionFailed = "주문 정보 변환에 실패했습니다."
)

type MenuLister interface {
	All(ctx context.Context) ([]catalog.Menu, error)
}

type CouponLister interface {
	ListCoupons(ctx context.Context) ([]backend.CustomerCoupon, error)
}

type CheckoutDeps struct {
	Menus      MenuLister
	Carts      cart.API
	Coupons    CouponLister
	Hints      hint.Store
	Reconciler *cart.Reconciler
	Publisher  events.Publisher
	Audit      *AuditLogger
	Parser     *deliverytime.Parser
}

// Checkout turns a confirmed voice order into cart content, leaving the
// delivery time behind for the checkout page.
type Checkout struct {
	menus      MenuLister
	carts      cart.API
	coupons    CouponLister
	hints      hint.Store
	reconciler *cart.Reconciler
	publisher  events.Publisher
	audit      *AuditLogger
	parser     *deliverytime.Parser
	normalizer *normalize.Normalizer
	logger     aqm.Logger
}

func NewCheckout(deps CheckoutDeps, logger aqm.Logger) *Checkout {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	reconciler := deps.Reconciler
	if reconciler == nil {
		reconciler = cart.NewReconciler(deps.Publisher, logger)
	}
	parser := deps.Parser
	if parser == nil {
		parser = &deliverytime.Parser{}
	}
	return &Checkout{
		menus:      deps.Menus,
		carts:      deps.Carts,
		coupons:    deps.Coupons,
		hints:      deps.Hints,
		reconciler: reconciler,
		publisher:  deps.Publisher,
		audit:      deps.Audit,
		parser:     parser,
		normalizer: normalize.New(logger),
		logger:     logger,
	}
}

// OrderConfirmed implements voice.OrderHandler.
func (c *Checkout) OrderConfirmed(ctx context.Context, info voice.Info, summary normalize.Summary, history []conversation.Message) (*voice.Checkout, error) {
	log := c.logger.With("voice_session", info.SessionID, "customer_id", info.Customer.ID)

	if summary.CustomerName == "" {
		summary.CustomerName = info.Customer.Name
	}

	co := &voice.Checkout{DeliveryTime: c.deliveryTime(summary, history)}
	c.storeHint(ctx, info.Customer, co.DeliveryTime, log)

	if c.menus == nil {
		return c.fail(ctx, info, co, messageMenusUnavailable, errors.New("menu source not configured"))
	}
	menus, err := c.menus.All(ctx)
	if err != nil {
		return c.fail(ctx, info, co, messageMenusUnavailable, err)
	}

	if len(summary.Items()) == 0 {
		summary.OrderItems = normalize.ExtractMenusFromHistory(history)
		if len(summary.OrderItems) > 0 {
			log.Info("order summary empty, using menus mentioned in conversation", "count", len(summary.OrderItems))
		}
	}

	res, err := c.normalizer.Normalize(summary, menus)
	co.Dropped = len(res.Dropped)
	if err != nil {
		return c.fail(ctx, info, co, messageConversionFailed, err)
	}

	if summary.WantsCoupon() {
		co.CouponID = c.matchCoupon(ctx, summary.CouponCode, log)
	}

	ctx = cart.WithSessionID(ctx, info.SessionID)
	report, err := c.reconciler.Apply(ctx, cart.NewStore(c.carts, log), res.Requests)
	co.Added = report.Added
	co.Failed = len(report.Failures)

	switch report.Outcome {
	case cart.Failed:
		co.Error = report.Message()
	case cart.Partial:
		co.Error = report.Message()
		co.Redirect = OrderPagePath
	default:
		co.Message = report.Message()
		co.Redirect = OrderPagePath
	}

	c.publish(ctx, info, summary, co)
	c.audit.LogVoiceOrder(ctx, info.Customer.ID, info.SessionID, string(report.Outcome), report.Outcome != cart.Failed, co.Error)
	return co, err
}

// deliveryTime prefers the summary and falls back to what the customer
// said during the conversation.
func (c *Checkout) deliveryTime(summary normalize.Summary, history []conversation.Message) string {
	if summary.DeliveryTime != "" {
		return summary.DeliveryTime
	}
	ts, _ := c.parser.FromHistory(history)
	return ts
}

func (c *Checkout) storeHint(ctx context.Context, customer voice.Customer, deliveryTime string, log aqm.Logger) {
	if c.hints == nil || deliveryTime == "" {
		return
	}
	if err := c.hints.Put(ctx, HintKey(customer.ID, customer.Owner), deliveryTime); err != nil {
		log.Error("cannot store delivery time hint", "error", err)
	}
}

func (c *Checkout) matchCoupon(ctx context.Context, code string, log aqm.Logger) int64 {
	if c.coupons == nil {
		return 0
	}
	coupons, err := c.coupons.ListCoupons(ctx)
	if err != nil {
		log.Error("cannot list coupons", "error", err)
		return 0
	}
	match, ok := normalize.MatchCoupon(code, coupons)
	if !ok {
		log.Info("spoken coupon did not match any available coupon", "coupon", code)
		return 0
	}
	return match.ID
}

func (c *Checkout) fail(ctx context.Context, info voice.Info, co *voice.Checkout, msg string, err error) (*voice.Checkout, error) {
	co.Error = msg
	c.audit.LogVoiceOrder(ctx, info.Customer.ID, info.SessionID, string(cart.Failed), false, err.Error())
	return co, fmt.Errorf("cannot check out voice order: %w", err)
}

func (c *Checkout) publish(ctx context.Context, info voice.Info, summary normalize.Summary, co *voice.Checkout) {
	if c.publisher == nil {
		return
	}

	evt := event.VoiceOrderConfirmedEvent{
		EventType:    event.EventVoiceOrderConfirmed,
		OccurredAt:   time.Now().UTC(),
		SessionID:    info.SessionID,
		CustomerName: summary.CustomerName,
		ItemCount:    co.Added,
		DroppedCount: co.Dropped,
		DeliveryTime: co.DeliveryTime,
	}
	if info.Customer.ID > 0 {
		evt.CustomerID = strconv.FormatInt(info.Customer.ID, 10)
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		c.logger.Error("cannot encode voice order event", "error", err)
		return
	}
	if err := c.publisher.Publish(ctx, event.VoiceOrdersTopic, payload); err != nil {
		c.logger.Error("cannot publish voice order event", "error", err)
	}
}
