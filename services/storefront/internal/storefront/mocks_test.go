package storefront

import (
	"context"
	"errors"
	"sync"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
	"github.com/appetiteclub/dinner/services/storefront/internal/conversation"
	"github.com/appetiteclub/dinner/services/storefront/internal/voice"
)

func intPtr(v int) *int { return &v }

func testMenus() []catalog.Menu {
	return []catalog.Menu{
		{
			ID:        12,
			Name:      "프렌치 디너",
			Type:      catalog.French,
			BasePrice: 50000,
			Items: []catalog.MenuItem{
				{Code: catalog.Steak, UnitPrice: 15000, DefaultQuantity: intPtr(1)},
			},
		},
		{ID: 13, Name: "잉글리시 디너", Type: catalog.English, BasePrice: 40000},
	}
}

type fakeMenus struct {
	menus []catalog.Menu
	err   error
}

func (f *fakeMenus) All(ctx context.Context) ([]catalog.Menu, error) {
	return f.menus, f.err
}

func (f *fakeMenus) Fresh(ctx context.Context, ids []int64) map[int64]catalog.Menu {
	out := make(map[int64]catalog.Menu)
	for _, m := range f.menus {
		out[m.ID] = m
	}
	return out
}

// fakeCart is an in-memory server cart.
type fakeCart struct {
	mu     sync.Mutex
	nextID int64
	items  []backend.CartItem

	AddItemFunc func(ctx context.Context, req backend.AddCartItemRequest) error
	Cleared     int
}

func (f *fakeCart) GetCart(ctx context.Context) (*backend.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]backend.CartItem, len(f.items))
	copy(items, f.items)
	return &backend.Cart{ID: 1, Items: items}, nil
}

func (f *fakeCart) AddItem(ctx context.Context, req backend.AddCartItemRequest) error {
	if f.AddItemFunc != nil {
		if err := f.AddItemFunc(ctx, req); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.items = append(f.items, backend.CartItem{
		ID:                   f.nextID,
		Menu:                 catalog.Menu{ID: req.MenuID},
		SelectedStyle:        req.StyleType,
		CustomizedQuantities: req.CustomizedQuantities,
		Quantity:             req.Quantity,
	})
	return nil
}

func (f *fakeCart) UpdateItem(ctx context.Context, id int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Quantity = quantity
			return nil
		}
	}
	return &backend.APIError{Status: 404, Message: "장바구니 항목을 찾을 수 없습니다."}
}

func (f *fakeCart) RemoveItem(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeCart) ClearCart(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
	f.Cleared++
	return nil
}

type fakeCoupons struct {
	coupons []backend.CustomerCoupon
	err     error
}

func (f *fakeCoupons) ListCoupons(ctx context.Context) ([]backend.CustomerCoupon, error) {
	return f.coupons, f.err
}

type fakeProfiles struct {
	profile *backend.Customer
	err     error
}

func (f *fakeProfiles) GetProfile(ctx context.Context) (*backend.Customer, error) {
	return f.profile, f.err
}

type published struct {
	topic string
	msg   []byte
}

type MockPublisher struct {
	mu       sync.Mutex
	Messages []published
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, published{topic: topic, msg: msg})
	return nil
}

func (m *MockPublisher) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, p := range m.Messages {
		out = append(out, p.topic)
	}
	return out
}

// fakeOrders serves one order and bumps its version on every write.
type fakeOrders struct {
	mu    sync.Mutex
	order *backend.Order
	logs  []backend.ModificationLog

	GetErr      error
	UpdateCalls int
	CancelCalls int
}

func (f *fakeOrders) GetOrder(ctx context.Context, id int64) (*backend.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	if f.order == nil || f.order.OrderID != id {
		return nil, &backend.APIError{Status: 404, Message: "주문을 찾을 수 없습니다."}
	}
	o := *f.order
	return &o, nil
}

func (f *fakeOrders) UpdateOrder(ctx context.Context, id int64, req backend.UpdateOrderRequest) (*backend.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.order == nil {
		return nil, errors.New("no order")
	}
	f.order.Version++
	for _, it := range req.OrderItems {
		f.order.OrderItems = append(f.order.OrderItems, backend.OrderItem{
			ID:                   int64(100 + len(f.order.OrderItems)),
			Menu:                 catalog.Menu{ID: it.MenuID, Type: catalog.French},
			StyleType:            it.StyleType,
			CustomizedQuantities: it.CustomizedQuantities,
			Quantity:             it.Quantity,
			SubTotal:             60000,
		})
	}
	o := *f.order
	return &o, nil
}

func (f *fakeOrders) CancelOrder(ctx context.Context, id int64) (*backend.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CancelCalls++
	f.order.Status = "CANCELLED"
	f.order.Version++
	o := *f.order
	return &o, nil
}

func (f *fakeOrders) ListModificationLogs(ctx context.Context, id int64) ([]backend.ModificationLog, error) {
	return f.logs, nil
}

func receivedOrder() *backend.Order {
	menus := testMenus()
	return &backend.Order{
		OrderID: 1,
		Status:  "RECEIVED",
		Version: 1,
		OrderItems: []backend.OrderItem{
			{
				ID:                   4,
				Menu:                 menus[0],
				StyleType:            "SIMPLE",
				CustomizedQuantities: map[string]int{catalog.Steak: 1},
				Quantity:             1,
				SubTotal:             50000,
			},
		},
	}
}

// fakeCapabilities answers like a healthy voice server.
type fakeCapabilities struct{}

func (fakeCapabilities) Health(ctx context.Context) error { return nil }

func (fakeCapabilities) Greeting(ctx context.Context, lang, name string) (string, error) {
	return "반갑습니다, " + name, nil
}

func (fakeCapabilities) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	return string(audio), nil
}

func (fakeCapabilities) Chat(ctx context.Context, messages []conversation.Message) (*voice.ChatReply, error) {
	last := messages[len(messages)-1].Content
	return &voice.ChatReply{Message: "확인했습니다: " + last}, nil
}

func (fakeCapabilities) Confirm(ctx context.Context, history []conversation.Message, finalMessage string) (*voice.Confirmation, error) {
	return &voice.Confirmation{OrderID: "V-1"}, nil
}
