package revision

import (
	"context"
	"errors"
	"sync"

	"github.com/aquamarinepk/aqm/events"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

type MockOrderAPI struct {
	mu sync.Mutex

	GetOrderFunc    func(ctx context.Context, id int64) (*backend.Order, error)
	UpdateOrderFunc func(ctx context.Context, id int64, req backend.UpdateOrderRequest) (*backend.Order, error)
	CancelOrderFunc func(ctx context.Context, id int64) (*backend.Order, error)
	ListLogsFunc    func(ctx context.Context, id int64) ([]backend.ModificationLog, error)

	GetCalls    int
	UpdateCalls int
	LastUpdate  backend.UpdateOrderRequest
}

func (m *MockOrderAPI) GetOrder(ctx context.Context, id int64) (*backend.Order, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	return nil, errors.New("order not found")
}

func (m *MockOrderAPI) UpdateOrder(ctx context.Context, id int64, req backend.UpdateOrderRequest) (*backend.Order, error) {
	m.mu.Lock()
	m.UpdateCalls++
	m.LastUpdate = req
	m.mu.Unlock()
	if m.UpdateOrderFunc != nil {
		return m.UpdateOrderFunc(ctx, id, req)
	}
	return &backend.Order{OrderID: id}, nil
}

func (m *MockOrderAPI) CancelOrder(ctx context.Context, id int64) (*backend.Order, error) {
	if m.CancelOrderFunc != nil {
		return m.CancelOrderFunc(ctx, id)
	}
	return &backend.Order{OrderID: id, Status: "CANCELLED"}, nil
}

func (m *MockOrderAPI) ListModificationLogs(ctx context.Context, id int64) ([]backend.ModificationLog, error) {
	if m.ListLogsFunc != nil {
		return m.ListLogsFunc(ctx, id)
	}
	return nil, nil
}

type fakeMenus map[int64]catalog.Menu

func (f fakeMenus) Fresh(ctx context.Context, ids []int64) map[int64]catalog.Menu {
	out := make(map[int64]catalog.Menu)
	for _, id := range ids {
		if m, ok := f[id]; ok {
			out[id] = m
		}
	}
	return out
}

type MockPublisher struct {
	mu        sync.Mutex
	Published map[string][][]byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Published: make(map[string][][]byte)}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published[topic] = append(m.Published[topic], msg)
	return nil
}

// MockSubscriber keeps handlers so tests can deliver messages.
type MockSubscriber struct {
	Handlers map[string]events.HandlerFunc
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{Handlers: make(map[string]events.HandlerFunc)}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	m.Handlers[topic] = handler
	return nil
}

type fakeStream struct {
	messages []events.StreamMessage
	err      error
}

func (f *fakeStream) Fetch(ctx context.Context, limit int) ([]events.StreamMessage, error) {
	return f.messages, f.err
}

func intPtr(v int) *int { return &v }

// frenchMenu is priced 50000 with one steak and one wine bottle included.
func frenchMenu() catalog.Menu {
	return catalog.Menu{
		ID:        12,
		Name:      "프렌치 디너",
		Type:      catalog.French,
		BasePrice: 50000,
		Items: []catalog.MenuItem{
			{Code: catalog.Steak, UnitPrice: 15000, DefaultQuantity: intPtr(1)},
			{Code: catalog.WineBottle, UnitPrice: 10000},
		},
	}
}

func champagneMenu() catalog.Menu {
	return catalog.Menu{ID: 20, Type: catalog.ChampagneFestival, BasePrice: 90000}
}

func receivedOrder() *backend.Order {
	return &backend.Order{
		OrderID: 1,
		Status:  "RECEIVED",
		Version: 1,
		Coupon:  &backend.Coupon{ID: 3, Code: "REGULAR", DiscountAmount: 5000},
		OrderItems: []backend.OrderItem{
			{
				ID:                   4,
				Menu:                 frenchMenu(),
				StyleType:            "SIMPLE",
				CustomizedQuantities: map[string]int{catalog.Steak: 1},
				Quantity:             1,
				SubTotal:             50000,
			},
		},
	}
}
