package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
)

// MockAPI is an in-memory server cart.
type MockAPI struct {
	mu     sync.Mutex
	nextID int64
	items  []backend.CartItem

	GetCartFunc    func(ctx context.Context) (*backend.Cart, error)
	AddItemFunc    func(ctx context.Context, req backend.AddCartItemRequest) error
	UpdateItemFunc func(ctx context.Context, id int64, quantity int) error
	ClearCartFunc  func(ctx context.Context) error

	AddCalls    int
	UpdateCalls int
	GetCalls    int
}

func NewMockAPI(items ...backend.CartItem) *MockAPI {
	m := &MockAPI{nextID: 100}
	m.items = append(m.items, items...)
	return m
}

func (m *MockAPI) GetCart(ctx context.Context) (*backend.Cart, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]backend.CartItem, len(m.items))
	copy(items, m.items)
	return &backend.Cart{ID: 1, Items: items}, nil
}

func (m *MockAPI) AddItem(ctx context.Context, req backend.AddCartItemRequest) error {
	m.mu.Lock()
	m.AddCalls++
	m.mu.Unlock()
	if m.AddItemFunc != nil {
		return m.AddItemFunc(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.items = append(m.items, backend.CartItem{
		ID:                   m.nextID,
		Menu:                 catalog.Menu{ID: req.MenuID},
		SelectedStyle:        req.StyleType,
		CustomizedQuantities: req.CustomizedQuantities,
		Quantity:             req.Quantity,
	})
	return nil
}

func (m *MockAPI) UpdateItem(ctx context.Context, id int64, quantity int) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()
	if m.UpdateItemFunc != nil {
		return m.UpdateItemFunc(ctx, id, quantity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Quantity = quantity
			return nil
		}
	}
	return errors.New("cart item not found")
}

func (m *MockAPI) RemoveItem(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return errors.New("cart item not found")
}

func (m *MockAPI) ClearCart(ctx context.Context) error {
	if m.ClearCartFunc != nil {
		return m.ClearCartFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

// MockPublisher records published payloads per topic.
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
