package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
)

// API is the server-side cart. The server owns the cart; Store only keeps
// the last snapshot it fetched.
type API interface {
	GetCart(ctx context.Context) (*backend.Cart, error)
	AddItem(ctx context.Context, req backend.AddCartItemRequest) error
	UpdateItem(ctx context.Context, id int64, quantity int) error
	RemoveItem(ctx context.Context, id int64) error
	ClearCart(ctx context.Context) error
}

// Store mirrors one customer's cart and merges identical lines on add.
// Every mutation is followed by a refetch. A failed refetch does not fail
// the mutation: the server already holds the change, only the snapshot is
// unknown until the next fetch.
type Store struct {
	api    API
	logger aqm.Logger

	mu   sync.Mutex
	cart *backend.Cart
}

func NewStore(api API, logger aqm.Logger) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Store{api: api, logger: logger}
}

// Cart returns the last fetched snapshot, nil when unknown.
func (s *Store) Cart() *backend.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Fetch refreshes the snapshot. On failure the snapshot is cleared.
func (s *Store) Fetch(ctx context.Context) (*backend.Cart, error) {
	cart, err := s.api.GetCart(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.cart = nil
		return nil, fmt.Errorf("cannot fetch cart: %w", err)
	}
	s.cart = cart
	return cart, nil
}

// Add merges req into an existing line with the same menu, style and
// customization, or appends a new line.
func (s *Store) Add(ctx context.Context, req backend.AddCartItemRequest) error {
	current := s.Cart()
	if current == nil {
		current, _ = s.Fetch(ctx)
	}

	if line := findMatch(current, req); line != nil {
		return s.Update(ctx, line.ID, line.Quantity+req.Quantity)
	}

	if err := s.api.AddItem(ctx, req); err != nil {
		return fmt.Errorf("cannot add cart item: %w", err)
	}
	s.refresh(ctx, "add")
	return nil
}

func (s *Store) Update(ctx context.Context, id int64, quantity int) error {
	if err := s.api.UpdateItem(ctx, id, quantity); err != nil {
		return fmt.Errorf("cannot update cart item: %w", err)
	}
	s.refresh(ctx, "update")
	return nil
}

func (s *Store) Remove(ctx context.Context, id int64) error {
	if err := s.api.RemoveItem(ctx, id); err != nil {
		return fmt.Errorf("cannot remove cart item: %w", err)
	}
	s.refresh(ctx, "remove")
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.api.ClearCart(ctx); err != nil {
		return fmt.Errorf("cannot clear cart: %w", err)
	}
	s.refresh(ctx, "clear")
	return nil
}

func (s *Store) refresh(ctx context.Context, op string) {
	if _, err := s.Fetch(ctx); err != nil {
		s.logger.Error("cart refetch failed", "after", op, "error", err)
	}
}

// Reset empties the snapshot without calling the server, used right after
// checkout before the next fetch.
func (s *Store) Reset() {
	s.mu.Lock()
	s.cart = &backend.Cart{Items: []backend.CartItem{}}
	s.mu.Unlock()
}

func findMatch(cart *backend.Cart, req backend.AddCartItemRequest) *backend.CartItem {
	if cart == nil {
		return nil
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Menu.ID != req.MenuID || item.SelectedStyle != req.StyleType {
			continue
		}
		if sameQuantities(item.CustomizedQuantities, req.CustomizedQuantities) {
			return item
		}
	}
	return nil
}

// sameQuantities requires the same key set and equal values; nil and empty
// maps are equal.
func sameQuantities(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || w != v {
			return false
		}
	}
	return true
}
