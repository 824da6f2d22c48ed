package voice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("voice session not found")

const DefaultSessionTTL = 30 * time.Minute

// Registry owns the live sessions and disposes the ones left idle.
type Registry struct {
	caps   Capabilities
	orders OrderHandler
	opts   Options
	ttl    time.Duration
	logger aqm.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRegistry(caps Capabilities, orders OrderHandler, ttl time.Duration, opts Options) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Registry{
		caps:     caps,
		orders:   orders,
		opts:     opts,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create opens and greets a session for customer.
func (r *Registry) Create(ctx context.Context, customer Customer) (*Session, error) {
	s := NewSession(uuid.NewString(), customer, r.caps, r.orders, r.opts)
	s.now = r.now
	if err := s.Start(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	r.logger.Info("voice session opened", "voice_session", s.ID(), "customer_id", customer.ID)
	return s, nil
}

// Get returns the session when owner opened it.
func (r *Registry) Get(id, owner string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok || s.customer.Owner != owner {
		return nil, ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

func (r *Registry) Remove(id, owner string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok || s.customer.Owner != owner {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	s.Dispose()
	r.logger.Info("voice session closed", "voice_session", id)
	return nil
}

// Reap disposes sessions idle for longer than the ttl.
func (r *Registry) Reap() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.Idle(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Dispose()
	}
	if len(idle) > 0 {
		r.logger.Info("idle voice sessions reaped", "count", len(idle))
	}
	return len(idle)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Start runs the reaper until Stop.
func (r *Registry) Start(ctx context.Context) error {
	interval := r.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	reapCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-reapCtx.Done():
				return
			case <-ticker.C:
				r.Reap()
			}
		}
	}()
	return nil
}

// Stop ends the reaper and disposes every session.
func (r *Registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
		select {
		case <-r.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Dispose()
	}
	return nil
}
