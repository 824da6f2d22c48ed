package revision

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"

	"github.com/appetiteclub/dinner/pkg/event"
)

// StreamFetcher replays retained events.
type StreamFetcher interface {
	Fetch(ctx context.Context, limit int) ([]events.StreamMessage, error)
}

// VersionTracker remembers the highest version announced per order on the
// revisions topic, so an updater can wait for its write to become visible
// instead of sleeping.
type VersionTracker struct {
	subscriber events.Subscriber
	stream     StreamFetcher
	logger     aqm.Logger

	mu       sync.Mutex
	versions map[int64]int64
	changed  map[int64]chan struct{}
}

func NewVersionTracker(subscriber events.Subscriber, stream StreamFetcher, logger aqm.Logger) *VersionTracker {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &VersionTracker{
		subscriber: subscriber,
		stream:     stream,
		logger:     logger,
		versions:   make(map[int64]int64),
		changed:    make(map[int64]chan struct{}),
	}
}

// Start replays retained revisions when a stream is configured, then
// subscribes to live ones.
func (t *VersionTracker) Start(ctx context.Context) error {
	if t.stream != nil {
		if err := t.warm(ctx); err != nil {
			t.logger.Info("revision replay failed, starting empty", "error", err)
		}
	}
	if t.subscriber == nil {
		return nil
	}

	if err := t.subscriber.Subscribe(ctx, event.OrderRevisionsTopic, t.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", event.OrderRevisionsTopic, err)
	}
	t.logger.Info("version tracker subscribed", "topic", event.OrderRevisionsTopic)
	return nil
}

func (t *VersionTracker) Stop(ctx context.Context) error {
	return nil
}

func (t *VersionTracker) warm(ctx context.Context) error {
	messages, err := t.stream.Fetch(ctx, 1000)
	if err != nil {
		return err
	}
	for _, msg := range messages {
		_ = t.handleEvent(ctx, msg.Data)
	}
	t.logger.Info("version tracker warmed", "events", len(messages))
	return nil
}

func (t *VersionTracker) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderRevisedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		t.logger.Errorf("Failed to unmarshal revision event: %v", err)
		return nil
	}
	if evt.OrderID == 0 || evt.Version == 0 {
		return nil
	}
	t.Observe(evt.OrderID, evt.Version)
	return nil
}

// Observe records version for orderID and wakes waiters. Lower versions are
// ignored.
func (t *VersionTracker) Observe(orderID, version int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if version <= t.versions[orderID] {
		return
	}
	t.versions[orderID] = version
	if ch, ok := t.changed[orderID]; ok {
		close(ch)
		delete(t.changed, orderID)
	}
}

// Latest returns the highest observed version, zero when none.
func (t *VersionTracker) Latest(orderID int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.versions[orderID]
}

// Changed returns a channel closed on the next observed version of orderID.
func (t *VersionTracker) Changed(orderID int64) <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, ok := t.changed[orderID]
	if !ok {
		ch = make(chan struct{})
		t.changed[orderID] = ch
	}
	return ch
}
