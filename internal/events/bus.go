// Package events provides the entity update notifications pushed by the server
// and an in-process bus to fan them out to listeners.
package events

import (
	"context"
	"log/slog"
	"sync"
)

// EntityType names the record kind an update refers to.
type EntityType string

const (
	TypeSentGroupInvitation EntityType = "SentGroupInvitation"
	TypeGroupMember         EntityType = "GroupMember"
)

// Operation is the change applied to a record.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// EntityUpdate notifies about one changed list element.
type EntityUpdate struct {
	Type      EntityType `json:"type"`
	Operation Operation  `json:"operation"`

	// OwnerID is the group the changed record belongs to.
	OwnerID string `json:"ownerId"`

	ListID    string `json:"listId"`
	ElementID string `json:"elementId"`
}

// Listener receives batches of updates. Listeners are called synchronously
// from the publishing goroutine.
type Listener func(ctx context.Context, updates []EntityUpdate)

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id uint64
}

// Source is anything listeners can be attached to.
type Source interface {
	Subscribe(l Listener) *Subscription
	Unsubscribe(s *Subscription)
}

// Bus fans out update batches to all current listeners.
type Bus struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]Listener
	order     []uint64
	logger    *slog.Logger
}

var _ Source = (*Bus)(nil)

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		listeners: make(map[uint64]Listener),
		logger:    logger,
	}
}

// Subscribe registers l and returns its subscription.
func (b *Bus) Subscribe(l Listener) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners[id] = l
	b.order = append(b.order, id)
	b.logger.Debug("Listener subscribed", "subscription", id, "listeners", len(b.listeners))
	return &Subscription{id: id}
}

// Unsubscribe removes the listener. Batches published after Unsubscribe
// returns are not delivered to it. Unsubscribing twice is a no-op.
func (b *Bus) Unsubscribe(s *Subscription) {
	if s == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.listeners[s.id]; !ok {
		return
	}
	delete(b.listeners, s.id)
	for i, id := range b.order {
		if id == s.id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	b.logger.Debug("Listener unsubscribed", "subscription", s.id, "listeners", len(b.listeners))
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Publish delivers updates to every listener in subscription order.
func (b *Bus) Publish(ctx context.Context, updates []EntityUpdate) {
	if len(updates) == 0 {
		return
	}

	b.mu.RLock()
	listeners := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		listeners = append(listeners, b.listeners[id])
	}
	b.mu.RUnlock()

	b.logger.Debug("Publishing entity updates", "updates", len(updates), "listeners", len(listeners))
	for _, l := range listeners {
		l(ctx, updates)
	}
}
