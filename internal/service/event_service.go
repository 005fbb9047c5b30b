package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/internal/storage"
	"github.com/mmynk/sharebook/pkg/api"
	"github.com/mmynk/sharebook/pkg/api/apiconnect"
)

// streamBuffer is the number of batches a slow stream may fall behind before
// it is closed.
const streamBuffer = 64

var errStreamOverflow = errors.New("event stream fell behind, reload and resubscribe")

// EventService implements the Connect EventService.
type EventService struct {
	apiconnect.UnimplementedEventServiceHandler
	store  storage.Store
	bus    *events.Bus
	logger *slog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(deps Deps) *EventService {
	deps.defaults()
	return &EventService{store: deps.Store, bus: deps.Bus, logger: deps.Logger}
}

// SubscribeEntityEvents streams the updates of the requested groups until the
// client disconnects.
func (s *EventService) SubscribeEntityEvents(ctx context.Context, req *connect.Request[api.SubscribeEntityEventsRequest], stream *connect.ServerStream[api.EntityEventBatch]) error {
	s.logger.Info("SubscribeEntityEvents request received", "groups", req.Msg.GroupIDs)
	const op = "subscribe entity events"

	user, err := caller(ctx, s.store)
	if err != nil {
		return toConnect(s.logger, op, err)
	}
	groups := make(map[string]bool, len(req.Msg.GroupIDs))
	for _, id := range req.Msg.GroupIDs {
		group, err := s.store.GetGroup(ctx, id)
		if err != nil {
			return toConnect(s.logger, op, err)
		}
		if err := requireMember(user, group); err != nil {
			return toConnect(s.logger, op, err)
		}
		groups[id] = true
	}

	batches := make(chan []events.EntityUpdate, streamBuffer)
	overflow := make(chan struct{})
	var overflowOnce sync.Once
	sub := s.bus.Subscribe(func(_ context.Context, updates []events.EntityUpdate) {
		var own []events.EntityUpdate
		for _, u := range updates {
			if groups[u.OwnerID] {
				own = append(own, u)
			}
		}
		if len(own) == 0 {
			return
		}
		select {
		case batches <- own:
		default:
			overflowOnce.Do(func() { close(overflow) })
		}
	})
	defer s.bus.Unsubscribe(sub)

	// Flush the response headers so the client sees the stream as open
	// before the first batch.
	if err := stream.Send(nil); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Event stream closed", "user_id", user.ID)
			return nil
		case <-overflow:
			return connect.NewError(connect.CodeResourceExhausted, errStreamOverflow)
		case batch := <-batches:
			if err := stream.Send(&api.EntityEventBatch{Updates: batch}); err != nil {
				return err
			}
		}
	}
}
