package client

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/pkg/api"
)

// WatchEvents streams the entity updates of groupIDs into bus until ctx is
// done. Batches are published from the calling goroutine. It returns nil
// when ctx ends the stream.
func (c *Client) WatchEvents(ctx context.Context, groupIDs []string, bus *events.Bus) error {
	stream, err := c.events.SubscribeEntityEvents(ctx, connect.NewRequest(&api.SubscribeEntityEventsRequest{
		GroupIDs: groupIDs,
	}))
	if err != nil {
		return err
	}
	defer stream.Close()

	c.logger.Debug("Watching entity events", "groups", groupIDs)
	for stream.Receive() {
		batch := stream.Msg()
		c.logger.Debug("Entity updates received", "updates", len(batch.Updates))
		bus.Publish(ctx, batch.Updates)
	}

	err = stream.Err()
	if ctx.Err() != nil {
		return nil
	}
	if err == nil {
		return errors.New("event stream closed by server")
	}
	return err
}
