package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/pkg/api"
)

// EventServiceName is the fully-qualified name of the EventService.
const EventServiceName = "sharebook.v1.EventService"

// Procedure names of the EventService.
const (
	EventServiceSubscribeEntityEventsProcedure = "/sharebook.v1.EventService/SubscribeEntityEvents"
)

// EventServiceClient is a client for the sharebook.v1.EventService service.
type EventServiceClient interface {
	SubscribeEntityEvents(context.Context, *connect.Request[api.SubscribeEntityEventsRequest]) (*connect.ServerStreamForClient[api.EntityEventBatch], error)
}

// NewEventServiceClient constructs a client for the sharebook.v1.EventService service.
// The JSON codec is applied before opts.
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EventServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &eventServiceClient{
		subscribeEntityEvents: connect.NewClient[api.SubscribeEntityEventsRequest, api.EntityEventBatch](
			httpClient,
			baseURL+EventServiceSubscribeEntityEventsProcedure,
			opts...,
		),
	}
}

type eventServiceClient struct {
	subscribeEntityEvents *connect.Client[api.SubscribeEntityEventsRequest, api.EntityEventBatch]
}

// SubscribeEntityEvents calls sharebook.v1.EventService.SubscribeEntityEvents.
func (c *eventServiceClient) SubscribeEntityEvents(ctx context.Context, req *connect.Request[api.SubscribeEntityEventsRequest]) (*connect.ServerStreamForClient[api.EntityEventBatch], error) {
	return c.subscribeEntityEvents.CallServerStream(ctx, req)
}

// EventServiceHandler is an implementation of the sharebook.v1.EventService service.
type EventServiceHandler interface {
	SubscribeEntityEvents(context.Context, *connect.Request[api.SubscribeEntityEventsRequest], *connect.ServerStream[api.EntityEventBatch]) error
}

// NewEventServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	eventServiceSubscribeEntityEventsHandler := connect.NewServerStreamHandler(
		EventServiceSubscribeEntityEventsProcedure,
		svc.SubscribeEntityEvents,
		opts...,
	)
	return "/sharebook.v1.EventService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case EventServiceSubscribeEntityEventsProcedure:
			eventServiceSubscribeEntityEventsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedEventServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedEventServiceHandler struct{}

func (UnimplementedEventServiceHandler) SubscribeEntityEvents(context.Context, *connect.Request[api.SubscribeEntityEventsRequest], *connect.ServerStream[api.EntityEventBatch]) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.EventService.SubscribeEntityEvents is not implemented"))
}
