package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/pkg/api"
)

// BookingServiceName is the fully-qualified name of the BookingService.
const BookingServiceName = "sharebook.v1.BookingService"

// Procedure names of the BookingService.
const (
	BookingServiceGetPriceProcedure = "/sharebook.v1.BookingService/GetPrice"
	BookingServiceBookFeatureProcedure = "/sharebook.v1.BookingService/BookFeature"
)

// BookingServiceClient is a client for the sharebook.v1.BookingService service.
type BookingServiceClient interface {
	GetPrice(context.Context, *connect.Request[api.GetPriceRequest]) (*connect.Response[api.GetPriceResponse], error)
	BookFeature(context.Context, *connect.Request[api.BookFeatureRequest]) (*connect.Response[api.BookFeatureResponse], error)
}

// NewBookingServiceClient constructs a client for the sharebook.v1.BookingService service.
// The JSON codec is applied before opts.
func NewBookingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BookingServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &bookingServiceClient{
		getPrice: connect.NewClient[api.GetPriceRequest, api.GetPriceResponse](
			httpClient,
			baseURL+BookingServiceGetPriceProcedure,
			opts...,
		),
		bookFeature: connect.NewClient[api.BookFeatureRequest, api.BookFeatureResponse](
			httpClient,
			baseURL+BookingServiceBookFeatureProcedure,
			opts...,
		),
	}
}

type bookingServiceClient struct {
	getPrice *connect.Client[api.GetPriceRequest, api.GetPriceResponse]
	bookFeature *connect.Client[api.BookFeatureRequest, api.BookFeatureResponse]
}

// GetPrice calls sharebook.v1.BookingService.GetPrice.
func (c *bookingServiceClient) GetPrice(ctx context.Context, req *connect.Request[api.GetPriceRequest]) (*connect.Response[api.GetPriceResponse], error) {
	return c.getPrice.CallUnary(ctx, req)
}

// BookFeature calls sharebook.v1.BookingService.BookFeature.
func (c *bookingServiceClient) BookFeature(ctx context.Context, req *connect.Request[api.BookFeatureRequest]) (*connect.Response[api.BookFeatureResponse], error) {
	return c.bookFeature.CallUnary(ctx, req)
}

// BookingServiceHandler is an implementation of the sharebook.v1.BookingService service.
type BookingServiceHandler interface {
	GetPrice(context.Context, *connect.Request[api.GetPriceRequest]) (*connect.Response[api.GetPriceResponse], error)
	BookFeature(context.Context, *connect.Request[api.BookFeatureRequest]) (*connect.Response[api.BookFeatureResponse], error)
}

// NewBookingServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBookingServiceHandler(svc BookingServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	bookingServiceGetPriceHandler := connect.NewUnaryHandler(
		BookingServiceGetPriceProcedure,
		svc.GetPrice,
		opts...,
	)
	bookingServiceBookFeatureHandler := connect.NewUnaryHandler(
		BookingServiceBookFeatureProcedure,
		svc.BookFeature,
		opts...,
	)
	return "/sharebook.v1.BookingService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BookingServiceGetPriceProcedure:
			bookingServiceGetPriceHandler.ServeHTTP(w, r)
		case BookingServiceBookFeatureProcedure:
			bookingServiceBookFeatureHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedBookingServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBookingServiceHandler struct{}

func (UnimplementedBookingServiceHandler) GetPrice(context.Context, *connect.Request[api.GetPriceRequest]) (*connect.Response[api.GetPriceResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.BookingService.GetPrice is not implemented"))
}

func (UnimplementedBookingServiceHandler) BookFeature(context.Context, *connect.Request[api.BookFeatureRequest]) (*connect.Response[api.BookFeatureResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharebook.v1.BookingService.BookFeature is not implemented"))
}
