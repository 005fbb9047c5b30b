package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/internal/calculator"
	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/metrics"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/storage"
	"github.com/mmynk/sharebook/pkg/api"
	"github.com/mmynk/sharebook/pkg/api/apiconnect"
)

// BookingService implements the Connect BookingService.
type BookingService struct {
	apiconnect.UnimplementedBookingServiceHandler
	store   storage.Store
	prices  calculator.PriceList
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewBookingService creates a new BookingService using the default price list.
func NewBookingService(deps Deps) *BookingService {
	deps.defaults()
	return &BookingService{
		store:   deps.Store,
		prices:  calculator.DefaultPriceList(),
		metrics: deps.Metrics,
		logger:  deps.Logger,
		now:     deps.Now,
	}
}

// GetPrice quotes a booking change for the caller's customer.
func (s *BookingService) GetPrice(ctx context.Context, req *connect.Request[api.GetPriceRequest]) (*connect.Response[api.GetPriceResponse], error) {
	s.logger.Info("GetPrice request received",
		"feature", req.Msg.Feature,
		"count", req.Msg.Count,
		"reactivate", req.Msg.Reactivate,
	)
	const op = "get price"

	_, customer, bookings, err := s.account(ctx)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}

	quote, err := s.prices.CalculateQuote(calculator.QuoteInput{
		Bookings:        bookings,
		Feature:         req.Msg.Feature,
		Count:           req.Msg.Count,
		Reactivate:      req.Msg.Reactivate,
		TaxIncluded:     customer.TaxIncluded,
		PaymentInterval: customer.PaymentInterval,
		PeriodStart:     time.Unix(customer.PeriodStart, 0),
		Now:             s.now(),
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	s.metrics.Quotes.WithLabelValues(req.Msg.Feature.String()).Inc()

	s.logger.Info("Price calculated",
		"customer_id", customer.ID,
		"feature", req.Msg.Feature,
		"future_price", quote.FuturePriceNextPeriod.Price,
		"added_price", *quote.CurrentPeriodAddedPrice,
	)
	return connect.NewResponse(&api.GetPriceResponse{Quote: quote}), nil
}

// BookFeature applies a booking change. Only global admins may book.
func (s *BookingService) BookFeature(ctx context.Context, req *connect.Request[api.BookFeatureRequest]) (*connect.Response[api.BookFeatureResponse], error) {
	s.logger.Info("BookFeature request received", "feature", req.Msg.Feature, "count", req.Msg.Count)
	const op = "book feature"

	user, customer, bookings, err := s.account(ctx)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if !user.GlobalAdmin {
		return nil, toConnect(s.logger, op, failure.New(failure.NotAuthorized, op,
			fmt.Errorf("user %s is not a global admin", user.ID)))
	}
	if customer.CanceledPremiumAccount {
		return nil, toConnect(s.logger, op, failure.New(failure.PreconditionFailed, op,
			errors.New("premium account was cancelled")))
	}

	next, err := s.prices.ApplyBooking(bookings, req.Msg.Feature, req.Msg.Count)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	booked := next[req.Msg.Feature]
	if err := s.store.SetBooking(ctx, customer.ID, req.Msg.Feature, booked); err != nil {
		return nil, toConnect(s.logger, op, err)
	}

	s.logger.Info("Feature booked", "customer_id", customer.ID, "feature", req.Msg.Feature, "booked", booked)
	return connect.NewResponse(&api.BookFeatureResponse{Booked: booked}), nil
}

func (s *BookingService) account(ctx context.Context) (*models.User, *models.Customer, map[models.FeatureType]int, error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, nil, nil, err
	}
	customer, err := s.store.GetCustomer(ctx, user.CustomerID)
	if err != nil {
		return nil, nil, nil, err
	}
	bookings, err := s.store.ListBookings(ctx, customer.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	return user, customer, bookings, nil
}
