// Package booking runs the confirmation flow of a feature booking: it checks
// the account state, fetches a price quote and asks the user to confirm the
// price change.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/pricing"
	"github.com/mmynk/sharebook/internal/session"
)

// InvoiceSettingsRoute is where users enter their payment data.
const InvoiceSettingsRoute = "/settings/invoice"

// Remote is the server side of bookings.
type Remote interface {
	GetCustomer(ctx context.Context, customerID string) (*models.Customer, error)

	// GetAccountingInfo fails with failure.ErrNotAuthorized for users that
	// are not global admins.
	GetAccountingInfo(ctx context.Context, accountingInfoID string) (*models.AccountingInfo, error)

	GetPrice(ctx context.Context, feature models.FeatureType, count int, reactivate bool) (*models.PriceQuote, error)
	BookFeature(ctx context.Context, feature models.FeatureType, count int) error
}

// Prompter asks the user.
type Prompter interface {
	Error(ctx context.Context, message string)
	Confirm(ctx context.Context, message string) bool

	// ConfirmOrder shows the booking summary and returns whether the user
	// accepted it.
	ConfirmOrder(ctx context.Context, decision pricing.Decision) bool
}

// Request is a booking request.
type Request struct {
	pricing.Request

	// Reactivate books for a customer whose subscription ends with the
	// current period.
	Reactivate bool
}

// Flow confirms and books feature changes for one session.
type Flow struct {
	Remote     Remote
	Session    *session.Session
	Translator pricing.Translator
	Prompter   Prompter

	// Navigate opens a route of the client, e.g. InvoiceSettingsRoute.
	Navigate func(route string)

	Logger *slog.Logger
}

func (f *Flow) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// Confirm returns true if the user accepts the booking or no confirmation is
// needed.
func (f *Flow) Confirm(ctx context.Context, req Request) (bool, error) {
	if f.Session.HideBuyDialogs() {
		return true, nil
	}
	tr := f.Translator

	customer, err := f.Remote.GetCustomer(ctx, f.Session.User.CustomerID)
	if err != nil {
		return false, fmt.Errorf("failed to load customer: %w", err)
	}
	if customer.Type == models.AccountTypePremium && customer.CanceledPremiumAccount {
		f.Prompter.Error(ctx, tr.Get("subscriptionCancelledMessage_msg", nil))
		return false, nil
	}

	quote, err := f.Remote.GetPrice(ctx, req.Feature, req.Count, req.Reactivate)
	if err != nil {
		return false, fmt.Errorf("failed to get price: %w", err)
	}
	decision := pricing.Decide(tr, quote, req.Request)
	if decision.Skip {
		f.logger().Debug("Booking without price change", "feature", req.Feature.String(), "count", req.Count)
		return true, nil
	}

	info, err := f.Remote.GetAccountingInfo(ctx, customer.AccountingInfoID)
	switch {
	case errors.Is(err, failure.ErrNotAuthorized):
		// Local admins may book without seeing accounting data.
		info = nil
	case err != nil:
		return false, fmt.Errorf("failed to load accounting info: %w", err)
	}
	if info != nil && info.InvoiceCountry == "" {
		if f.Prompter.Confirm(ctx, tr.Get("enterPaymentDataFirst_msg", nil)) && f.Navigate != nil {
			f.Navigate(InvoiceSettingsRoute)
		}
		return false, nil
	}

	return f.Prompter.ConfirmOrder(ctx, decision), nil
}

// Book confirms the request and books it when accepted. It reports whether
// the booking was made.
func (f *Flow) Book(ctx context.Context, req Request) (bool, error) {
	ok, err := f.Confirm(ctx, req)
	if err != nil || !ok {
		return false, err
	}
	if err := f.Remote.BookFeature(ctx, req.Feature, req.Count); err != nil {
		return false, fmt.Errorf("failed to book %s: %w", req.Feature, err)
	}
	f.logger().Info("Feature booked", "feature", req.Feature.String(), "count", req.Count)
	return true, nil
}

// OfferSharing returns a purchase offer for the sharing feature, suitable as
// sharing.Inviter.OfferSharingPurchase.
func (f *Flow) OfferSharing() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := f.Book(ctx, Request{Request: pricing.Request{Feature: models.FeatureSharing, Count: 1}})
		return err
	}
}
