package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/pkg/api"
)

func TestBookingService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.clientsFor(t, env.alice)
	bob := env.clientsFor(t, env.bob)

	t.Run("GetPrice quotes the change", func(t *testing.T) {
		resp, err := bob.booking.GetPrice(ctx, connect.NewRequest(&api.GetPriceRequest{
			Feature: models.FeatureBranding,
			Count:   1,
		}))
		if err != nil {
			t.Fatalf("GetPrice failed: %v", err)
		}
		quote := resp.Msg.Quote
		// 3 users at 1.20 plus sharing for 3 seats at 0.24.
		if quote.CurrentPriceNextPeriod.Price != 4.32 {
			t.Errorf("current price = %v, want 4.32", quote.CurrentPriceNextPeriod.Price)
		}
		branding := quote.FuturePriceNextPeriod.Item(models.FeatureBranding)
		if branding == nil || branding.Count != 3 || branding.Price != 1.80 {
			t.Errorf("branding item = %+v, want 3 seats at 1.80", branding)
		}
		if quote.CurrentPeriodAddedPrice == nil || *quote.CurrentPeriodAddedPrice <= 0 {
			t.Errorf("added price = %v, want positive", quote.CurrentPeriodAddedPrice)
		}
	})

	t.Run("GetPrice rejects a negative amount", func(t *testing.T) {
		_, err := bob.booking.GetPrice(ctx, connect.NewRequest(&api.GetPriceRequest{
			Feature: models.FeatureStorage,
			Count:   -1,
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("BookFeature is for admins", func(t *testing.T) {
		_, err := bob.booking.BookFeature(ctx, connect.NewRequest(&api.BookFeatureRequest{
			Feature: models.FeatureBranding,
			Count:   1,
		}))
		assertCode(t, err, connect.CodePermissionDenied)

		resp, err := alice.booking.BookFeature(ctx, connect.NewRequest(&api.BookFeatureRequest{
			Feature: models.FeatureUsers,
			Count:   2,
		}))
		if err != nil {
			t.Fatalf("BookFeature failed: %v", err)
		}
		if resp.Msg.Booked != 5 {
			t.Errorf("Booked = %d, want 5", resp.Msg.Booked)
		}
		bookings, err := env.store.ListBookings(ctx, env.customer.ID)
		if err != nil {
			t.Fatalf("ListBookings failed: %v", err)
		}
		if bookings[models.FeatureUsers] != 5 {
			t.Errorf("users booked = %d, want 5", bookings[models.FeatureUsers])
		}
	})
}
