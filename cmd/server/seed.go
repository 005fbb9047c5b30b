package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/sharebook/internal/auth"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/storage"
)

// seedDemo creates a premium customer with an admin owning a shared calendar
// and a second user, and logs a token per user.
func seedDemo(ctx context.Context, store storage.Store, jwtManager *auth.JWTManager) error {
	customer := &models.Customer{Type: models.AccountTypePremium, TaxIncluded: true}
	if err := store.CreateCustomer(ctx, customer, &models.AccountingInfo{InvoiceCountry: "DE"}); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}
	if err := store.SetBooking(ctx, customer.ID, models.FeatureUsers, 2); err != nil {
		return fmt.Errorf("failed to seed booking: %w", err)
	}

	admin := &models.User{Name: "Alice", MailAddress: "alice@sharebook.test", CustomerID: customer.ID, GlobalAdmin: true}
	member := &models.User{Name: "Bob", MailAddress: "bob@sharebook.test", CustomerID: customer.ID}
	for _, u := range []*models.User{admin, member} {
		if err := store.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.MailAddress, err)
		}
	}

	group := &models.Group{OwnerUserID: admin.ID, CustomerID: customer.ID}
	if err := store.CreateGroup(ctx, group, &models.GroupInfo{Name: "Family"}); err != nil {
		return fmt.Errorf("failed to seed calendar: %w", err)
	}

	for _, u := range []*models.User{admin, member} {
		token, err := jwtManager.Generate(u.ID, u.MailAddress)
		if err != nil {
			return err
		}
		slog.Info("Seeded user", "mail_address", u.MailAddress, "user_id", u.ID, "token", token)
	}
	slog.Info("Seeded calendar", "group_id", group.ID, "name", "Family")
	return nil
}
