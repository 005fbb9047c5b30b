package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharebook/internal/models"
)

// CreateCustomer persists a customer and its accounting info.
func (s *SQLiteStore) CreateCustomer(ctx context.Context, customer *models.Customer, info *models.AccountingInfo) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	if customer.Type == "" {
		customer.Type = models.AccountTypeFree
	}
	if customer.PaymentInterval == 0 {
		customer.PaymentInterval = 1
	}
	if customer.PeriodStart == 0 {
		customer.PeriodStart = time.Now().Unix()
	}
	if info.ID == "" {
		info.ID = uuid.New().String()
	}
	customer.AccountingInfoID = info.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var country any
	if info.InvoiceCountry != "" {
		country = info.InvoiceCountry
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO accounting_infos (id, invoice_country) VALUES (?, ?)",
		info.ID, country,
	); err != nil {
		return fmt.Errorf("failed to insert accounting info: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO customers (id, type, canceled_premium, accounting_info_id, hide_buy_dialogs,
		                        payment_interval, tax_included, period_start)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID, string(customer.Type), boolToInt(customer.CanceledPremiumAccount), customer.AccountingInfoID,
		boolToInt(customer.HideBuyDialogs), customer.PaymentInterval, boolToInt(customer.TaxIncluded),
		customer.PeriodStart,
	)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetCustomer retrieves a customer by ID.
func (s *SQLiteStore) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	customer := &models.Customer{}
	var customerType string
	var canceled, hide, tax int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, type, canceled_premium, accounting_info_id, hide_buy_dialogs, payment_interval, tax_included, period_start
		 FROM customers WHERE id = ?`,
		customerID,
	).Scan(&customer.ID, &customerType, &canceled, &customer.AccountingInfoID, &hide,
		&customer.PaymentInterval, &tax, &customer.PeriodStart)
	if err != nil {
		return nil, notFound(err, "customer", customerID)
	}
	customer.Type = models.AccountType(customerType)
	customer.CanceledPremiumAccount = canceled != 0
	customer.HideBuyDialogs = hide != 0
	customer.TaxIncluded = tax != 0
	return customer, nil
}

// GetAccountingInfo retrieves accounting info by ID.
func (s *SQLiteStore) GetAccountingInfo(ctx context.Context, accountingInfoID string) (*models.AccountingInfo, error) {
	info := &models.AccountingInfo{}
	var country sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, invoice_country FROM accounting_infos WHERE id = ?",
		accountingInfoID,
	).Scan(&info.ID, &country)
	if err != nil {
		return nil, notFound(err, "accounting info", accountingInfoID)
	}
	info.InvoiceCountry = country.String
	return info, nil
}

// ListBookings returns the booked count per feature of a customer.
func (s *SQLiteStore) ListBookings(ctx context.Context, customerID string) (map[models.FeatureType]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT feature_type, count FROM bookings WHERE customer_id = ?",
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make(map[models.FeatureType]int)
	for rows.Next() {
		var feature, count int
		if err := rows.Scan(&feature, &count); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings[models.FeatureType(feature)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

// SetBooking upserts the booked count of one feature.
func (s *SQLiteStore) SetBooking(ctx context.Context, customerID string, feature models.FeatureType, count int) error {
	if count <= 0 {
		_, err := s.db.ExecContext(ctx,
			"DELETE FROM bookings WHERE customer_id = ? AND feature_type = ?",
			customerID, int(feature),
		)
		if err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (customer_id, feature_type, count) VALUES (?, ?, ?)
		 ON CONFLICT (customer_id, feature_type) DO UPDATE SET count = excluded.count`,
		customerID, int(feature), count,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert booking: %w", err)
	}
	return nil
}
