// Package session carries the logged in user through the client side core.
package session

import "github.com/mmynk/sharebook/internal/models"

// Session is the user and customer a client acts for.
type Session struct {
	User     *models.User
	Customer *models.Customer
}

// UserID returns the id of the logged in user.
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}

// IsGlobalAdmin reports whether the user administers the whole customer.
func (s *Session) IsGlobalAdmin() bool {
	return s != nil && s.User != nil && s.User.GlobalAdmin
}

// HideBuyDialogs reports whether booking confirmations are disabled for the
// customer.
func (s *Session) HideBuyDialogs() bool {
	return s != nil && s.Customer != nil && s.Customer.HideBuyDialogs
}
