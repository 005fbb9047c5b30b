// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/sharebook/internal/models"
)

// Store defines the persistence operations of the sharebook server.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Lookups of missing records return an error matching failure.ErrNotFound.
type Store interface {
	// CreateUser persists a new user together with the info of its user group.
	// The user.ID and user.UserGroupInfo fields are populated by the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user with its memberships.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUserByMailAddress retrieves a user by primary mail address.
	GetUserByMailAddress(ctx context.Context, mailAddress string) (*models.User, error)

	// CreateGroup persists a shared group, its info and the owner's
	// membership. The ids of group and info are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group, info *models.GroupInfo) error

	// GetGroup retrieves a group by its ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByListID retrieves the group owning a member or invitation list.
	GetGroupByListID(ctx context.Context, listID string) (*models.Group, error)

	GetGroupInfo(ctx context.Context, id models.IDTuple) (*models.GroupInfo, error)

	ListGroupMembers(ctx context.Context, listID string) ([]*models.GroupMember, error)
	GetGroupMember(ctx context.Context, id models.IDTuple) (*models.GroupMember, error)
	GetGroupMemberByUser(ctx context.Context, groupID, userID string) (*models.GroupMember, error)

	// AddGroupMember persists a membership. The member ID is populated by the
	// store.
	AddGroupMember(ctx context.Context, member *models.GroupMember) error
	DeleteGroupMember(ctx context.Context, id models.IDTuple) error

	ListSentInvitations(ctx context.Context, listID string) ([]*models.SentGroupInvitation, error)
	GetSentInvitation(ctx context.Context, id models.IDTuple) (*models.SentGroupInvitation, error)

	// CreateSentInvitation persists a pending invitation. The ID is populated
	// by the store.
	CreateSentInvitation(ctx context.Context, invitation *models.SentGroupInvitation) error
	DeleteSentInvitation(ctx context.Context, id models.IDTuple) error

	// CreateSentInvitations persists several invitations atomically.
	CreateSentInvitations(ctx context.Context, invitations []*models.SentGroupInvitation) error

	// AcceptInvitation atomically adds member and deletes the accepted
	// invitation. The member ID is populated by the store.
	AcceptInvitation(ctx context.Context, member *models.GroupMember, invitationID models.IDTuple) error

	CreateCustomer(ctx context.Context, customer *models.Customer, info *models.AccountingInfo) error
	GetCustomer(ctx context.Context, customerID string) (*models.Customer, error)
	GetAccountingInfo(ctx context.Context, accountingInfoID string) (*models.AccountingInfo, error)

	// ListBookings returns the booked count per feature of a customer.
	ListBookings(ctx context.Context, customerID string) (map[models.FeatureType]int, error)

	// SetBooking stores the booked count of one feature. A zero count removes
	// the booking.
	SetBooking(ctx context.Context, customerID string, feature models.FeatureType, count int) error

	// RecordShareNotification queues a share notification mail.
	RecordShareNotification(ctx context.Context, groupID, senderID, recipient string) error

	// ListShareNotifications returns the queued recipients of a group.
	ListShareNotifications(ctx context.Context, groupID string) ([]string, error)

	// ListPendingShareNotifications returns up to limit undelivered
	// notifications, oldest first.
	ListPendingShareNotifications(ctx context.Context, limit int) ([]*models.ShareNotification, error)

	// MarkShareNotificationSent records the delivery of a notification.
	MarkShareNotificationSent(ctx context.Context, id string, sentAt int64) error

	// Close releases any resources held by the store.
	Close() error
}
