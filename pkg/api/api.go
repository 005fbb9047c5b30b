// Package api defines the request and response messages of the sharebook
// RPC services. Messages travel as JSON and reuse the domain models.
package api

import (
	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/internal/models"
)

// SharingService

type SendGroupInvitationRequest struct {
	GroupID      string            `json:"groupId"`
	CalendarName string            `json:"calendarName"`
	Recipients   []string          `json:"recipients"`
	Capability   models.Capability `json:"capability"`
}

type SendGroupInvitationResponse struct {
	Result models.InvitationResult `json:"result"`
}

type RevokeInvitationRequest struct {
	InvitationID models.IDTuple `json:"invitationId"`
}

type RevokeInvitationResponse struct{}

type RemoveGroupMemberRequest struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

type RemoveGroupMemberResponse struct{}

// AcceptInvitationRequest turns a pending invitation addressed to the caller
// into a membership.
type AcceptInvitationRequest struct {
	InvitationID models.IDTuple `json:"invitationId"`
}

type AcceptInvitationResponse struct {
	Member *models.GroupMember `json:"member"`
}

type SendShareNotificationRequest struct {
	GroupID    string   `json:"groupId"`
	Recipients []string `json:"recipients"`
}

type SendShareNotificationResponse struct {
	Queued int `json:"queued"`
}

// EntityService

type GetUserRequest struct {
	// UserID defaults to the caller.
	UserID string `json:"userId,omitempty"`
}

type GetUserResponse struct {
	User *models.User `json:"user"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *models.Group `json:"group"`
}

type GetGroupInfoRequest struct {
	ID models.IDTuple `json:"id"`
}

type GetGroupInfoResponse struct {
	Info *models.GroupInfo `json:"info"`
}

type ListSentInvitationsRequest struct {
	ListID string `json:"listId"`
}

type ListSentInvitationsResponse struct {
	Invitations []*models.SentGroupInvitation `json:"invitations"`
}

type GetSentInvitationRequest struct {
	ID models.IDTuple `json:"id"`
}

type GetSentInvitationResponse struct {
	Invitation *models.SentGroupInvitation `json:"invitation"`
}

type ListGroupMembersRequest struct {
	ListID string `json:"listId"`
}

type ListGroupMembersResponse struct {
	Members []*models.GroupMember `json:"members"`
}

type GetGroupMemberRequest struct {
	ID models.IDTuple `json:"id"`
}

type GetGroupMemberResponse struct {
	Member *models.GroupMember `json:"member"`
}

type GetCustomerRequest struct {
	CustomerID string `json:"customerId"`
}

type GetCustomerResponse struct {
	Customer *models.Customer `json:"customer"`
}

type GetAccountingInfoRequest struct {
	AccountingInfoID string `json:"accountingInfoId"`
}

type GetAccountingInfoResponse struct {
	AccountingInfo *models.AccountingInfo `json:"accountingInfo"`
}

// BookingService

type GetPriceRequest struct {
	Feature    models.FeatureType `json:"feature"`
	Count      int                `json:"count"`
	Reactivate bool               `json:"reactivate"`
}

type GetPriceResponse struct {
	Quote *models.PriceQuote `json:"quote"`
}

type BookFeatureRequest struct {
	Feature models.FeatureType `json:"feature"`
	Count   int                `json:"count"`
}

type BookFeatureResponse struct {
	// Booked is the new booked count of the feature.
	Booked int `json:"booked"`
}

// EventService

type SubscribeEntityEventsRequest struct {
	// GroupIDs limits the stream to updates of these groups. Every group must
	// be one the caller is a member of.
	GroupIDs []string `json:"groupIds"`
}

type EntityEventBatch struct {
	Updates []events.EntityUpdate `json:"updates"`
}
