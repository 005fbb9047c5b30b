// Package client talks to a sharebook server. It implements the remote
// interfaces of the sharing and booking packages on top of the Connect
// clients.
package client

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/internal/booking"
	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/middleware"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/session"
	"github.com/mmynk/sharebook/internal/sharing"
	"github.com/mmynk/sharebook/pkg/api"
	"github.com/mmynk/sharebook/pkg/api/apiconnect"
)

var (
	_ sharing.Entities = (*Client)(nil)
	_ sharing.Remote   = (*Client)(nil)
	_ booking.Remote   = (*Client)(nil)
)

// Client is an authenticated connection to one server.
type Client struct {
	sharing apiconnect.SharingServiceClient
	entity  apiconnect.EntityServiceClient
	booking apiconnect.BookingServiceClient
	events  apiconnect.EventServiceClient
	logger  *slog.Logger
}

// New creates a client that authenticates with token.
func New(httpClient connect.HTTPClient, baseURL, token string, logger *slog.Logger, opts ...connect.ClientOption) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append([]connect.ClientOption{connect.WithInterceptors(middleware.BearerToken(token))}, opts...)
	return &Client{
		sharing: apiconnect.NewSharingServiceClient(httpClient, baseURL, opts...),
		entity:  apiconnect.NewEntityServiceClient(httpClient, baseURL, opts...),
		booking: apiconnect.NewBookingServiceClient(httpClient, baseURL, opts...),
		events:  apiconnect.NewEventServiceClient(httpClient, baseURL, opts...),
		logger:  logger,
	}
}

// Session loads the authenticated user and its customer.
func (c *Client) Session(ctx context.Context) (*session.Session, error) {
	user, err := c.GetUser(ctx, "")
	if err != nil {
		return nil, err
	}
	customer, err := c.GetCustomer(ctx, user.CustomerID)
	if err != nil {
		return nil, err
	}
	return &session.Session{User: user, Customer: customer}, nil
}

// GetUser loads a user. An empty id loads the caller.
func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	resp, err := c.entity.GetUser(ctx, connect.NewRequest(&api.GetUserRequest{UserID: userID}))
	if err != nil {
		return nil, failure.FromConnect("get user", err)
	}
	return resp.Msg.User, nil
}

func (c *Client) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	resp, err := c.entity.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
	if err != nil {
		return nil, failure.FromConnect("get group", err)
	}
	return resp.Msg.Group, nil
}

func (c *Client) GetGroupInfo(ctx context.Context, id models.IDTuple) (*models.GroupInfo, error) {
	resp, err := c.entity.GetGroupInfo(ctx, connect.NewRequest(&api.GetGroupInfoRequest{ID: id}))
	if err != nil {
		return nil, failure.FromConnect("get group info", err)
	}
	return resp.Msg.Info, nil
}

func (c *Client) ListSentInvitations(ctx context.Context, listID string) ([]*models.SentGroupInvitation, error) {
	resp, err := c.entity.ListSentInvitations(ctx, connect.NewRequest(&api.ListSentInvitationsRequest{ListID: listID}))
	if err != nil {
		return nil, failure.FromConnect("list sent invitations", err)
	}
	return resp.Msg.Invitations, nil
}

func (c *Client) GetSentInvitation(ctx context.Context, id models.IDTuple) (*models.SentGroupInvitation, error) {
	resp, err := c.entity.GetSentInvitation(ctx, connect.NewRequest(&api.GetSentInvitationRequest{ID: id}))
	if err != nil {
		return nil, failure.FromConnect("get sent invitation", err)
	}
	return resp.Msg.Invitation, nil
}

func (c *Client) ListGroupMembers(ctx context.Context, listID string) ([]*models.GroupMember, error) {
	resp, err := c.entity.ListGroupMembers(ctx, connect.NewRequest(&api.ListGroupMembersRequest{ListID: listID}))
	if err != nil {
		return nil, failure.FromConnect("list group members", err)
	}
	return resp.Msg.Members, nil
}

func (c *Client) GetGroupMember(ctx context.Context, id models.IDTuple) (*models.GroupMember, error) {
	resp, err := c.entity.GetGroupMember(ctx, connect.NewRequest(&api.GetGroupMemberRequest{ID: id}))
	if err != nil {
		return nil, failure.FromConnect("get group member", err)
	}
	return resp.Msg.Member, nil
}

func (c *Client) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	resp, err := c.entity.GetCustomer(ctx, connect.NewRequest(&api.GetCustomerRequest{CustomerID: customerID}))
	if err != nil {
		return nil, failure.FromConnect("get customer", err)
	}
	return resp.Msg.Customer, nil
}

// GetAccountingInfo fails with failure.ErrNotAuthorized for users that are
// not global admins.
func (c *Client) GetAccountingInfo(ctx context.Context, accountingInfoID string) (*models.AccountingInfo, error) {
	resp, err := c.entity.GetAccountingInfo(ctx, connect.NewRequest(&api.GetAccountingInfoRequest{AccountingInfoID: accountingInfoID}))
	if err != nil {
		return nil, failure.FromConnect("get accounting info", err)
	}
	return resp.Msg.AccountingInfo, nil
}

func (c *Client) SendGroupInvitation(ctx context.Context, info *models.GroupInfo, calendarName string, recipients []string, capability models.Capability) (*models.InvitationResult, error) {
	resp, err := c.sharing.SendGroupInvitation(ctx, connect.NewRequest(&api.SendGroupInvitationRequest{
		GroupID:      info.GroupID,
		CalendarName: calendarName,
		Recipients:   recipients,
		Capability:   capability,
	}))
	if err != nil {
		return nil, failure.FromConnect("send group invitation", err)
	}
	result := resp.Msg.Result
	return &result, nil
}

func (c *Client) RevokeInvitation(ctx context.Context, id models.IDTuple) error {
	_, err := c.sharing.RevokeInvitation(ctx, connect.NewRequest(&api.RevokeInvitationRequest{InvitationID: id}))
	return failure.FromConnect("revoke invitation", err)
}

func (c *Client) RemoveMember(ctx context.Context, userID, groupID string) error {
	_, err := c.sharing.RemoveGroupMember(ctx, connect.NewRequest(&api.RemoveGroupMemberRequest{GroupID: groupID, UserID: userID}))
	return failure.FromConnect("remove group member", err)
}

// AcceptInvitation accepts an invitation addressed to the caller.
func (c *Client) AcceptInvitation(ctx context.Context, id models.IDTuple) (*models.GroupMember, error) {
	resp, err := c.sharing.AcceptInvitation(ctx, connect.NewRequest(&api.AcceptInvitationRequest{InvitationID: id}))
	if err != nil {
		return nil, failure.FromConnect("accept invitation", err)
	}
	return resp.Msg.Member, nil
}

func (c *Client) SendShareNotification(ctx context.Context, info *models.GroupInfo, recipients []string) error {
	_, err := c.sharing.SendShareNotification(ctx, connect.NewRequest(&api.SendShareNotificationRequest{
		GroupID:    info.GroupID,
		Recipients: recipients,
	}))
	return failure.FromConnect("send share notification", err)
}

func (c *Client) GetPrice(ctx context.Context, feature models.FeatureType, count int, reactivate bool) (*models.PriceQuote, error) {
	resp, err := c.booking.GetPrice(ctx, connect.NewRequest(&api.GetPriceRequest{
		Feature:    feature,
		Count:      count,
		Reactivate: reactivate,
	}))
	if err != nil {
		return nil, failure.FromConnect("get price", err)
	}
	return resp.Msg.Quote, nil
}

func (c *Client) BookFeature(ctx context.Context, feature models.FeatureType, count int) error {
	_, err := c.booking.BookFeature(ctx, connect.NewRequest(&api.BookFeatureRequest{Feature: feature, Count: count}))
	return failure.FromConnect("book feature", err)
}
