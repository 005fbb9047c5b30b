package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/storage"
	"github.com/mmynk/sharebook/pkg/api"
	"github.com/mmynk/sharebook/pkg/api/apiconnect"
)

// EntityService implements the Connect EntityService. It serves the records
// clients build their views from.
type EntityService struct {
	apiconnect.UnimplementedEntityServiceHandler
	store  storage.Store
	logger *slog.Logger
}

// NewEntityService creates a new EntityService.
func NewEntityService(deps Deps) *EntityService {
	deps.defaults()
	return &EntityService{store: deps.Store, logger: deps.Logger}
}

// GetUser returns the caller, or another user of the caller's customer.
func (s *EntityService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	const op = "get user"
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if req.Msg.UserID == "" || req.Msg.UserID == user.ID {
		return connect.NewResponse(&api.GetUserResponse{User: user}), nil
	}

	other, err := s.store.GetUser(ctx, req.Msg.UserID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if other.CustomerID != user.CustomerID {
		return nil, toConnect(s.logger, op, failure.New(failure.NotAuthorized, op,
			fmt.Errorf("user %s belongs to another customer", other.ID)))
	}
	return connect.NewResponse(&api.GetUserResponse{User: other}), nil
}

// GetGroup returns a group the caller is a member of.
func (s *EntityService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	const op = "get group"
	group, err := s.memberGroup(ctx, func(ctx context.Context) (*models.Group, error) {
		return s.store.GetGroup(ctx, req.Msg.GroupID)
	})
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: group}), nil
}

// GetGroupInfo returns display info. Infos are visible to every user since
// members of a group show each other's names.
func (s *EntityService) GetGroupInfo(ctx context.Context, req *connect.Request[api.GetGroupInfoRequest]) (*connect.Response[api.GetGroupInfoResponse], error) {
	const op = "get group info"
	if _, err := caller(ctx, s.store); err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	info, err := s.store.GetGroupInfo(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	return connect.NewResponse(&api.GetGroupInfoResponse{Info: info}), nil
}

func (s *EntityService) ListSentInvitations(ctx context.Context, req *connect.Request[api.ListSentInvitationsRequest]) (*connect.Response[api.ListSentInvitationsResponse], error) {
	const op = "list sent invitations"
	if _, err := s.memberGroup(ctx, s.byList(req.Msg.ListID)); err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	invitations, err := s.store.ListSentInvitations(ctx, req.Msg.ListID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	return connect.NewResponse(&api.ListSentInvitationsResponse{Invitations: invitations}), nil
}

func (s *EntityService) GetSentInvitation(ctx context.Context, req *connect.Request[api.GetSentInvitationRequest]) (*connect.Response[api.GetSentInvitationResponse], error) {
	const op = "get sent invitation"
	if _, err := s.memberGroup(ctx, s.byList(req.Msg.ID.ListID)); err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	invitation, err := s.store.GetSentInvitation(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	return connect.NewResponse(&api.GetSentInvitationResponse{Invitation: invitation}), nil
}

func (s *EntityService) ListGroupMembers(ctx context.Context, req *connect.Request[api.ListGroupMembersRequest]) (*connect.Response[api.ListGroupMembersResponse], error) {
	const op = "list group members"
	if _, err := s.memberGroup(ctx, s.byList(req.Msg.ListID)); err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	members, err := s.store.ListGroupMembers(ctx, req.Msg.ListID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	return connect.NewResponse(&api.ListGroupMembersResponse{Members: members}), nil
}

func (s *EntityService) GetGroupMember(ctx context.Context, req *connect.Request[api.GetGroupMemberRequest]) (*connect.Response[api.GetGroupMemberResponse], error) {
	const op = "get group member"
	if _, err := s.memberGroup(ctx, s.byList(req.Msg.ID.ListID)); err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	member, err := s.store.GetGroupMember(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	return connect.NewResponse(&api.GetGroupMemberResponse{Member: member}), nil
}

// GetCustomer returns the caller's own customer.
func (s *EntityService) GetCustomer(ctx context.Context, req *connect.Request[api.GetCustomerRequest]) (*connect.Response[api.GetCustomerResponse], error) {
	const op = "get customer"
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if req.Msg.CustomerID != user.CustomerID {
		return nil, toConnect(s.logger, op, failure.New(failure.NotAuthorized, op,
			fmt.Errorf("customer %s is not the caller's", req.Msg.CustomerID)))
	}
	customer, err := s.store.GetCustomer(ctx, req.Msg.CustomerID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	return connect.NewResponse(&api.GetCustomerResponse{Customer: customer}), nil
}

// GetAccountingInfo returns invoice data. Only global admins of the customer
// may read it.
func (s *EntityService) GetAccountingInfo(ctx context.Context, req *connect.Request[api.GetAccountingInfoRequest]) (*connect.Response[api.GetAccountingInfoResponse], error) {
	const op = "get accounting info"
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if !user.GlobalAdmin {
		return nil, toConnect(s.logger, op, failure.New(failure.NotAuthorized, op,
			fmt.Errorf("user %s is not a global admin", user.ID)))
	}
	customer, err := s.store.GetCustomer(ctx, user.CustomerID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if customer.AccountingInfoID != req.Msg.AccountingInfoID {
		return nil, toConnect(s.logger, op, failure.New(failure.NotAuthorized, op,
			fmt.Errorf("accounting info %s is not the caller's", req.Msg.AccountingInfoID)))
	}
	info, err := s.store.GetAccountingInfo(ctx, req.Msg.AccountingInfoID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	return connect.NewResponse(&api.GetAccountingInfoResponse{AccountingInfo: info}), nil
}

func (s *EntityService) byList(listID string) func(context.Context) (*models.Group, error) {
	return func(ctx context.Context) (*models.Group, error) {
		return s.store.GetGroupByListID(ctx, listID)
	}
}

// memberGroup loads a group and checks that the caller is a member.
func (s *EntityService) memberGroup(ctx context.Context, load func(context.Context) (*models.Group, error)) (*models.Group, error) {
	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, err
	}
	group, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireMember(user, group); err != nil {
		return nil, err
	}
	return group, nil
}
