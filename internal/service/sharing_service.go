package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/metrics"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/storage"
	"github.com/mmynk/sharebook/pkg/api"
	"github.com/mmynk/sharebook/pkg/api/apiconnect"
)

// SharingService implements the Connect SharingService.
type SharingService struct {
	apiconnect.UnimplementedSharingServiceHandler
	store           storage.Store
	bus             *events.Bus
	metrics         *metrics.Metrics
	logger          *slog.Logger
	internalDomains []string
}

// NewSharingService creates a new SharingService.
func NewSharingService(deps Deps) *SharingService {
	deps.defaults()
	return &SharingService{
		store:           deps.Store,
		bus:             deps.Bus,
		metrics:         deps.Metrics,
		logger:          deps.Logger,
		internalDomains: deps.InternalDomains,
	}
}

// SendGroupInvitation invites recipients into a shared group. Nothing is
// created if any recipient on an internal domain is unknown.
func (s *SharingService) SendGroupInvitation(ctx context.Context, req *connect.Request[api.SendGroupInvitationRequest]) (*connect.Response[api.SendGroupInvitationResponse], error) {
	s.logger.Info("SendGroupInvitation request received",
		"group_id", req.Msg.GroupID,
		"recipients_count", len(req.Msg.Recipients),
		"capability", req.Msg.Capability,
	)
	const op = "send group invitation"

	if !req.Msg.Capability.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid capability %d", req.Msg.Capability))
	}
	if len(req.Msg.Recipients) == 0 {
		return nil, toConnect(s.logger, op, failure.New(failure.ValidationEmpty, op, errors.New("no recipients")))
	}

	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if err := requireInvite(user, group); err != nil {
		return nil, toConnect(s.logger, op, err)
	}

	bookings, err := s.store.ListBookings(ctx, group.CustomerID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if bookings[models.FeatureSharing] <= 0 {
		return nil, toConnect(s.logger, op, failure.New(failure.PreconditionFailed, op,
			fmt.Errorf("sharing is not booked for customer %s", group.CustomerID)))
	}

	plan, err := s.classifyRecipients(ctx, group, req.Msg.Recipients)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if len(plan.unresolved) > 0 {
		return nil, toConnect(s.logger, op, failure.Recipients(op, plan.unresolved))
	}

	invitations := make([]*models.SentGroupInvitation, 0, len(plan.result.Invited))
	for _, addr := range plan.result.Invited {
		invitations = append(invitations, &models.SentGroupInvitation{
			ID:                 models.IDTuple{ListID: group.Invitations},
			GroupID:            group.ID,
			InviteeMailAddress: addr,
			Capability:         req.Msg.Capability,
		})
	}
	if err := s.store.CreateSentInvitations(ctx, invitations); err != nil {
		return nil, toConnect(s.logger, op, err)
	}

	updates := make([]events.EntityUpdate, 0, len(invitations))
	for _, invitation := range invitations {
		updates = append(updates, events.EntityUpdate{
			Type:      events.TypeSentGroupInvitation,
			Operation: events.OperationCreate,
			OwnerID:   group.ID,
			ListID:    invitation.ID.ListID,
			ElementID: invitation.ID.ElementID,
		})
	}
	s.bus.Publish(ctx, updates)
	s.metrics.ObserveInvitation(plan.result)

	s.logger.Info("Group invitations sent",
		"group_id", group.ID,
		"invited", len(plan.result.Invited),
		"existing", len(plan.result.Existing),
		"invalid", len(plan.result.Invalid),
	)
	return connect.NewResponse(&api.SendGroupInvitationResponse{Result: plan.result}), nil
}

// RevokeInvitation deletes a pending invitation.
func (s *SharingService) RevokeInvitation(ctx context.Context, req *connect.Request[api.RevokeInvitationRequest]) (*connect.Response[api.RevokeInvitationResponse], error) {
	s.logger.Info("RevokeInvitation request received", "invitation_id", req.Msg.InvitationID)
	const op = "revoke invitation"

	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	group, err := s.store.GetGroupByListID(ctx, req.Msg.InvitationID.ListID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if err := requireInvite(user, group); err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if err := s.store.DeleteSentInvitation(ctx, req.Msg.InvitationID); err != nil {
		return nil, toConnect(s.logger, op, err)
	}

	s.bus.Publish(ctx, []events.EntityUpdate{{
		Type:      events.TypeSentGroupInvitation,
		Operation: events.OperationDelete,
		OwnerID:   group.ID,
		ListID:    req.Msg.InvitationID.ListID,
		ElementID: req.Msg.InvitationID.ElementID,
	}})
	s.logger.Info("Invitation revoked", "group_id", group.ID, "invitation_id", req.Msg.InvitationID)
	return connect.NewResponse(&api.RevokeInvitationResponse{}), nil
}

// RemoveGroupMember removes a member from a shared group. Members may always
// remove themselves; the owner cannot be removed.
func (s *SharingService) RemoveGroupMember(ctx context.Context, req *connect.Request[api.RemoveGroupMemberRequest]) (*connect.Response[api.RemoveGroupMemberResponse], error) {
	s.logger.Info("RemoveGroupMember request received", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)
	const op = "remove group member"

	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if req.Msg.UserID == group.OwnerUserID {
		return nil, toConnect(s.logger, op, failure.New(failure.NotAuthorized, op,
			errors.New("the owner cannot be removed from a group")))
	}
	if req.Msg.UserID != user.ID {
		if err := requireInvite(user, group); err != nil {
			return nil, toConnect(s.logger, op, err)
		}
	}

	member, err := s.store.GetGroupMemberByUser(ctx, group.ID, req.Msg.UserID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if err := s.store.DeleteGroupMember(ctx, member.ID); err != nil {
		return nil, toConnect(s.logger, op, err)
	}

	s.bus.Publish(ctx, []events.EntityUpdate{{
		Type:      events.TypeGroupMember,
		Operation: events.OperationDelete,
		OwnerID:   group.ID,
		ListID:    member.ID.ListID,
		ElementID: member.ID.ElementID,
	}})
	s.logger.Info("Group member removed", "group_id", group.ID, "user_id", req.Msg.UserID)
	return connect.NewResponse(&api.RemoveGroupMemberResponse{}), nil
}

// AcceptInvitation turns an invitation addressed to the caller into a
// membership.
func (s *SharingService) AcceptInvitation(ctx context.Context, req *connect.Request[api.AcceptInvitationRequest]) (*connect.Response[api.AcceptInvitationResponse], error) {
	s.logger.Info("AcceptInvitation request received", "invitation_id", req.Msg.InvitationID)
	const op = "accept invitation"

	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	invitation, err := s.store.GetSentInvitation(ctx, req.Msg.InvitationID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if !strings.EqualFold(invitation.InviteeMailAddress, user.MailAddress) {
		return nil, toConnect(s.logger, op, failure.New(failure.NotAuthorized, op,
			fmt.Errorf("invitation is addressed to %s", invitation.InviteeMailAddress)))
	}
	group, err := s.store.GetGroup(ctx, invitation.GroupID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}

	capability := invitation.Capability
	member := &models.GroupMember{
		ID:            models.IDTuple{ListID: group.Members},
		GroupID:       group.ID,
		UserID:        user.ID,
		UserGroupInfo: user.UserGroupInfo,
		Capability:    &capability,
	}
	if err := s.store.AcceptInvitation(ctx, member, invitation.ID); err != nil {
		return nil, toConnect(s.logger, op, err)
	}

	s.bus.Publish(ctx, []events.EntityUpdate{
		{
			Type:      events.TypeGroupMember,
			Operation: events.OperationCreate,
			OwnerID:   group.ID,
			ListID:    member.ID.ListID,
			ElementID: member.ID.ElementID,
		},
		{
			Type:      events.TypeSentGroupInvitation,
			Operation: events.OperationDelete,
			OwnerID:   group.ID,
			ListID:    invitation.ID.ListID,
			ElementID: invitation.ID.ElementID,
		},
	})
	s.logger.Info("Invitation accepted", "group_id", group.ID, "user_id", user.ID)
	return connect.NewResponse(&api.AcceptInvitationResponse{Member: member}), nil
}

// SendShareNotification queues a notification mail per recipient.
func (s *SharingService) SendShareNotification(ctx context.Context, req *connect.Request[api.SendShareNotificationRequest]) (*connect.Response[api.SendShareNotificationResponse], error) {
	s.logger.Info("SendShareNotification request received",
		"group_id", req.Msg.GroupID,
		"recipients_count", len(req.Msg.Recipients),
	)
	const op = "send share notification"

	user, err := caller(ctx, s.store)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnect(s.logger, op, err)
	}
	if err := requireInvite(user, group); err != nil {
		return nil, toConnect(s.logger, op, err)
	}

	queued := 0
	for _, recipient := range req.Msg.Recipients {
		recipient = strings.ToLower(strings.TrimSpace(recipient))
		if recipient == "" {
			continue
		}
		if err := s.store.RecordShareNotification(ctx, group.ID, user.ID, recipient); err != nil {
			return nil, toConnect(s.logger, op, err)
		}
		queued++
	}
	s.metrics.Notifications.WithLabelValues("queued").Add(float64(queued))
	return connect.NewResponse(&api.SendShareNotificationResponse{Queued: queued}), nil
}
