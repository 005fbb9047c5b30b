package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/pkg/api"
)

func TestEntityService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.clientsFor(t, env.alice)
	bob := env.clientsFor(t, env.bob)
	carol := env.clientsFor(t, env.carol)

	t.Run("GetUser defaults to the caller", func(t *testing.T) {
		resp, err := bob.entity.GetUser(ctx, connect.NewRequest(&api.GetUserRequest{}))
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		user := resp.Msg.User
		if user.ID != env.bob.ID || user.Membership(env.group.ID) == nil {
			t.Errorf("user = %+v, want bob with membership", user)
		}
	})

	t.Run("GetGroup for members only", func(t *testing.T) {
		resp, err := bob.entity.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: env.group.ID}))
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if resp.Msg.Group.OwnerUserID != env.alice.ID {
			t.Errorf("group = %+v", resp.Msg.Group)
		}

		_, err = carol.entity.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: env.group.ID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("members and their infos", func(t *testing.T) {
		resp, err := bob.entity.ListGroupMembers(ctx, connect.NewRequest(&api.ListGroupMembersRequest{ListID: env.group.Members}))
		if err != nil {
			t.Fatalf("ListGroupMembers failed: %v", err)
		}
		members := resp.Msg.Members
		if len(members) != 2 {
			t.Fatalf("got %d members, want 2", len(members))
		}
		if members[0].UserID != env.alice.ID || members[0].Capability != nil {
			t.Errorf("first member = %+v, want owner without capability", members[0])
		}

		info, err := bob.entity.GetGroupInfo(ctx, connect.NewRequest(&api.GetGroupInfoRequest{ID: members[1].UserGroupInfo}))
		if err != nil {
			t.Fatalf("GetGroupInfo failed: %v", err)
		}
		if info.Msg.Info.MailAddress != "bob@sharebook.test" {
			t.Errorf("info = %+v", info.Msg.Info)
		}

		member, err := bob.entity.GetGroupMember(ctx, connect.NewRequest(&api.GetGroupMemberRequest{ID: members[1].ID}))
		if err != nil {
			t.Fatalf("GetGroupMember failed: %v", err)
		}
		if member.Msg.Member.UserID != env.bob.ID {
			t.Errorf("member = %+v", member.Msg.Member)
		}
	})

	t.Run("invitations", func(t *testing.T) {
		if _, err := invite(alice, env.group.ID, "dave@external.org"); err != nil {
			t.Fatalf("SendGroupInvitation failed: %v", err)
		}
		resp, err := bob.entity.ListSentInvitations(ctx, connect.NewRequest(&api.ListSentInvitationsRequest{ListID: env.group.Invitations}))
		if err != nil {
			t.Fatalf("ListSentInvitations failed: %v", err)
		}
		if len(resp.Msg.Invitations) != 1 {
			t.Fatalf("got %d invitations, want 1", len(resp.Msg.Invitations))
		}
		id := resp.Msg.Invitations[0].ID

		got, err := bob.entity.GetSentInvitation(ctx, connect.NewRequest(&api.GetSentInvitationRequest{ID: id}))
		if err != nil {
			t.Fatalf("GetSentInvitation failed: %v", err)
		}
		if got.Msg.Invitation.InviteeMailAddress != "dave@external.org" {
			t.Errorf("invitation = %+v", got.Msg.Invitation)
		}

		id.ElementID = "missing"
		_, err = bob.entity.GetSentInvitation(ctx, connect.NewRequest(&api.GetSentInvitationRequest{ID: id}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("customer and accounting info", func(t *testing.T) {
		resp, err := bob.entity.GetCustomer(ctx, connect.NewRequest(&api.GetCustomerRequest{CustomerID: env.customer.ID}))
		if err != nil {
			t.Fatalf("GetCustomer failed: %v", err)
		}
		accountingID := resp.Msg.Customer.AccountingInfoID

		_, err = bob.entity.GetAccountingInfo(ctx, connect.NewRequest(&api.GetAccountingInfoRequest{AccountingInfoID: accountingID}))
		assertCode(t, err, connect.CodePermissionDenied)
		if failure.KindOf(failure.FromConnect("get accounting info", err)) != failure.NotAuthorized {
			t.Error("expected not authorized kind")
		}

		info, err := alice.entity.GetAccountingInfo(ctx, connect.NewRequest(&api.GetAccountingInfoRequest{AccountingInfoID: accountingID}))
		if err != nil {
			t.Fatalf("GetAccountingInfo failed: %v", err)
		}
		if info.Msg.AccountingInfo.InvoiceCountry != "DE" {
			t.Errorf("accounting info = %+v", info.Msg.AccountingInfo)
		}

		_, err = bob.entity.GetCustomer(ctx, connect.NewRequest(&api.GetCustomerRequest{CustomerID: "other"}))
		assertCode(t, err, connect.CodePermissionDenied)
	})
}
