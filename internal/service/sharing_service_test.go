package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/storage"
	"github.com/mmynk/sharebook/pkg/api"
)

func invite(c clients, groupID string, recipients ...string) (*connect.Response[api.SendGroupInvitationResponse], error) {
	return c.sharing.SendGroupInvitation(context.Background(), connect.NewRequest(&api.SendGroupInvitationRequest{
		GroupID:      groupID,
		CalendarName: "Family",
		Recipients:   recipients,
		Capability:   models.CapabilityRead,
	}))
}

func TestSendGroupInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies recipients and publishes creates", func(t *testing.T) {
		env := newTestEnv(t)
		updates := env.recordUpdates(t)
		c := env.clientsFor(t, env.alice)

		resp, err := invite(c, env.group.ID,
			"dave@external.org",
			"bob@sharebook.test",
			"not an address",
			"DAVE@external.org",
			"Carol@sharebook.test",
		)
		if err != nil {
			t.Fatalf("SendGroupInvitation failed: %v", err)
		}

		want := models.InvitationResult{
			Invited:  []string{"dave@external.org", "carol@sharebook.test"},
			Existing: []string{"bob@sharebook.test"},
			Invalid:  []string{"not an address"},
		}
		if !reflect.DeepEqual(resp.Msg.Result, want) {
			t.Errorf("Result = %+v, want %+v", resp.Msg.Result, want)
		}

		got := updates()
		if len(got) != 2 {
			t.Fatalf("published %d updates, want 2", len(got))
		}
		for _, u := range got {
			if u.Type != events.TypeSentGroupInvitation || u.Operation != events.OperationCreate ||
				u.OwnerID != env.group.ID || u.ListID != env.group.Invitations {
				t.Errorf("unexpected update %+v", u)
			}
		}

		pending, err := env.store.ListSentInvitations(ctx, env.group.Invitations)
		if err != nil {
			t.Fatalf("ListSentInvitations failed: %v", err)
		}
		if len(pending) != 2 {
			t.Errorf("stored %d invitations, want 2", len(pending))
		}
	})

	t.Run("pending invitation counts as existing", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.clientsFor(t, env.alice)
		if _, err := invite(c, env.group.ID, "dave@external.org"); err != nil {
			t.Fatalf("first invitation failed: %v", err)
		}
		resp, err := invite(c, env.group.ID, "dave@external.org")
		if err != nil {
			t.Fatalf("second invitation failed: %v", err)
		}
		if len(resp.Msg.Result.Invited) != 0 || len(resp.Msg.Result.Existing) != 1 {
			t.Errorf("Result = %+v", resp.Msg.Result)
		}
	})

	t.Run("unknown internal recipients reject the whole request", func(t *testing.T) {
		env := newTestEnv(t)
		c := env.clientsFor(t, env.alice)

		_, err := invite(c, env.group.ID, "ghost@sharebook.test", "dave@external.org", "nobody@SHAREBOOK.test")
		assertCode(t, err, connect.CodeInvalidArgument)

		restored := failure.FromConnect("invite", err)
		if failure.KindOf(restored) != failure.RecipientsUnresolved {
			t.Fatalf("kind = %v, want recipients unresolved", failure.KindOf(restored))
		}
		wantAddrs := []string{"ghost@sharebook.test", "nobody@sharebook.test"}
		if got := failure.AddressesOf(restored); !reflect.DeepEqual(got, wantAddrs) {
			t.Errorf("addresses = %v, want %v", got, wantAddrs)
		}

		pending, _ := env.store.ListSentInvitations(ctx, env.group.Invitations)
		if len(pending) != 0 {
			t.Errorf("stored %d invitations, want none", len(pending))
		}
	})

	t.Run("sharing not booked", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.store.SetBooking(ctx, env.customer.ID, models.FeatureSharing, 0); err != nil {
			t.Fatalf("SetBooking failed: %v", err)
		}
		_, err := invite(env.clientsFor(t, env.alice), env.group.ID, "dave@external.org")
		assertCode(t, err, connect.CodeFailedPrecondition)
		if failure.KindOf(failure.FromConnect("invite", err)) != failure.PreconditionFailed {
			t.Error("expected precondition failed kind")
		}
	})

	t.Run("requires invite capability", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := invite(env.clientsFor(t, env.bob), env.group.ID, "dave@external.org")
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("empty recipients", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := invite(env.clientsFor(t, env.alice), env.group.ID)
		assertCode(t, err, connect.CodeInvalidArgument)
		if failure.KindOf(failure.FromConnect("invite", err)) != failure.ValidationEmpty {
			t.Error("expected validation empty kind")
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := invite(env.clientsFor(t, env.alice), "missing", "dave@external.org")
		assertCode(t, err, connect.CodeNotFound)
	})
}

func TestRevokeAndAcceptInvitation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.clientsFor(t, env.alice)
	carol := env.clientsFor(t, env.carol)

	if _, err := invite(alice, env.group.ID, "carol@sharebook.test", "dave@external.org"); err != nil {
		t.Fatalf("SendGroupInvitation failed: %v", err)
	}
	pending, err := env.store.ListSentInvitations(ctx, env.group.Invitations)
	if err != nil || len(pending) != 2 {
		t.Fatalf("pending = %v (err %v), want 2", pending, err)
	}
	toCarol, toDave := pending[0], pending[1]

	t.Run("only the invitee can accept", func(t *testing.T) {
		_, err := alice.sharing.AcceptInvitation(ctx, connect.NewRequest(&api.AcceptInvitationRequest{InvitationID: toDave.ID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("accept creates a membership", func(t *testing.T) {
		updates := env.recordUpdates(t)
		resp, err := carol.sharing.AcceptInvitation(ctx, connect.NewRequest(&api.AcceptInvitationRequest{InvitationID: toCarol.ID}))
		if err != nil {
			t.Fatalf("AcceptInvitation failed: %v", err)
		}
		member := resp.Msg.Member
		if member.UserID != env.carol.ID || member.Capability == nil || *member.Capability != models.CapabilityRead {
			t.Errorf("member = %+v", member)
		}

		got := updates()
		if len(got) != 2 {
			t.Fatalf("published %d updates, want 2", len(got))
		}
		if got[0].Type != events.TypeGroupMember || got[0].Operation != events.OperationCreate || got[0].ElementID != member.ID.ElementID {
			t.Errorf("first update = %+v", got[0])
		}
		if got[1].Type != events.TypeSentGroupInvitation || got[1].Operation != events.OperationDelete || got[1].ElementID != toCarol.ID.ElementID {
			t.Errorf("second update = %+v", got[1])
		}
	})

	t.Run("revoke deletes the invitation", func(t *testing.T) {
		updates := env.recordUpdates(t)
		_, err := alice.sharing.RevokeInvitation(ctx, connect.NewRequest(&api.RevokeInvitationRequest{InvitationID: toDave.ID}))
		if err != nil {
			t.Fatalf("RevokeInvitation failed: %v", err)
		}
		got := updates()
		if len(got) != 1 || got[0].Operation != events.OperationDelete || got[0].ElementID != toDave.ID.ElementID {
			t.Errorf("updates = %+v", got)
		}

		_, err = alice.sharing.RevokeInvitation(ctx, connect.NewRequest(&api.RevokeInvitationRequest{InvitationID: toDave.ID}))
		assertCode(t, err, connect.CodeNotFound)
	})
}

func TestRemoveGroupMember(t *testing.T) {
	ctx := context.Background()
	t.Run("owner cannot be removed", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.clientsFor(t, env.alice).sharing.RemoveGroupMember(ctx, connect.NewRequest(&api.RemoveGroupMemberRequest{
			GroupID: env.group.ID,
			UserID:  env.alice.ID,
		}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("member without invite capability cannot remove others", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.clientsFor(t, env.bob).sharing.RemoveGroupMember(ctx, connect.NewRequest(&api.RemoveGroupMemberRequest{
			GroupID: env.group.ID,
			UserID:  env.carol.ID,
		}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("member can leave", func(t *testing.T) {
		env := newTestEnv(t)
		updates := env.recordUpdates(t)
		_, err := env.clientsFor(t, env.bob).sharing.RemoveGroupMember(ctx, connect.NewRequest(&api.RemoveGroupMemberRequest{
			GroupID: env.group.ID,
			UserID:  env.bob.ID,
		}))
		if err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		got := updates()
		if len(got) != 1 || got[0].Type != events.TypeGroupMember || got[0].Operation != events.OperationDelete ||
			got[0].OwnerID != env.group.ID {
			t.Errorf("updates = %+v", got)
		}
		if _, err := env.store.GetGroupMemberByUser(ctx, env.group.ID, env.bob.ID); failure.KindOf(err) != failure.NotFound {
			t.Errorf("membership still present (err %v)", err)
		}
	})

	t.Run("owner removes a member", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.clientsFor(t, env.alice).sharing.RemoveGroupMember(ctx, connect.NewRequest(&api.RemoveGroupMemberRequest{
			GroupID: env.group.ID,
			UserID:  env.bob.ID,
		}))
		if err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
	})
}

func TestSendShareNotification(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	resp, err := env.clientsFor(t, env.alice).sharing.SendShareNotification(ctx, connect.NewRequest(&api.SendShareNotificationRequest{
		GroupID:    env.group.ID,
		Recipients: []string{" Dave@External.org", ""},
	}))
	if err != nil {
		t.Fatalf("SendShareNotification failed: %v", err)
	}
	if resp.Msg.Queued != 1 {
		t.Errorf("Queued = %d, want 1", resp.Msg.Queued)
	}
	queued, err := env.store.ListShareNotifications(ctx, env.group.ID)
	if err != nil {
		t.Fatalf("ListShareNotifications failed: %v", err)
	}
	if !reflect.DeepEqual(queued, []string{"dave@external.org"}) {
		t.Errorf("queued = %v", queued)
	}
}

// conflictingStore makes multi-row writes fail after their first row.
type conflictingStore struct {
	storage.Store
}

// CreateSentInvitations repeats the first invitee at the end of the batch.
func (s conflictingStore) CreateSentInvitations(ctx context.Context, invitations []*models.SentGroupInvitation) error {
	if len(invitations) > 0 {
		dup := *invitations[0]
		invitations = append(invitations, &dup)
	}
	return s.Store.CreateSentInvitations(ctx, invitations)
}

// AcceptInvitation lets the invitation vanish right before the accept.
func (s conflictingStore) AcceptInvitation(ctx context.Context, member *models.GroupMember, invitationID models.IDTuple) error {
	if err := s.Store.DeleteSentInvitation(ctx, invitationID); err != nil {
		return err
	}
	return s.Store.AcceptInvitation(ctx, member, invitationID)
}

func TestFailedWritesLeaveNoTrace(t *testing.T) {
	ctx := context.Background()
	env := newTestEnvWithStore(t, func(s storage.Store) storage.Store { return conflictingStore{s} })
	alice := env.clientsFor(t, env.alice)

	t.Run("invitation batch is all or nothing", func(t *testing.T) {
		updates := env.recordUpdates(t)
		_, err := invite(alice, env.group.ID, "dave@external.org", "erin@external.org")
		assertCode(t, err, connect.CodeInternal)

		pending, err := env.store.ListSentInvitations(ctx, env.group.Invitations)
		if err != nil {
			t.Fatalf("ListSentInvitations failed: %v", err)
		}
		if len(pending) != 0 {
			t.Errorf("pending = %d, want 0", len(pending))
		}
		if got := updates(); len(got) != 0 {
			t.Errorf("published %+v, want nothing", got)
		}
	})

	t.Run("failed accept adds no member", func(t *testing.T) {
		invitation := &models.SentGroupInvitation{
			ID:                 models.IDTuple{ListID: env.group.Invitations},
			GroupID:            env.group.ID,
			InviteeMailAddress: env.carol.MailAddress,
			Capability:         models.CapabilityWrite,
		}
		if err := env.store.CreateSentInvitation(ctx, invitation); err != nil {
			t.Fatalf("CreateSentInvitation failed: %v", err)
		}
		updates := env.recordUpdates(t)

		carol := env.clientsFor(t, env.carol)
		_, err := carol.sharing.AcceptInvitation(ctx, connect.NewRequest(&api.AcceptInvitationRequest{InvitationID: invitation.ID}))
		assertCode(t, err, connect.CodeNotFound)

		if _, err := env.store.GetGroupMemberByUser(ctx, env.group.ID, env.carol.ID); !errors.Is(err, failure.ErrNotFound) {
			t.Errorf("GetGroupMemberByUser err = %v, want not found", err)
		}
		if got := updates(); len(got) != 0 {
			t.Errorf("published %+v, want nothing", got)
		}
	})
}
