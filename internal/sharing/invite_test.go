package sharing

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/session"
)

func newInviter(remote *fakeRemote, ui *fakeUI, admin bool) (*Inviter, *int) {
	offers := 0
	return &Inviter{
		Remote:     remote,
		Session:    &session.Session{User: &models.User{ID: "alice", GlobalAdmin: admin}},
		Translator: keyTranslator{},
		UI:         ui,
		OfferSharingPurchase: func(context.Context) error {
			offers++
			return nil
		},
	}, &offers
}

func TestInvite(t *testing.T) {
	ctx := context.Background()
	info := &models.GroupInfo{GroupID: "group-1", Name: "Team"}

	t.Run("empty recipients fail before any remote call", func(t *testing.T) {
		remote, ui := &fakeRemote{}, &fakeUI{}
		inviter, _ := newInviter(remote, ui, false)

		_, err := inviter.Invite(ctx, info, []string{"  ", ""}, models.CapabilityRead)
		if !errors.Is(err, failure.ErrValidationEmpty) {
			t.Errorf("err = %v, want validation empty", err)
		}
		if len(remote.sent) != 0 {
			t.Error("remote was called")
		}
		if len(ui.errors) != 1 || ui.errors[0] != "noRecipients_msg" {
			t.Errorf("errors = %v", ui.errors)
		}
	})

	t.Run("mixed outcome reports and notifies invited only", func(t *testing.T) {
		remote := &fakeRemote{result: &models.InvitationResult{
			Invited:  []string{"a@example.com"},
			Existing: []string{"b@example.com"},
			Invalid:  []string{"c@"},
		}}
		ui := &fakeUI{}
		inviter, _ := newInviter(remote, ui, false)

		invited, err := inviter.Invite(ctx, info, []string{"a@example.com", "b@example.com", "c@", "A@example.com"}, models.CapabilityWrite)
		if err != nil {
			t.Fatalf("Invite failed: %v", err)
		}
		if !equal(invited, []string{"a@example.com"}) {
			t.Errorf("invited = %v", invited)
		}
		if got := remote.sent[0].recipients; len(got) != 3 {
			t.Errorf("recipients not deduplicated: %v", got)
		}
		want := "existingMailAddress_msg\nb@example.com\n\ninvalidMailAddress_msg\nc@"
		if len(ui.errors) != 1 || ui.errors[0] != want {
			t.Errorf("errors = %q, want %q", ui.errors, want)
		}
		if len(remote.notifications) != 1 || !equal(remote.notifications[0], []string{"a@example.com"}) {
			t.Errorf("notifications = %v", remote.notifications)
		}
	})

	t.Run("nothing invited sends no notification", func(t *testing.T) {
		remote := &fakeRemote{result: &models.InvitationResult{Existing: []string{"b@example.com"}}}
		ui := &fakeUI{}
		inviter, _ := newInviter(remote, ui, false)

		if _, err := inviter.Invite(ctx, info, []string{"b@example.com"}, models.CapabilityRead); err != nil {
			t.Fatalf("Invite failed: %v", err)
		}
		if len(remote.notifications) != 0 {
			t.Errorf("notifications = %v", remote.notifications)
		}
		if ui.errors[0] != "existingMailAddress_msg\nb@example.com" {
			t.Errorf("errors = %q", ui.errors)
		}
	})

	t.Run("notification failure does not fail the invitation", func(t *testing.T) {
		remote := &fakeRemote{notifyErr: errors.New("mail down")}
		inviter, _ := newInviter(remote, &fakeUI{}, false)

		invited, err := inviter.Invite(ctx, info, []string{"a@example.com"}, models.CapabilityRead)
		if err != nil || len(invited) != 1 {
			t.Errorf("Invite() = %v, %v", invited, err)
		}
	})

	t.Run("precondition failed offers purchase to admins", func(t *testing.T) {
		remote := &fakeRemote{err: failure.New(failure.PreconditionFailed, "send group invitation", nil)}
		ui := &fakeUI{confirm: true}
		inviter, offers := newInviter(remote, ui, true)

		_, err := inviter.Invite(ctx, info, []string{"a@example.com"}, models.CapabilityRead)
		if !errors.Is(err, failure.ErrPreconditionFailed) {
			t.Errorf("err = %v", err)
		}
		if len(ui.confirms) != 1 || ui.confirms[0] != "sharingFeatureNotOrderedAdmin_msg" {
			t.Errorf("confirms = %v", ui.confirms)
		}
		if *offers != 1 {
			t.Errorf("offers = %d, want 1", *offers)
		}
		if len(remote.sent) != 1 {
			t.Errorf("request was retried: %d", len(remote.sent))
		}
	})

	t.Run("declined purchase", func(t *testing.T) {
		remote := &fakeRemote{err: failure.New(failure.PreconditionFailed, "send group invitation", nil)}
		inviter, offers := newInviter(remote, &fakeUI{confirm: false}, true)

		_, _ = inviter.Invite(ctx, info, []string{"a@example.com"}, models.CapabilityRead)
		if *offers != 0 {
			t.Errorf("offers = %d, want 0", *offers)
		}
	})

	t.Run("precondition failed tells users it is unavailable", func(t *testing.T) {
		remote := &fakeRemote{err: failure.New(failure.PreconditionFailed, "send group invitation", nil)}
		ui := &fakeUI{confirm: true}
		inviter, offers := newInviter(remote, ui, false)

		_, _ = inviter.Invite(ctx, info, []string{"a@example.com"}, models.CapabilityRead)
		if len(ui.confirms) != 0 || *offers != 0 {
			t.Error("non-admin must not be offered a purchase")
		}
		if len(ui.errors) != 1 || ui.errors[0] != "sharingFeatureNotOrderedUser_msg" {
			t.Errorf("errors = %v", ui.errors)
		}
	})

	t.Run("unresolved recipients are listed", func(t *testing.T) {
		remote := &fakeRemote{err: failure.Recipients("send group invitation", []string{"x@corp.example", "y@corp.example"})}
		ui := &fakeUI{}
		inviter, _ := newInviter(remote, ui, false)

		invited, err := inviter.Invite(ctx, info, []string{"x@corp.example", "y@corp.example"}, models.CapabilityRead)
		if invited != nil || !errors.Is(err, failure.ErrRecipientsUnresolved) {
			t.Errorf("Invite() = %v, %v", invited, err)
		}
		want := "invalidRecipients_msg\nx@corp.example\ny@corp.example"
		if len(ui.errors) != 1 || ui.errors[0] != want {
			t.Errorf("errors = %q, want %q", ui.errors, want)
		}
	})
}
