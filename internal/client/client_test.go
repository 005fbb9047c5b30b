package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/sharebook/internal/auth"
	"github.com/mmynk/sharebook/internal/booking"
	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/i18n"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/pricing"
	"github.com/mmynk/sharebook/internal/service"
	"github.com/mmynk/sharebook/internal/sharing"
	"github.com/mmynk/sharebook/internal/storage/sqlite"
)

type fixture struct {
	store  *sqlite.SQLiteStore
	bus    *events.Bus
	url    string
	jwt    *auth.JWTManager
	admin  *models.User
	member *models.User
	group  *models.Group
	info   *models.GroupInfo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	customer := &models.Customer{Type: models.AccountTypePremium}
	if err := store.CreateCustomer(ctx, customer, &models.AccountingInfo{InvoiceCountry: "DE"}); err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	if err := store.SetBooking(ctx, customer.ID, models.FeatureUsers, 2); err != nil {
		t.Fatalf("SetBooking failed: %v", err)
	}

	f := &fixture{store: store, bus: events.NewBus(nil), jwt: auth.NewJWTManager("secret", time.Hour)}
	f.admin = &models.User{Name: "Alice", MailAddress: "alice@sharebook.test", CustomerID: customer.ID, GlobalAdmin: true}
	f.member = &models.User{Name: "Bob", MailAddress: "bob@sharebook.test", CustomerID: customer.ID}
	for _, u := range []*models.User{f.admin, f.member} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}
	f.group = &models.Group{OwnerUserID: f.admin.ID, CustomerID: customer.ID}
	f.info = &models.GroupInfo{Name: "Family"}
	if err := store.CreateGroup(ctx, f.group, f.info); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	read := models.CapabilityRead
	err = store.AddGroupMember(ctx, &models.GroupMember{
		ID:            models.IDTuple{ListID: f.group.Members},
		GroupID:       f.group.ID,
		UserID:        f.member.ID,
		UserGroupInfo: f.member.UserGroupInfo,
		Capability:    &read,
	})
	if err != nil {
		t.Fatalf("AddGroupMember failed: %v", err)
	}

	server := httptest.NewServer(service.NewHandler(service.Deps{
		Store:           store,
		Bus:             f.bus,
		JWT:             f.jwt,
		InternalDomains: []string{"sharebook.test"},
	}))
	t.Cleanup(server.Close)
	f.url = server.URL
	return f
}

func (f *fixture) clientFor(t *testing.T, user *models.User) *Client {
	t.Helper()
	token, err := f.jwt.Generate(user.ID, user.MailAddress)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return New(http.DefaultClient, f.url, token, nil)
}

type scriptedUI struct {
	errors   []string
	confirms []string
	answer   bool
	orders   []pricing.Decision
}

func (u *scriptedUI) Error(_ context.Context, message string) { u.errors = append(u.errors, message) }

func (u *scriptedUI) Confirm(_ context.Context, message string) bool {
	u.confirms = append(u.confirms, message)
	return u.answer
}

func (u *scriptedUI) ConfirmOrder(_ context.Context, d pricing.Decision) bool {
	u.orders = append(u.orders, d)
	return u.answer
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSession(t *testing.T) {
	f := newFixture(t)
	sess, err := f.clientFor(t, f.member).Session(context.Background())
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	if sess.UserID() != f.member.ID || sess.IsGlobalAdmin() || sess.Customer == nil {
		t.Errorf("session = %+v", sess)
	}
}

func TestErrorsKeepTheirKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.clientFor(t, f.member)

	_, err := c.GetGroup(ctx, "missing")
	if !errors.Is(err, failure.ErrNotFound) {
		t.Errorf("GetGroup err = %v, want not found", err)
	}

	sess, err := c.Session(ctx)
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	_, err = c.GetAccountingInfo(ctx, sess.Customer.AccountingInfoID)
	if !errors.Is(err, failure.ErrNotAuthorized) {
		t.Errorf("GetAccountingInfo err = %v, want not authorized", err)
	}
}

// TestSharingRoundTrip drives a member's view model from the server's event
// stream while the owner invites and revokes.
func TestSharingRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded failed: %v", err)
	}
	tr := bundle.Translator("en")

	memberClient := f.clientFor(t, f.member)
	memberSession, err := memberClient.Session(ctx)
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	changes := make(chan struct{}, 16)
	vm, err := sharing.Load(ctx, sharing.Config{
		Entities:   memberClient,
		Remote:     memberClient,
		Session:    memberSession,
		Translator: tr,
		OnChange:   func() { changes <- struct{}{} },
	}, f.info)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer vm.Close()
	if len(vm.MemberInfos()) != 2 || vm.CanAddParticipant() {
		t.Fatalf("members = %d, can add = %v", len(vm.MemberInfos()), vm.CanAddParticipant())
	}

	local := events.NewBus(nil)
	if err := vm.Subscribe(local); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	base := f.bus.Len()
	watchDone := make(chan error, 1)
	go func() { watchDone <- memberClient.WatchEvents(ctx, []string{f.group.ID}, local) }()
	waitFor(t, "event stream", func() bool { return f.bus.Len() > base })

	adminClient := f.clientFor(t, f.admin)
	adminSession, err := adminClient.Session(ctx)
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	ui := &scriptedUI{answer: true}
	flow := &booking.Flow{Remote: adminClient, Session: adminSession, Translator: tr, Prompter: ui}
	inviter := &sharing.Inviter{
		Remote:               adminClient,
		Session:              adminSession,
		Translator:           tr,
		UI:                   ui,
		OfferSharingPurchase: flow.OfferSharing(),
	}

	t.Run("unbooked sharing offers the purchase", func(t *testing.T) {
		_, err := inviter.Invite(ctx, f.info, []string{"dave@external.org"}, models.CapabilityRead)
		if !errors.Is(err, failure.ErrPreconditionFailed) {
			t.Fatalf("Invite err = %v, want precondition failed", err)
		}
		if len(ui.confirms) != 1 || len(ui.orders) != 1 {
			t.Fatalf("confirms = %v, orders = %d", ui.confirms, len(ui.orders))
		}
		if ui.orders[0].Change != pricing.Increase {
			t.Errorf("order change = %v, want increase", ui.orders[0].Change)
		}
		bookings, _ := f.store.ListBookings(ctx, adminSession.Customer.ID)
		if bookings[models.FeatureSharing] != 1 {
			t.Errorf("sharing booked = %d, want 1", bookings[models.FeatureSharing])
		}
	})

	t.Run("invitation reaches the member view", func(t *testing.T) {
		invited, err := inviter.Invite(ctx, f.info, []string{"dave@external.org", "bob@sharebook.test"}, models.CapabilityRead)
		if err != nil {
			t.Fatalf("Invite failed: %v", err)
		}
		if len(invited) != 1 || invited[0] != "dave@external.org" {
			t.Errorf("invited = %v", invited)
		}
		want := tr.Get("existingMailAddress_msg", nil) + "\nbob@sharebook.test"
		if last := ui.errors[len(ui.errors)-1]; last != want {
			t.Errorf("diagnostic = %q, want %q", last, want)
		}
		queued, _ := f.store.ListShareNotifications(ctx, f.group.ID)
		if len(queued) != 1 {
			t.Errorf("queued notifications = %v", queued)
		}

		waitFor(t, "invitation in view", func() bool { return len(vm.SentInvitations()) == 1 })
		if got := vm.SentInvitations()[0].InviteeMailAddress; got != "dave@external.org" {
			t.Errorf("invitee = %q", got)
		}
	})

	t.Run("revocation reaches the member view", func(t *testing.T) {
		pending := vm.SentInvitations()
		if err := adminClient.RevokeInvitation(ctx, pending[0].ID); err != nil {
			t.Fatalf("RevokeInvitation failed: %v", err)
		}
		waitFor(t, "invitation removed", func() bool { return len(vm.SentInvitations()) == 0 })
	})

	t.Run("unknown internal recipients", func(t *testing.T) {
		_, err := inviter.Invite(ctx, f.info, []string{"ghost@sharebook.test"}, models.CapabilityRead)
		if failure.KindOf(err) != failure.RecipientsUnresolved {
			t.Fatalf("Invite err = %v, want recipients unresolved", err)
		}
		want := tr.Get("invalidRecipients_msg", nil) + "\nghost@sharebook.test"
		if last := ui.errors[len(ui.errors)-1]; last != want {
			t.Errorf("message = %q, want %q", last, want)
		}
	})

	cancel()
	select {
	case err := <-watchDone:
		if err != nil {
			t.Errorf("WatchEvents returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WatchEvents did not return after cancel")
	}
}

func TestWatchEventsDeliversFirstPublish(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	local := events.NewBus(nil)
	received := make(chan []events.EntityUpdate, 1)
	local.Subscribe(func(_ context.Context, updates []events.EntityUpdate) { received <- updates })

	base := f.bus.Len()
	watchDone := make(chan error, 1)
	go func() { watchDone <- f.clientFor(t, f.member).WatchEvents(ctx, []string{f.group.ID}, local) }()
	waitFor(t, "event stream", func() bool { return f.bus.Len() > base })

	want := events.EntityUpdate{
		Type:      events.TypeSentGroupInvitation,
		Operation: events.OperationCreate,
		OwnerID:   f.group.ID,
		ListID:    f.group.Invitations,
		ElementID: "first",
	}
	f.bus.Publish(ctx, []events.EntityUpdate{want})

	select {
	case got := <-received:
		if len(got) != 1 || got[0] != want {
			t.Errorf("received %+v, want %+v", got, want)
		}
	case err := <-watchDone:
		t.Fatalf("WatchEvents returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("first update was not delivered")
	}

	cancel()
	select {
	case err := <-watchDone:
		if err != nil {
			t.Errorf("WatchEvents returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WatchEvents did not return after cancel")
	}
}
