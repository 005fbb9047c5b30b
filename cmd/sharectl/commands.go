package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mmynk/sharebook/internal/auth"
	"github.com/mmynk/sharebook/internal/booking"
	"github.com/mmynk/sharebook/internal/client"
	"github.com/mmynk/sharebook/internal/config"
	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/internal/i18n"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/pricing"
	"github.com/mmynk/sharebook/internal/session"
	"github.com/mmynk/sharebook/internal/sharing"
)

// app bundles the collaborators every command needs.
type app struct {
	client  *client.Client
	session *session.Session
	tr      *i18n.Translator
	term    *terminal
	flow    *booking.Flow
}

func newApp(ctx context.Context, cfg config.Client, term *terminal) (*app, error) {
	if cfg.Token == "" {
		return nil, errors.New("SHAREBOOK_TOKEN is not set, create one with sharectl token")
	}
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return nil, err
	}
	tr := bundle.Translator(cfg.Locale)
	term.tr = tr

	c := client.New(http.DefaultClient, cfg.ServerURL, cfg.Token, nil)
	sess, err := c.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &app{
		client:  c,
		session: sess,
		tr:      tr,
		term:    term,
		flow: &booking.Flow{
			Remote:     c,
			Session:    sess,
			Translator: tr,
			Prompter:   term,
			Navigate: func(route string) {
				fmt.Fprintf(term.out, "Open %s%s to enter your payment data.\n", cfg.ServerURL, route)
			},
		},
	}, nil
}

// load builds the sharing view of a group.
func (a *app) load(ctx context.Context, groupID string, onChange func()) (*sharing.ViewModel, error) {
	group, err := a.client.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	info, err := a.client.GetGroupInfo(ctx, group.GroupInfo)
	if err != nil {
		return nil, err
	}
	return sharing.Load(ctx, sharing.Config{
		Entities:   a.client,
		Remote:     a.client,
		Session:    a.session,
		Translator: a.tr,
		OnChange:   onChange,
	}, info)
}

func (a *app) printRows(vm *sharing.ViewModel) {
	fmt.Fprintln(a.term.out, vm.Heading())
	w := tabwriter.NewWriter(a.term.out, 0, 4, 2, ' ', 0)
	for _, row := range vm.Rows() {
		action := ""
		if row.Action != "" {
			action = "[" + a.tr.Get(row.Action, nil) + "]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.Main, row.Info, action)
	}
	w.Flush()
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	userID := fs.String("user", "", "user id")
	mail := fs.String("mail", "", "mail address of the user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(*userID, *mail)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func runWatch(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: sharectl watch GROUP_ID")
	}
	changed := make(chan struct{}, 1)
	vm, err := a.load(ctx, args[0], func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer vm.Close()

	bus := events.NewBus(nil)
	if err := vm.Subscribe(bus); err != nil {
		return err
	}
	a.printRows(vm)

	watchErr := make(chan error, 1)
	go func() { watchErr <- a.client.WatchEvents(ctx, []string{vm.Group().ID}, bus) }()
	for {
		select {
		case <-changed:
			fmt.Fprintln(a.term.out)
			a.printRows(vm)
		case err := <-watchErr:
			return err
		}
	}
}

func runInvite(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("invite", flag.ExitOnError)
	capabilityName := fs.String("capability", "read", "read, write or invite")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: sharectl invite [-capability C] GROUP_ID ADDRESS...")
	}
	capability, err := models.ParseCapability(*capabilityName)
	if err != nil {
		return err
	}

	vm, err := a.load(ctx, fs.Arg(0), nil)
	if err != nil {
		return err
	}
	defer vm.Close()
	if !vm.CanAddParticipant() {
		return errors.New("you may not invite participants to this calendar")
	}

	inviter := &sharing.Inviter{
		Remote:               a.client,
		Session:              a.session,
		Translator:           a.tr,
		UI:                   a.term,
		OfferSharingPurchase: a.flow.OfferSharing(),
	}
	invited, err := inviter.Invite(ctx, vm.Info(), fs.Args()[1:], capability)
	if err != nil {
		return err
	}
	for _, addr := range invited {
		fmt.Fprintln(a.term.out, addr)
	}
	return nil
}

func runRevoke(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: sharectl revoke GROUP_ID ADDRESS")
	}
	vm, err := a.load(ctx, args[0], nil)
	if err != nil {
		return err
	}
	defer vm.Close()

	for _, inv := range vm.SentInvitations() {
		if strings.EqualFold(inv.InviteeMailAddress, args[1]) {
			return vm.RevokeInvitation(ctx, inv)
		}
	}
	return fmt.Errorf("no pending invitation for %s", args[1])
}

func runRemove(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: sharectl remove GROUP_ID ADDRESS")
	}
	vm, err := a.load(ctx, args[0], nil)
	if err != nil {
		return err
	}
	defer vm.Close()

	for _, mi := range vm.MemberInfos() {
		if strings.EqualFold(mi.Info.MailAddress, args[1]) {
			if !sharing.CanRemoveMember(a.session.User, vm.Group(), mi.Member) {
				return fmt.Errorf("you may not remove %s", args[1])
			}
			return vm.RemoveMember(ctx, mi)
		}
	}
	return fmt.Errorf("%s is not a member", args[1])
}

func runAccept(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: sharectl accept LIST_ID ELEMENT_ID")
	}
	member, err := a.client.AcceptInvitation(ctx, models.IDTuple{ListID: args[0], ElementID: args[1]})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.term.out, "joined group %s\n", member.GroupID)
	return nil
}

func parseBooking(args []string) (pricing.Request, error) {
	if len(args) != 2 {
		return pricing.Request{}, errors.New("expected FEATURE COUNT")
	}
	feature, err := models.ParseFeatureType(args[0])
	if err != nil {
		return pricing.Request{}, err
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return pricing.Request{}, fmt.Errorf("invalid count %q: %w", args[1], err)
	}
	return pricing.Request{Feature: feature, Count: count}, nil
}

func runQuote(ctx context.Context, a *app, args []string) error {
	req, err := parseBooking(args)
	if err != nil {
		return err
	}
	quote, err := a.client.GetPrice(ctx, req.Feature, req.Count, false)
	if err != nil {
		return err
	}
	d := pricing.Decide(a.tr, quote, req)
	if d.Skip {
		fmt.Fprintln(a.term.out, pricing.NoChange)
		return nil
	}
	fmt.Fprintln(a.term.out, d.Change)
	a.term.printDecision(d)
	return nil
}

func runBook(ctx context.Context, a *app, args []string) error {
	req, err := parseBooking(args)
	if err != nil {
		return err
	}
	booked, err := a.flow.Book(ctx, booking.Request{Request: req})
	if err != nil {
		return err
	}
	if !booked {
		fmt.Fprintln(a.term.out, "not booked")
	}
	return nil
}
