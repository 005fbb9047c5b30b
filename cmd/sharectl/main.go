// Command sharectl manages shared calendars and feature bookings on a
// sharebook server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/sharebook/internal/config"
	"github.com/mmynk/sharebook/pkg/logging"
)

const usage = `usage: sharectl <command> [flags] [args]

commands:
  token   -user ID -mail ADDRESS      issue a token (needs SHAREBOOK_JWT_SECRET)
  watch   GROUP_ID                    show participants and follow changes
  invite  [-capability C] GROUP_ID ADDRESS...
  revoke  GROUP_ID ADDRESS            revoke a pending invitation
  remove  GROUP_ID ADDRESS            remove a member
  accept  LIST_ID ELEMENT_ID          accept an invitation
  quote   FEATURE COUNT               show the price of a booking
  book    FEATURE COUNT               book a feature after confirmation
`

type command func(ctx context.Context, app *app, args []string) error

var commands = map[string]command{
	"watch":  runWatch,
	"invite": runInvite,
	"revoke": runRevoke,
	"remove": runRemove,
	"accept": runAccept,
	"quote":  runQuote,
	"book":   runBook,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	name, args := os.Args[1], os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if name == "token" {
		if err := runToken(args); err != nil {
			fail(err)
		}
		return
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fail(err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	app, err := newApp(ctx, cfg, newTerminal(os.Stdin, os.Stdout))
	if err != nil {
		fail(err)
	}
	if err := cmd(ctx, app, args); err != nil {
		fail(err)
	}
}

func fail(err error) {
	slog.Error("sharectl failed", "error", err)
	os.Exit(1)
}
