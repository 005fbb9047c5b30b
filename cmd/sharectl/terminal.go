package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mmynk/sharebook/internal/pricing"
	"github.com/mmynk/sharebook/internal/sharing"
)

// terminal asks questions on a line based terminal. It implements
// sharing.UI and booking.Prompter.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
	tr  sharing.Translator
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{in: bufio.NewScanner(in), out: out}
}

func (t *terminal) Error(_ context.Context, message string) {
	fmt.Fprintln(t.out, message)
}

func (t *terminal) Confirm(_ context.Context, message string) bool {
	fmt.Fprintf(t.out, "%s [y/N] ", message)
	if !t.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(t.in.Text()))
	return answer == "y" || answer == "yes"
}

func (t *terminal) ConfirmOrder(ctx context.Context, d pricing.Decision) bool {
	t.printDecision(d)
	return t.Confirm(ctx, t.label(d.Action))
}

func (t *terminal) printDecision(d pricing.Decision) {
	lines := []string{d.Order, d.Subscription, d.SubscriptionInfo, d.Price, d.PriceInfo}
	for _, line := range lines {
		if line != "" {
			fmt.Fprintln(t.out, line)
		}
	}
}

func (t *terminal) label(key string) string {
	if t.tr == nil {
		return key
	}
	return t.tr.Get(key, nil)
}
