package sharing

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/session"
)

// UI shows blocking messages to the user.
type UI interface {
	Error(ctx context.Context, message string)
	Confirm(ctx context.Context, message string) bool
}

// Inviter runs the add participant flow: it sends the invitation, reports
// partial failures and notifies the invited recipients.
type Inviter struct {
	Remote     Remote
	Session    *session.Session
	Translator Translator
	UI         UI
	Logger     *slog.Logger

	// OfferSharingPurchase lets an administrator order the sharing feature.
	OfferSharingPurchase func(ctx context.Context) error
}

// Invite invites recipients to the group described by info and returns the
// addresses that were invited.
func (in *Inviter) Invite(ctx context.Context, info *models.GroupInfo, recipients []string, capability models.Capability) ([]string, error) {
	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tr := in.Translator

	recipients = normalizeRecipients(recipients)
	if len(recipients) == 0 {
		in.UI.Error(ctx, tr.Get("noRecipients_msg", nil))
		return nil, failure.New(failure.ValidationEmpty, "invite participants", nil)
	}

	result, err := in.Remote.SendGroupInvitation(ctx, info, CalendarName(tr, info.Name), recipients, capability)
	if err != nil {
		switch failure.KindOf(err) {
		case failure.PreconditionFailed:
			if in.Session.IsGlobalAdmin() {
				if in.UI.Confirm(ctx, tr.Get("sharingFeatureNotOrderedAdmin_msg", nil)) && in.OfferSharingPurchase != nil {
					if perr := in.OfferSharingPurchase(ctx); perr != nil {
						logger.Warn("Sharing purchase failed", "error", perr)
					}
				}
			} else {
				in.UI.Error(ctx, tr.Get("sharingFeatureNotOrderedUser_msg", nil))
			}
		case failure.RecipientsUnresolved:
			in.UI.Error(ctx, tr.Get("invalidRecipients_msg", nil)+"\n"+strings.Join(failure.AddressesOf(err), "\n"))
		}
		return nil, err
	}

	if msg := InvitationDiagnostic(tr, result); msg != "" {
		in.UI.Error(ctx, msg)
	}

	if len(result.Invited) > 0 {
		if err := in.Remote.SendShareNotification(ctx, info, result.Invited); err != nil {
			logger.Warn("Failed to send share notification", "group_id", info.GroupID, "error", err)
		}
	}
	logger.Info("Participants invited", "group_id", info.GroupID,
		"invited", len(result.Invited), "existing", len(result.Existing), "invalid", len(result.Invalid))
	return result.Invited, nil
}

// InvitationDiagnostic lists the existing and invalid addresses of result in
// two labeled blocks separated by a blank line. It is empty when every
// address was invited.
func InvitationDiagnostic(tr Translator, result *models.InvitationResult) string {
	var blocks []string
	if len(result.Existing) > 0 {
		blocks = append(blocks, tr.Get("existingMailAddress_msg", nil)+"\n"+strings.Join(result.Existing, "\n"))
	}
	if len(result.Invalid) > 0 {
		blocks = append(blocks, tr.Get("invalidMailAddress_msg", nil)+"\n"+strings.Join(result.Invalid, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func normalizeRecipients(recipients []string) []string {
	seen := make(map[string]bool, len(recipients))
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		key := strings.ToLower(r)
		if r == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
