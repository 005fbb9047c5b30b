package service

import (
	"context"
	"net/mail"
	"slices"
	"strings"

	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/models"
)

// recipientPlan is the classification of invitation recipients.
type recipientPlan struct {
	result     models.InvitationResult
	unresolved []string
}

// classifyRecipients sorts the requested addresses into invitable, existing,
// invalid and unresolved ones. Addresses are compared case-insensitively.
func (s *SharingService) classifyRecipients(ctx context.Context, group *models.Group, recipients []string) (*recipientPlan, error) {
	members, err := s.store.ListGroupMembers(ctx, group.Members)
	if err != nil {
		return nil, err
	}
	memberIDs := make(map[string]bool, len(members))
	for _, m := range members {
		memberIDs[m.UserID] = true
	}

	pending, err := s.store.ListSentInvitations(ctx, group.Invitations)
	if err != nil {
		return nil, err
	}
	invited := make(map[string]bool, len(pending))
	for _, inv := range pending {
		invited[inv.InviteeMailAddress] = true
	}

	plan := &recipientPlan{}
	seen := make(map[string]bool, len(recipients))
	for _, raw := range recipients {
		addr := strings.ToLower(strings.TrimSpace(raw))
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true

		parsed, err := mail.ParseAddress(addr)
		if err != nil || parsed.Address != addr {
			plan.result.Invalid = append(plan.result.Invalid, raw)
			continue
		}
		if invited[addr] {
			plan.result.Existing = append(plan.result.Existing, addr)
			continue
		}

		user, err := s.store.GetUserByMailAddress(ctx, addr)
		switch {
		case err == nil:
			if memberIDs[user.ID] {
				plan.result.Existing = append(plan.result.Existing, addr)
				continue
			}
		case failure.KindOf(err) == failure.NotFound:
			if s.isInternal(addr) {
				plan.unresolved = append(plan.unresolved, addr)
				continue
			}
		default:
			return nil, err
		}
		plan.result.Invited = append(plan.result.Invited, addr)
	}
	return plan, nil
}

func (s *SharingService) isInternal(addr string) bool {
	domain := addr[strings.LastIndex(addr, "@")+1:]
	return slices.Contains(s.internalDomains, domain)
}
