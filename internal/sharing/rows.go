package sharing

import "github.com/mmynk/sharebook/internal/models"

// Row is one line of the participant table.
type Row struct {
	Main string
	Info string

	// Pending marks rows of invitations that were not accepted yet.
	Pending bool

	// Action is the label key of the row's action, empty if the current user
	// may not act on the row.
	Action string

	Member     *models.GroupMemberInfo
	Invitation *models.SentGroupInvitation
}

// CalendarName returns name, or the default name of an unnamed calendar.
func CalendarName(tr Translator, name string) string {
	if name == "" {
		return tr.Get("privateCalendar_alt", nil)
	}
	return name
}

// CapabilityText returns the display name of a capability.
func CapabilityText(tr Translator, c models.Capability) string {
	switch c {
	case models.CapabilityInvite:
		return tr.Get("calendarShareCapabilityInvite_label", nil)
	case models.CapabilityWrite:
		return tr.Get("calendarShareCapabilityWrite_label", nil)
	default:
		return tr.Get("calendarShareCapabilityRead_label", nil)
	}
}

// DisplayText renders a name with its mail address.
func DisplayText(name, mailAddress string) string {
	if name == "" {
		return mailAddress
	}
	return name + " <" + mailAddress + ">"
}

// Heading is the title of the participant table.
func (vm *ViewModel) Heading() string {
	tr := vm.cfg.Translator
	return tr.Get("participants_label", map[string]any{"name": CalendarName(tr, vm.Info().Name)})
}

// Rows renders members followed by pending invitations.
func (vm *ViewModel) Rows() []Row {
	tr := vm.cfg.Translator
	details := vm.Details()
	user := vm.cfg.Session.User

	rows := make([]Row, 0, len(details.MemberInfos)+len(details.SentGroupInvitations))
	for _, mi := range details.MemberInfos {
		role := tr.Get("member_label", nil)
		if IsSharedGroupOwner(details.Group, mi.Member.UserID) {
			role = tr.Get("owner_label", nil)
		}
		row := Row{
			Main:   DisplayText(mi.Info.Name, mi.Info.MailAddress),
			Info:   role + ", " + CapabilityText(tr, EffectiveCapability(details.Group, mi.Member)),
			Member: mi,
		}
		if CanRemoveMember(user, details.Group, mi.Member) {
			row.Action = "delete_action"
		}
		rows = append(rows, row)
	}

	manage := CanManageInvitations(user, details.Group)
	for _, inv := range details.SentGroupInvitations {
		row := Row{
			Main:       inv.InviteeMailAddress,
			Info:       tr.Get("invited_label", nil) + ", " + CapabilityText(tr, inv.Capability),
			Pending:    true,
			Invitation: inv,
		}
		if manage {
			row.Action = "remove_action"
		}
		rows = append(rows, row)
	}
	return rows
}

// CanAddParticipant reports whether the session user may invite.
func (vm *ViewModel) CanAddParticipant() bool {
	return CanAddParticipant(vm.cfg.Session.User, vm.Group())
}
