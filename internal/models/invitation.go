package models

// SentGroupInvitation is a pending offer of membership in a shared group.
// It can be revoked until the invitee accepts it.
type SentGroupInvitation struct {
	ID                 IDTuple    `json:"id"`
	GroupID            string     `json:"groupId"`
	InviteeMailAddress string     `json:"inviteeMailAddress"`
	Capability         Capability `json:"capability"`
	CreatedAt          int64      `json:"createdAt"`
}

// InvitationResult reports what happened to each recipient of an invitation
// request.
type InvitationResult struct {
	// Invited are the addresses an invitation was created for.
	Invited []string `json:"invited"`

	// Existing are addresses that already are members or have a pending
	// invitation.
	Existing []string `json:"existing"`

	// Invalid are addresses that are not syntactically valid.
	Invalid []string `json:"invalid"`
}

// ShareNotification is a queued mail telling a recipient that a calendar was
// shared with them.
type ShareNotification struct {
	ID        string `json:"id"`
	GroupID   string `json:"groupId"`
	SenderID  string `json:"senderId"`
	Recipient string `json:"recipient"`
	CreatedAt int64  `json:"createdAt"`

	// SentAt is zero until the mail was delivered.
	SentAt int64 `json:"sentAt,omitempty"`
}
