package models

// GroupType distinguishes what a group is used for.
type GroupType string

const (
	GroupTypeUser     GroupType = "user"
	GroupTypeCalendar GroupType = "calendar"
)

// Group represents a shareable resource such as a calendar.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	Type GroupType `json:"type"`

	// OwnerUserID is the user who owns a shared group. Empty for groups that
	// cannot be shared.
	OwnerUserID string `json:"ownerUserId,omitempty"`

	// CustomerID is the customer the group is billed to.
	CustomerID string `json:"customerId"`

	// Members is the id of the list holding the group's GroupMember records.
	Members string `json:"members"`

	// Invitations is the id of the list holding pending SentGroupInvitation
	// records.
	Invitations string `json:"invitations"`

	// GroupInfo points at the display info of the group.
	GroupInfo IDTuple `json:"groupInfo"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// GroupInfo is the display metadata of a group. For user groups it carries the
// user's name and mail address.
type GroupInfo struct {
	ID          IDTuple `json:"id"`
	GroupID     string  `json:"groupId"`
	Name        string  `json:"name"`
	MailAddress string  `json:"mailAddress,omitempty"`
}

// GroupMember is an accepted membership of a user in a shared group.
type GroupMember struct {
	ID            IDTuple `json:"id"`
	GroupID       string  `json:"groupId"`
	UserID        string  `json:"userId"`
	UserGroupInfo IDTuple `json:"userGroupInfo"`

	// Capability is the stored capability. It is nil for the group owner.
	Capability *Capability `json:"capability,omitempty"`
}

// GroupMemberInfo pairs a membership with the member's display info.
type GroupMemberInfo struct {
	Member *GroupMember `json:"member"`
	Info   *GroupInfo   `json:"info"`
}

// GroupDetails is everything the sharing view shows for one group.
type GroupDetails struct {
	Group                *Group                 `json:"group"`
	Info                 *GroupInfo             `json:"info"`
	MemberInfos          []*GroupMemberInfo     `json:"memberInfos"`
	SentGroupInvitations []*SentGroupInvitation `json:"sentGroupInvitations"`
}
