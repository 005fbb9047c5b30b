package models

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// MailAddress is the user's primary mail address (unique).
	MailAddress string `json:"mailAddress"`

	// CustomerID is the customer (billing account) the user belongs to.
	CustomerID string `json:"customerId"`

	// GlobalAdmin is set for administrators of the whole customer. Only global
	// admins may book features or read accounting data.
	GlobalAdmin bool `json:"globalAdmin"`

	// UserGroupInfo points at the display info of the user's own group.
	UserGroupInfo IDTuple `json:"userGroupInfo"`

	// Memberships lists the shared groups the user is a member of.
	Memberships []Membership `json:"memberships,omitempty"`

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64 `json:"createdAt"`
}

// Membership is the user-side view of a group membership.
type Membership struct {
	GroupID string `json:"groupId"`

	// Capability is nil for the owner of the group.
	Capability *Capability `json:"capability,omitempty"`
}

// Membership returns the user's membership for groupID, or nil.
func (u *User) Membership(groupID string) *Membership {
	if u == nil {
		return nil
	}
	for i := range u.Memberships {
		if u.Memberships[i].GroupID == groupID {
			return &u.Memberships[i]
		}
	}
	return nil
}
