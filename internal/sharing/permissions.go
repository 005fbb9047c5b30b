package sharing

import "github.com/mmynk/sharebook/internal/models"

// IsSharedGroupOwner reports whether userID owns the shared group.
func IsSharedGroupOwner(group *models.Group, userID string) bool {
	return group != nil && group.OwnerUserID != "" && group.OwnerUserID == userID
}

// HasCapabilityOnGroup reports whether user holds at least the required
// capability on group. The owner holds every capability.
func HasCapabilityOnGroup(user *models.User, group *models.Group, required models.Capability) bool {
	if user == nil || group == nil {
		return false
	}
	if IsSharedGroupOwner(group, user.ID) {
		return true
	}
	m := user.Membership(group.ID)
	return m != nil && m.Capability != nil && m.Capability.AtLeast(required)
}

// CanManageInvitations reports whether user may see and revoke pending
// invitations.
func CanManageInvitations(user *models.User, group *models.Group) bool {
	return HasCapabilityOnGroup(user, group, models.CapabilityInvite) ||
		(user != nil && IsSharedGroupOwner(group, user.ID))
}

// CanAddParticipant reports whether user may invite new participants.
func CanAddParticipant(user *models.User, group *models.Group) bool {
	return HasCapabilityOnGroup(user, group, models.CapabilityInvite)
}

// CanRemoveMember reports whether user may remove member from group. Members
// with the invite capability may remove others, everyone may leave, nobody
// may remove the owner.
func CanRemoveMember(user *models.User, group *models.Group, member *models.GroupMember) bool {
	if user == nil || member == nil || IsSharedGroupOwner(group, member.UserID) {
		return false
	}
	return HasCapabilityOnGroup(user, group, models.CapabilityInvite) || user.ID == member.UserID
}

// EffectiveCapability is the capability shown for member. The owner always
// shows the invite capability whatever is stored.
func EffectiveCapability(group *models.Group, member *models.GroupMember) models.Capability {
	if IsSharedGroupOwner(group, member.UserID) {
		return models.CapabilityInvite
	}
	if member.Capability == nil {
		return models.CapabilityRead
	}
	return *member.Capability
}
