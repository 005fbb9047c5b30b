// Package sharing keeps the participant list of one shared calendar in sync
// with server pushed entity updates and issues the sharing commands.
package sharing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/session"
)

// Entities loads the records the view is built from. Missing records are
// reported with an error matching failure.ErrNotFound.
type Entities interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupInfo(ctx context.Context, id models.IDTuple) (*models.GroupInfo, error)
	ListSentInvitations(ctx context.Context, listID string) ([]*models.SentGroupInvitation, error)
	GetSentInvitation(ctx context.Context, id models.IDTuple) (*models.SentGroupInvitation, error)
	ListGroupMembers(ctx context.Context, listID string) ([]*models.GroupMember, error)
	GetGroupMember(ctx context.Context, id models.IDTuple) (*models.GroupMember, error)
}

// Remote executes sharing commands on the server.
type Remote interface {
	SendGroupInvitation(ctx context.Context, info *models.GroupInfo, calendarName string, recipients []string, capability models.Capability) (*models.InvitationResult, error)
	RevokeInvitation(ctx context.Context, id models.IDTuple) error
	RemoveMember(ctx context.Context, userID, groupID string) error
	SendShareNotification(ctx context.Context, info *models.GroupInfo, recipients []string) error
}

// Translator resolves message keys.
type Translator interface {
	Get(key string, params map[string]any) string
}

// Config holds the collaborators of a ViewModel.
type Config struct {
	Entities   Entities
	Remote     Remote
	Session    *session.Session
	Translator Translator
	Logger     *slog.Logger

	// OnChange is called after every change of the snapshot. It runs on the
	// goroutine that delivered the update and must not call Close.
	OnChange func()
}

// ViewModel owns the GroupDetails snapshot of one shared group.
type ViewModel struct {
	cfg    Config
	logger *slog.Logger

	// applyMu serializes ApplyUpdates with Close.
	applyMu sync.Mutex
	closed  bool
	source  events.Source
	sub     *events.Subscription

	mu      sync.RWMutex
	details models.GroupDetails
}

// Load reads the group, its pending invitations and its members. A group
// that no longer exists is reported as failure.ErrNotFound.
func Load(ctx context.Context, cfg Config, info *models.GroupInfo) (*ViewModel, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	group, err := cfg.Entities.GetGroup(ctx, info.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	invitations, err := cfg.Entities.ListSentInvitations(ctx, group.Invitations)
	if err != nil {
		return nil, fmt.Errorf("failed to load sent invitations: %w", err)
	}

	members, err := cfg.Entities.ListGroupMembers(ctx, group.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}
	memberInfos := make([]*models.GroupMemberInfo, 0, len(members))
	for _, member := range members {
		memberInfo, err := loadMemberInfo(ctx, cfg.Entities, member)
		if err != nil {
			return nil, err
		}
		memberInfos = append(memberInfos, memberInfo)
	}

	vm := &ViewModel{
		cfg:    cfg,
		logger: cfg.Logger.With("group_id", group.ID),
		details: models.GroupDetails{
			Group:                group,
			Info:                 info,
			MemberInfos:          memberInfos,
			SentGroupInvitations: invitations,
		},
	}
	vm.logger.Debug("Sharing view loaded", "members", len(memberInfos), "invitations", len(invitations))
	return vm, nil
}

func loadMemberInfo(ctx context.Context, entities Entities, member *models.GroupMember) (*models.GroupMemberInfo, error) {
	info, err := entities.GetGroupInfo(ctx, member.UserGroupInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to load info of member %s: %w", member.UserID, err)
	}
	return &models.GroupMemberInfo{Member: member, Info: info}, nil
}

// Subscribe attaches the view to source. A view is subscribed at most once.
func (vm *ViewModel) Subscribe(source events.Source) error {
	vm.applyMu.Lock()
	defer vm.applyMu.Unlock()

	if vm.closed {
		return errors.New("sharing view is closed")
	}
	if vm.sub != nil {
		return errors.New("sharing view is already subscribed")
	}
	vm.source = source
	vm.sub = source.Subscribe(func(ctx context.Context, updates []events.EntityUpdate) {
		vm.ApplyUpdates(ctx, updates)
	})
	return nil
}

// Close detaches the view from its event source. When Close returns, no
// update is being applied and OnChange is never called again. Closing twice
// is a no-op.
func (vm *ViewModel) Close() {
	vm.applyMu.Lock()
	defer vm.applyMu.Unlock()

	if vm.closed {
		return
	}
	vm.closed = true
	if vm.sub != nil {
		vm.source.Unsubscribe(vm.sub)
		vm.sub = nil
	}
	vm.logger.Debug("Sharing view closed")
}

// ApplyUpdates reconciles the snapshot with a batch of entity updates.
// Updates of other groups are ignored.
func (vm *ViewModel) ApplyUpdates(ctx context.Context, updates []events.EntityUpdate) {
	vm.applyMu.Lock()
	defer vm.applyMu.Unlock()

	if vm.closed {
		return
	}
	group := vm.Group()
	for _, update := range updates {
		if update.OwnerID != group.ID {
			continue
		}
		var changed bool
		switch update.Type {
		case events.TypeSentGroupInvitation:
			changed = vm.applyInvitationUpdate(ctx, group, update)
		case events.TypeGroupMember:
			changed = vm.applyMemberUpdate(ctx, group, update)
		}
		if changed && vm.cfg.OnChange != nil {
			vm.cfg.OnChange()
		}
	}
}

func (vm *ViewModel) applyInvitationUpdate(ctx context.Context, group *models.Group, update events.EntityUpdate) bool {
	switch update.Operation {
	case events.OperationCreate:
		if update.ListID != group.Invitations {
			return false
		}
		id := models.IDTuple{ListID: update.ListID, ElementID: update.ElementID}
		invitation, err := vm.cfg.Entities.GetSentInvitation(ctx, id)
		if err != nil {
			vm.logFetchError("sent invitation", update, err)
			return false
		}

		vm.mu.Lock()
		defer vm.mu.Unlock()
		for _, existing := range vm.details.SentGroupInvitations {
			if existing.ID == invitation.ID {
				return false
			}
		}
		vm.details.SentGroupInvitations = append(vm.details.SentGroupInvitations, invitation)
		return true

	case events.OperationDelete:
		vm.mu.Lock()
		defer vm.mu.Unlock()
		for i, existing := range vm.details.SentGroupInvitations {
			if existing.ID.ElementID == update.ElementID {
				vm.details.SentGroupInvitations = append(vm.details.SentGroupInvitations[:i:i], vm.details.SentGroupInvitations[i+1:]...)
				return true
			}
		}
	}
	return false
}

func (vm *ViewModel) applyMemberUpdate(ctx context.Context, group *models.Group, update events.EntityUpdate) bool {
	switch update.Operation {
	case events.OperationCreate:
		if update.ListID != group.Members {
			return false
		}
		id := models.IDTuple{ListID: update.ListID, ElementID: update.ElementID}
		member, err := vm.cfg.Entities.GetGroupMember(ctx, id)
		if err != nil {
			vm.logFetchError("group member", update, err)
			return false
		}
		memberInfo, err := loadMemberInfo(ctx, vm.cfg.Entities, member)
		if err != nil {
			vm.logFetchError("group member info", update, err)
			return false
		}

		vm.mu.Lock()
		defer vm.mu.Unlock()
		for _, existing := range vm.details.MemberInfos {
			if existing.Member.ID == member.ID {
				return false
			}
		}
		vm.details.MemberInfos = append(vm.details.MemberInfos, memberInfo)
		return true

	case events.OperationDelete:
		vm.mu.Lock()
		defer vm.mu.Unlock()
		for i, existing := range vm.details.MemberInfos {
			if existing.Member.ID.ElementID == update.ElementID {
				vm.details.MemberInfos = append(vm.details.MemberInfos[:i:i], vm.details.MemberInfos[i+1:]...)
				return true
			}
		}
	}
	return false
}

// logFetchError logs a failed fetch for a CREATE update. A record deleted
// right after its creation is expected and only logged at debug level.
func (vm *ViewModel) logFetchError(what string, update events.EntityUpdate, err error) {
	if errors.Is(err, failure.ErrNotFound) {
		vm.logger.Debug("Created record already gone", "record", what,
			"list_id", update.ListID, "element_id", update.ElementID)
		return
	}
	vm.logger.Warn("Failed to fetch created record", "record", what,
		"list_id", update.ListID, "element_id", update.ElementID, "error", err)
}

// Group returns the shared group.
func (vm *ViewModel) Group() *models.Group {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.details.Group
}

// Info returns the display info of the shared group.
func (vm *ViewModel) Info() *models.GroupInfo {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.details.Info
}

// MemberInfos returns a copy of the current members in discovery order.
func (vm *ViewModel) MemberInfos() []*models.GroupMemberInfo {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return append([]*models.GroupMemberInfo(nil), vm.details.MemberInfos...)
}

// SentInvitations returns a copy of the current pending invitations.
func (vm *ViewModel) SentInvitations() []*models.SentGroupInvitation {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return append([]*models.SentGroupInvitation(nil), vm.details.SentGroupInvitations...)
}

// Details returns a copy of the whole snapshot.
func (vm *ViewModel) Details() models.GroupDetails {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	d := vm.details
	d.MemberInfos = append([]*models.GroupMemberInfo(nil), d.MemberInfos...)
	d.SentGroupInvitations = append([]*models.SentGroupInvitation(nil), d.SentGroupInvitations...)
	return d
}

// InviteParticipants asks the server to invite recipients. The snapshot is
// updated by the resulting entity updates, not by the response.
func (vm *ViewModel) InviteParticipants(ctx context.Context, recipients []string, capability models.Capability) (*models.InvitationResult, error) {
	info := vm.Info()
	return vm.cfg.Remote.SendGroupInvitation(ctx, info, CalendarName(vm.cfg.Translator, info.Name), recipients, capability)
}

// RevokeInvitation cancels a pending invitation.
func (vm *ViewModel) RevokeInvitation(ctx context.Context, invitation *models.SentGroupInvitation) error {
	return vm.cfg.Remote.RevokeInvitation(ctx, invitation.ID)
}

// RemoveMember removes an accepted member from the group.
func (vm *ViewModel) RemoveMember(ctx context.Context, memberInfo *models.GroupMemberInfo) error {
	return vm.cfg.Remote.RemoveMember(ctx, memberInfo.Member.UserID, vm.Group().ID)
}
