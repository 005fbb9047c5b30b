package sharing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/models"
)

type keyTranslator struct{}

func (keyTranslator) Get(key string, params map[string]any) string {
	if len(params) == 0 {
		return key
	}
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(parts)
	return key + "[" + strings.Join(parts, ",") + "]"
}

// fakeEntities is an in-memory Entities keyed by element id.
type fakeEntities struct {
	mu          sync.Mutex
	groups      map[string]*models.Group
	infos       map[models.IDTuple]*models.GroupInfo
	invitations map[models.IDTuple]*models.SentGroupInvitation
	members     map[models.IDTuple]*models.GroupMember
	order       []models.IDTuple
	fetches     int
}

func newFakeEntities() *fakeEntities {
	return &fakeEntities{
		groups:      map[string]*models.Group{},
		infos:       map[models.IDTuple]*models.GroupInfo{},
		invitations: map[models.IDTuple]*models.SentGroupInvitation{},
		members:     map[models.IDTuple]*models.GroupMember{},
	}
}

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, failure.ErrNotFound)
}

func (f *fakeEntities) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.groups[groupID]; ok {
		return g, nil
	}
	return nil, notFound("group", groupID)
}

func (f *fakeEntities) GetGroupInfo(_ context.Context, id models.IDTuple) (*models.GroupInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if info, ok := f.infos[id]; ok {
		return info, nil
	}
	return nil, notFound("group info", id)
}

func (f *fakeEntities) ListSentInvitations(_ context.Context, listID string) ([]*models.SentGroupInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SentGroupInvitation
	for _, id := range f.order {
		if inv, ok := f.invitations[id]; ok && id.ListID == listID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeEntities) GetSentInvitation(_ context.Context, id models.IDTuple) (*models.SentGroupInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if inv, ok := f.invitations[id]; ok {
		return inv, nil
	}
	return nil, notFound("sent invitation", id)
}

func (f *fakeEntities) ListGroupMembers(_ context.Context, listID string) ([]*models.GroupMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.GroupMember
	for _, id := range f.order {
		if m, ok := f.members[id]; ok && id.ListID == listID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeEntities) GetGroupMember(_ context.Context, id models.IDTuple) (*models.GroupMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if m, ok := f.members[id]; ok {
		return m, nil
	}
	return nil, notFound("group member", id)
}

func (f *fakeEntities) addUser(id, name string) models.IDTuple {
	f.mu.Lock()
	defer f.mu.Unlock()
	infoID := models.IDTuple{ListID: "customer", ElementID: "info-" + id}
	f.infos[infoID] = &models.GroupInfo{ID: infoID, GroupID: id, Name: name, MailAddress: id + "@example.com"}
	return infoID
}

func (f *fakeEntities) addMember(group *models.Group, elementID, userID string, capability *models.Capability) *models.GroupMember {
	infoID := f.addUser(userID, strings.ToUpper(userID[:1])+userID[1:])
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &models.GroupMember{
		ID:            models.IDTuple{ListID: group.Members, ElementID: elementID},
		GroupID:       group.ID,
		UserID:        userID,
		UserGroupInfo: infoID,
		Capability:    capability,
	}
	f.members[m.ID] = m
	f.order = append(f.order, m.ID)
	return m
}

func (f *fakeEntities) addInvitation(group *models.Group, elementID, address string, capability models.Capability) *models.SentGroupInvitation {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv := &models.SentGroupInvitation{
		ID:                 models.IDTuple{ListID: group.Invitations, ElementID: elementID},
		GroupID:            group.ID,
		InviteeMailAddress: address,
		Capability:         capability,
	}
	f.invitations[inv.ID] = inv
	f.order = append(f.order, inv.ID)
	return inv
}

func (f *fakeEntities) remove(id models.IDTuple) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.invitations, id)
	delete(f.members, id)
}

type sentInvitation struct {
	calendarName string
	recipients   []string
	capability   models.Capability
}

// fakeRemote records commands and answers invitations with a canned result.
type fakeRemote struct {
	result        *models.InvitationResult
	err           error
	notifyErr     error
	sent          []sentInvitation
	notifications [][]string
	revoked       []models.IDTuple
	removed       []string
}

func (r *fakeRemote) SendGroupInvitation(_ context.Context, _ *models.GroupInfo, calendarName string, recipients []string, capability models.Capability) (*models.InvitationResult, error) {
	r.sent = append(r.sent, sentInvitation{calendarName, recipients, capability})
	if r.err != nil {
		return nil, r.err
	}
	if r.result != nil {
		return r.result, nil
	}
	return &models.InvitationResult{Invited: recipients}, nil
}

func (r *fakeRemote) RevokeInvitation(_ context.Context, id models.IDTuple) error {
	r.revoked = append(r.revoked, id)
	return nil
}

func (r *fakeRemote) RemoveMember(_ context.Context, userID, groupID string) error {
	r.removed = append(r.removed, groupID+"/"+userID)
	return nil
}

func (r *fakeRemote) SendShareNotification(_ context.Context, _ *models.GroupInfo, recipients []string) error {
	r.notifications = append(r.notifications, recipients)
	return r.notifyErr
}

// fakeUI records messages and answers confirmations with confirm.
type fakeUI struct {
	confirm  bool
	errors   []string
	confirms []string
}

func (u *fakeUI) Error(_ context.Context, message string) {
	u.errors = append(u.errors, message)
}

func (u *fakeUI) Confirm(_ context.Context, message string) bool {
	u.confirms = append(u.confirms, message)
	return u.confirm
}
