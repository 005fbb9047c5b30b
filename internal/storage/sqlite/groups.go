package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharebook/internal/models"
)

// CreateGroup persists a shared group, its info and the owner's membership.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, info *models.GroupInfo) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.Type == "" {
		group.Type = models.GroupTypeCalendar
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.Members == "" {
		group.Members = uuid.New().String()
	}
	if group.Invitations == "" {
		group.Invitations = uuid.New().String()
	}
	if info.ID.IsZero() {
		info.ID = models.IDTuple{ListID: group.CustomerID, ElementID: uuid.New().String()}
	}
	info.GroupID = group.ID
	group.GroupInfo = info.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_infos (list_id, element_id, group_id, name, mail_address)
		 VALUES (?, ?, ?, ?, ?)`,
		info.ID.ListID, info.ID.ElementID, info.GroupID, info.Name, info.MailAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group info: %w", err)
	}

	var owner any
	if group.OwnerUserID != "" {
		owner = group.OwnerUserID
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, type, owner_user_id, customer_id, members_list_id, invitations_list_id,
		                     info_list_id, info_element_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, string(group.Type), owner, group.CustomerID, group.Members, group.Invitations,
		info.ID.ListID, info.ID.ElementID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	// The owner is the first member. Its capability stays NULL.
	if group.OwnerUserID != "" {
		var infoList, infoElement string
		err := tx.QueryRowContext(ctx,
			"SELECT info_list_id, info_element_id FROM users WHERE id = ?",
			group.OwnerUserID,
		).Scan(&infoList, &infoElement)
		if err != nil {
			return notFound(err, "owner", group.OwnerUserID)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO group_members (list_id, element_id, group_id, user_id, info_list_id, info_element_id, capability)
			 VALUES (?, ?, ?, ?, ?, ?, NULL)`,
			group.Members, uuid.New().String(), group.ID, group.OwnerUserID, infoList, infoElement,
		)
		if err != nil {
			return fmt.Errorf("failed to insert owner membership: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const groupColumns = `id, type, owner_user_id, customer_id, members_list_id, invitations_list_id,
	info_list_id, info_element_id, created_at`

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = ?`, groupID)
	group, err := scanGroup(row)
	if err != nil {
		return nil, notFound(err, "group", groupID)
	}
	return group, nil
}

// GetGroupByListID retrieves the group that owns the given member or
// invitation list.
func (s *SQLiteStore) GetGroupByListID(ctx context.Context, listID string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE members_list_id = ? OR invitations_list_id = ?`,
		listID, listID,
	)
	group, err := scanGroup(row)
	if err != nil {
		return nil, notFound(err, "group for list", listID)
	}
	return group, nil
}

func scanGroup(row *sql.Row) (*models.Group, error) {
	group := &models.Group{}
	var groupType string
	var owner sql.NullString
	err := row.Scan(
		&group.ID,
		&groupType,
		&owner,
		&group.CustomerID,
		&group.Members,
		&group.Invitations,
		&group.GroupInfo.ListID,
		&group.GroupInfo.ElementID,
		&group.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	group.Type = models.GroupType(groupType)
	if owner.Valid {
		group.OwnerUserID = owner.String
	}
	return group, nil
}

// GetGroupInfo retrieves the display info of a group or user.
func (s *SQLiteStore) GetGroupInfo(ctx context.Context, id models.IDTuple) (*models.GroupInfo, error) {
	info := &models.GroupInfo{ID: id}
	var mail sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT group_id, name, mail_address FROM group_infos WHERE list_id = ? AND element_id = ?",
		id.ListID, id.ElementID,
	).Scan(&info.GroupID, &info.Name, &mail)
	if err != nil {
		return nil, notFound(err, "group info", id)
	}
	info.MailAddress = mail.String
	return info, nil
}

const memberColumns = `list_id, element_id, group_id, user_id, info_list_id, info_element_id, capability`

// ListGroupMembers retrieves all members of a member list in insertion order.
func (s *SQLiteStore) ListGroupMembers(ctx context.Context, listID string) ([]*models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM group_members WHERE list_id = ? ORDER BY rowid`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []*models.GroupMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}

// GetGroupMember retrieves one member by id.
func (s *SQLiteStore) GetGroupMember(ctx context.Context, id models.IDTuple) (*models.GroupMember, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM group_members WHERE list_id = ? AND element_id = ?`,
		id.ListID, id.ElementID,
	)
	member, err := scanMember(row)
	if err != nil {
		return nil, notFound(err, "group member", id)
	}
	return member, nil
}

// GetGroupMemberByUser retrieves the membership of a user in a group.
func (s *SQLiteStore) GetGroupMemberByUser(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID,
	)
	member, err := scanMember(row)
	if err != nil {
		return nil, notFound(err, "membership of user", userID)
	}
	return member, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (*models.GroupMember, error) {
	member := &models.GroupMember{}
	var capability sql.NullInt64
	err := row.Scan(
		&member.ID.ListID,
		&member.ID.ElementID,
		&member.GroupID,
		&member.UserID,
		&member.UserGroupInfo.ListID,
		&member.UserGroupInfo.ElementID,
		&capability,
	)
	if err != nil {
		return nil, err
	}
	member.Capability = capabilityPtr(capability)
	return member, nil
}

// AddGroupMember persists a membership in the group's member list.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, member *models.GroupMember) error {
	return insertGroupMember(ctx, s.db, member)
}

func insertGroupMember(ctx context.Context, ex execer, member *models.GroupMember) error {
	if member.ID.ElementID == "" {
		member.ID.ElementID = uuid.New().String()
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO group_members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		member.ID.ListID, member.ID.ElementID, member.GroupID, member.UserID,
		member.UserGroupInfo.ListID, member.UserGroupInfo.ElementID, nullCapability(member.Capability),
	)
	if err != nil {
		return fmt.Errorf("failed to insert group member: %w", err)
	}
	return nil
}

// DeleteGroupMember removes a membership by id.
func (s *SQLiteStore) DeleteGroupMember(ctx context.Context, id models.IDTuple) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE list_id = ? AND element_id = ?",
		id.ListID, id.ElementID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete group member: %w", err)
	}
	return checkAffected(res, "group member", id)
}
