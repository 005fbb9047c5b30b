package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharebook/internal/models"
)

const invitationColumns = `list_id, element_id, group_id, invitee_mail_address, capability, created_at`

// CreateSentInvitation persists a new pending invitation.
func (s *SQLiteStore) CreateSentInvitation(ctx context.Context, invitation *models.SentGroupInvitation) error {
	return insertSentInvitation(ctx, s.db, invitation)
}

// CreateSentInvitations persists all invitations in one transaction. Either
// every invitation is stored or none.
func (s *SQLiteStore) CreateSentInvitations(ctx context.Context, invitations []*models.SentGroupInvitation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, invitation := range invitations {
		if err := insertSentInvitation(ctx, tx, invitation); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AcceptInvitation adds member and deletes the invitation in one
// transaction.
func (s *SQLiteStore) AcceptInvitation(ctx context.Context, member *models.GroupMember, invitationID models.IDTuple) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertGroupMember(ctx, tx, member); err != nil {
		return err
	}
	if err := deleteSentInvitation(ctx, tx, invitationID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertSentInvitation(ctx context.Context, ex execer, invitation *models.SentGroupInvitation) error {
	if invitation.ID.ElementID == "" {
		invitation.ID.ElementID = uuid.New().String()
	}
	if invitation.CreatedAt == 0 {
		invitation.CreatedAt = time.Now().Unix()
	}
	invitation.InviteeMailAddress = strings.ToLower(strings.TrimSpace(invitation.InviteeMailAddress))

	_, err := ex.ExecContext(ctx,
		`INSERT INTO sent_group_invitations (`+invitationColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		invitation.ID.ListID, invitation.ID.ElementID, invitation.GroupID,
		invitation.InviteeMailAddress, int(invitation.Capability), invitation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sent invitation: %w", err)
	}
	return nil
}

// GetSentInvitation retrieves a pending invitation by id.
func (s *SQLiteStore) GetSentInvitation(ctx context.Context, id models.IDTuple) (*models.SentGroupInvitation, error) {
	invitation := &models.SentGroupInvitation{}
	var capability int
	err := s.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM sent_group_invitations WHERE list_id = ? AND element_id = ?`,
		id.ListID, id.ElementID,
	).Scan(&invitation.ID.ListID, &invitation.ID.ElementID, &invitation.GroupID,
		&invitation.InviteeMailAddress, &capability, &invitation.CreatedAt)
	if err != nil {
		return nil, notFound(err, "sent invitation", id)
	}
	invitation.Capability = models.Capability(capability)
	return invitation, nil
}

// ListSentInvitations retrieves all pending invitations of a list, oldest
// first.
func (s *SQLiteStore) ListSentInvitations(ctx context.Context, listID string) ([]*models.SentGroupInvitation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM sent_group_invitations WHERE list_id = ? ORDER BY rowid`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*models.SentGroupInvitation
	for rows.Next() {
		invitation := &models.SentGroupInvitation{}
		var capability int
		if err := rows.Scan(&invitation.ID.ListID, &invitation.ID.ElementID, &invitation.GroupID,
			&invitation.InviteeMailAddress, &capability, &invitation.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sent invitation: %w", err)
		}
		invitation.Capability = models.Capability(capability)
		invitations = append(invitations, invitation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sent invitations: %w", err)
	}
	return invitations, nil
}

// DeleteSentInvitation removes a pending invitation by id.
func (s *SQLiteStore) DeleteSentInvitation(ctx context.Context, id models.IDTuple) error {
	return deleteSentInvitation(ctx, s.db, id)
}

func deleteSentInvitation(ctx context.Context, ex execer, id models.IDTuple) error {
	res, err := ex.ExecContext(ctx,
		"DELETE FROM sent_group_invitations WHERE list_id = ? AND element_id = ?",
		id.ListID, id.ElementID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete sent invitation: %w", err)
	}
	return checkAffected(res, "sent invitation", id)
}
