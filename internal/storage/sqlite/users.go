package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharebook/internal/models"
)

// CreateUser inserts a new user and the info of its user group.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	if user.UserGroupInfo.IsZero() {
		user.UserGroupInfo = models.IDTuple{ListID: user.CustomerID, ElementID: uuid.New().String()}
	}
	user.MailAddress = strings.ToLower(strings.TrimSpace(user.MailAddress))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_infos (list_id, element_id, group_id, name, mail_address)
		 VALUES (?, ?, ?, ?, ?)`,
		user.UserGroupInfo.ListID, user.UserGroupInfo.ElementID, user.ID, user.Name, user.MailAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user group info: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, name, mail_address, customer_id, global_admin, info_list_id, info_element_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.MailAddress, user.CustomerID, boolToInt(user.GlobalAdmin),
		user.UserGroupInfo.ListID, user.UserGroupInfo.ElementID, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const userColumns = `id, name, mail_address, customer_id, global_admin, info_list_id, info_element_id, created_at`

// GetUser retrieves a user by ID, including memberships.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	user, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	if err := s.loadMemberships(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByMailAddress retrieves a user by primary mail address.
func (s *SQLiteStore) GetUserByMailAddress(ctx context.Context, mailAddress string) (*models.User, error) {
	mailAddress = strings.ToLower(strings.TrimSpace(mailAddress))
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE mail_address = ?`, mailAddress)
	user, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "user with address", mailAddress)
	}
	if err := s.loadMemberships(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var admin int
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.MailAddress,
		&user.CustomerID,
		&admin,
		&user.UserGroupInfo.ListID,
		&user.UserGroupInfo.ElementID,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.GlobalAdmin = admin != 0
	return user, nil
}

func (s *SQLiteStore) loadMemberships(ctx context.Context, user *models.User) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, capability FROM group_members WHERE user_id = ? ORDER BY group_id",
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Membership
		var capability sql.NullInt64
		if err := rows.Scan(&m.GroupID, &capability); err != nil {
			return fmt.Errorf("failed to scan membership: %w", err)
		}
		m.Capability = capabilityPtr(capability)
		user.Memberships = append(user.Memberships, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate memberships: %w", err)
	}
	return nil
}

func capabilityPtr(v sql.NullInt64) *models.Capability {
	if !v.Valid {
		return nil
	}
	c := models.Capability(v.Int64)
	return &c
}

func nullCapability(c *models.Capability) any {
	if c == nil {
		return nil
	}
	return int(*c)
}
