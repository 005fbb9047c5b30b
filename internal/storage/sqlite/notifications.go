package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharebook/internal/models"
)

// RecordShareNotification queues a share notification mail for delivery.
func (s *SQLiteStore) RecordShareNotification(ctx context.Context, groupID, senderID, recipient string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO share_notifications (id, group_id, sender_id, recipient, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), groupID, senderID, recipient, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert share notification: %w", err)
	}
	return nil
}

// ListShareNotifications returns queued recipients for a group, oldest first.
func (s *SQLiteStore) ListShareNotifications(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT recipient FROM share_notifications WHERE group_id = ? ORDER BY created_at, rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list share notifications: %w", err)
	}
	defer rows.Close()

	var recipients []string
	for rows.Next() {
		var recipient string
		if err := rows.Scan(&recipient); err != nil {
			return nil, fmt.Errorf("failed to scan share notification: %w", err)
		}
		recipients = append(recipients, recipient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate share notifications: %w", err)
	}
	return recipients, nil
}

// ListPendingShareNotifications returns undelivered notifications, oldest first.
func (s *SQLiteStore) ListPendingShareNotifications(ctx context.Context, limit int) ([]*models.ShareNotification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, sender_id, recipient, created_at
		 FROM share_notifications
		 WHERE sent_at IS NULL
		 ORDER BY created_at, rowid
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending share notifications: %w", err)
	}
	defer rows.Close()

	var pending []*models.ShareNotification
	for rows.Next() {
		n := &models.ShareNotification{}
		if err := rows.Scan(&n.ID, &n.GroupID, &n.SenderID, &n.Recipient, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan share notification: %w", err)
		}
		pending = append(pending, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate share notifications: %w", err)
	}
	return pending, nil
}

// MarkShareNotificationSent stores the delivery time of a notification.
func (s *SQLiteStore) MarkShareNotificationSent(ctx context.Context, id string, sentAt int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE share_notifications SET sent_at = ? WHERE id = ?",
		sentAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark share notification sent: %w", err)
	}
	return checkAffected(res, "share notification", id)
}
