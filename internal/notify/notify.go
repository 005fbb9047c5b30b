// Package notify delivers queued share notification mails on a schedule.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/sharebook/internal/metrics"
	"github.com/mmynk/sharebook/internal/models"
)

// DefaultBatchSize is the number of notifications delivered per run.
const DefaultBatchSize = 100

// Message is one outgoing mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends mails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes mails to the log instead of sending them.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, msg Message) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Store is the part of storage.Store the dispatcher reads.
type Store interface {
	ListPendingShareNotifications(ctx context.Context, limit int) ([]*models.ShareNotification, error)
	MarkShareNotificationSent(ctx context.Context, id string, sentAt int64) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupInfo(ctx context.Context, id models.IDTuple) (*models.GroupInfo, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// Translator renders the mail texts.
type Translator interface {
	Get(key string, params map[string]any) string
}

// Dispatcher delivers pending share notifications.
type Dispatcher struct {
	Store      Store
	Mailer     Mailer
	Translator Translator
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	BatchSize  int

	// Now defaults to time.Now.
	Now func() time.Time
}

// Dispatch delivers one batch and returns the number of sent mails. A mail
// that fails stays pending for the next run.
func (d *Dispatcher) Dispatch(ctx context.Context) (int, error) {
	logger := d.logger()
	limit := d.BatchSize
	if limit <= 0 {
		limit = DefaultBatchSize
	}

	pending, err := d.Store.ListPendingShareNotifications(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending notifications: %w", err)
	}

	sent := 0
	for _, n := range pending {
		msg, err := d.render(ctx, n)
		if err != nil {
			logger.Warn("Share notification skipped", "id", n.ID, "error", err)
			d.count("failed")
			continue
		}
		if err := d.Mailer.Send(ctx, msg); err != nil {
			logger.Warn("Share notification failed", "id", n.ID, "recipient", n.Recipient, "error", err)
			d.count("failed")
			continue
		}
		if err := d.Store.MarkShareNotificationSent(ctx, n.ID, d.now().Unix()); err != nil {
			return sent, fmt.Errorf("failed to mark notification %s sent: %w", n.ID, err)
		}
		d.count("sent")
		sent++
	}
	if len(pending) > 0 {
		logger.Info("Share notifications dispatched", "pending", len(pending), "sent", sent)
	}
	return sent, nil
}

func (d *Dispatcher) render(ctx context.Context, n *models.ShareNotification) (Message, error) {
	group, err := d.Store.GetGroup(ctx, n.GroupID)
	if err != nil {
		return Message{}, err
	}
	info, err := d.Store.GetGroupInfo(ctx, group.GroupInfo)
	if err != nil {
		return Message{}, err
	}
	sender, err := d.Store.GetUser(ctx, n.SenderID)
	if err != nil {
		return Message{}, err
	}

	senderName := sender.Name
	if senderName == "" {
		senderName = sender.MailAddress
	}
	return Message{
		To:      n.Recipient,
		Subject: d.Translator.Get("shareNotificationSubject_msg", map[string]any{"name": info.Name}),
		Body:    d.Translator.Get("shareNotificationBody_msg", map[string]any{"1": senderName, "name": info.Name}),
	}, nil
}

// Start runs Dispatch on the given cron schedule, e.g. "@every 1m". Stop the
// returned scheduler to end it.
func (d *Dispatcher) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := d.Dispatch(context.Background()); err != nil {
			d.logger().Error("Share notification dispatch failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid dispatch schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}

func (d *Dispatcher) count(state string) {
	if d.Metrics != nil {
		d.Metrics.Notifications.WithLabelValues(state).Inc()
	}
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d *Dispatcher) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
