package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/presensia/attendance-backend-go/internal/domain/notification"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
)

type notificationRepository struct {
	db *database.DB
}

// CreateBatch implements notification.Repository.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(notifications))
	args := make([]interface{}, 0, len(notifications)*3)

	for i, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3))
		args = append(args, n.ID, n.RecipientID, n.Message)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (id, recipient_id, message)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to batch insert notifications: %w", err)
	}

	return nil
}

// GetByRecipient implements notification.Repository.
func (r *notificationRepository) GetByRecipient(ctx context.Context, recipientID string, page, limit int, unreadOnly bool) ([]*notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "recipient_id = $1"
	if unreadOnly {
		where += " AND is_read = FALSE"
	}

	countQuery := "SELECT COUNT(*) FROM notifications WHERE " + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, recipientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	if limit == 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	query := fmt.Sprintf(`
		SELECT id, recipient_id, message, is_read, created_at
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, where)

	rows, err := q.Query(ctx, query, recipientID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, total, rows.Err()
}

// UnreadCount implements notification.Repository.
func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	if err := q.QueryRow(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkAsRead implements notification.Repository. The recipient guard keeps
// one employee from acknowledging another's notifications.
func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, recipientID string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = ANY($1)
		  AND recipient_id = $2
	`

	if _, err := q.Exec(ctx, query, ids, recipientID); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return nil
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}
