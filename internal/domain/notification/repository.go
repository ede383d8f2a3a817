package notification

import (
	"context"
)

// Repository defines the notification repository interface
type Repository interface {
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByRecipient(ctx context.Context, recipientID string, page, limit int, unreadOnly bool) ([]*Notification, int64, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkAsRead(ctx context.Context, ids []string, recipientID string) error
}
