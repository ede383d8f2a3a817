package notification

import (
	"time"
)

// Notification is one unread message for one recipient. The engine only
// creates rows; actual delivery belongs to an external worker.
type Notification struct {
	ID          string
	RecipientID string
	Message     string
	IsRead      bool
	CreatedAt   time.Time
}

type ListResponse struct {
	Notifications []Response `json:"notifications"`
	Total         int64      `json:"total"`
	UnreadCount   int64      `json:"unread_count"`
	Page          int        `json:"page"`
	Limit         int        `json:"limit"`
}

type Response struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}
