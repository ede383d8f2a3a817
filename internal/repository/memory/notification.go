package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/presensia/attendance-backend-go/internal/domain/notification"
)

// NotificationStore implements notification.Repository in memory.
type NotificationStore struct {
	mu            sync.Mutex
	notifications map[string]*notification.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{notifications: make(map[string]*notification.Notification)}
}

func (s *NotificationStore) CreateBatch(_ context.Context, notifications []*notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		cp := *n
		s.notifications[n.ID] = &cp
	}
	return nil
}

func (s *NotificationStore) GetByRecipient(_ context.Context, recipientID string, page, limit int, unreadOnly bool) ([]*notification.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*notification.Notification
	for _, n := range s.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		cp := *n
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if limit == 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *NotificationStore) UnreadCount(_ context.Context, recipientID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *NotificationStore) MarkAsRead(_ context.Context, ids []string, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if n, ok := s.notifications[id]; ok && n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}
