package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/domain/event"
	"github.com/presensia/attendance-backend-go/internal/domain/notification"
)

// Config holds notification dispatcher configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

// Deliverer pushes a stored notification to an external channel. Delivery
// is best effort; a failing deliverer never fails the dispatch.
type Deliverer interface {
	Deliver(n *notification.Notification)
}

// LogDeliverer writes deliveries to the log. The real push channel lives
// outside this system.
type LogDeliverer struct {
	Logger *slog.Logger
}

func (d LogDeliverer) Deliver(n *notification.Notification) {
	d.Logger.Info("notification delivered",
		"recipient_id", n.RecipientID,
		"message", n.Message,
	)
}

// Service consumes domain events and turns them into notification rows,
// one per recipient. It also serves the recipient-facing read surface.
type Service interface {
	event.Publisher

	List(ctx context.Context, recipientID string, page, limit int, unreadOnly bool) (notification.ListResponse, error)
	MarkAsRead(ctx context.Context, recipientID string, ids []string) error

	// Stop drains the queue and waits for the workers.
	Stop()
}

type service struct {
	repo      notification.Repository
	employees employee.EmployeeRepository
	deliverer Deliverer
	logger    *slog.Logger
	config    Config

	queue  chan event.Event
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService creates a dispatcher with background workers.
func NewNotificationService(
	repo notification.Repository,
	employees employee.EmployeeRepository,
	deliverer Deliverer,
	logger *slog.Logger,
	cfg Config,
) Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:      repo,
		employees: employees,
		deliverer: deliverer,
		logger:    logger,
		config:    cfg,
		queue:     make(chan event.Event, cfg.QueueSize),
		stopCh:    make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	logger.Info("notification dispatcher started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval,
	)

	return s
}

// Publish implements event.Publisher. It never blocks the caller; when the
// queue is full the event is expanded and inserted inline instead.
func (s *service) Publish(e event.Event) {
	select {
	case s.queue <- e:
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.insert(ctx, s.expand(ctx, e), -1)
	}
}

// worker drains the event queue into batched notification inserts.
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]*notification.Notification, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		s.insert(ctx, batch, id)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case e := <-s.queue:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			batch = append(batch, s.expand(ctx, e)...)
			cancel()
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// Drain whatever queued before the stop signal.
			for {
				select {
				case e := <-s.queue:
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					batch = append(batch, s.expand(ctx, e)...)
					cancel()
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) insert(ctx context.Context, batch []*notification.Notification, workerID int) {
	if len(batch) == 0 {
		return
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		s.logger.Error("failed to batch insert notifications",
			"worker", workerID,
			"count", len(batch),
			"error", err,
		)
		return
	}
	for _, n := range batch {
		s.deliverer.Deliver(n)
	}
}

// expand fans one event out to its recipients. Supervisory events reach
// every authorized employee; a decision reaches the requester only.
func (s *service) expand(ctx context.Context, e event.Event) []*notification.Notification {
	subject := e.EmployeeID
	if emp, err := s.employees.GetByID(ctx, e.EmployeeID); err == nil {
		subject = emp.FullName
	}

	var message string
	recipients := []string{e.EmployeeID}

	switch e.Type {
	case event.TypeLatenessDetected:
		message = fmt.Sprintf("%s checked in %d minutes late; %s leave days deducted",
			subject, e.LateMinutes, e.Deducted.StringFixed(2))
		recipients = s.authorizedRecipients(ctx)
	case event.TypeLowBalance:
		message = fmt.Sprintf("Leave balance for %s is low: %s days remaining",
			subject, e.NewBalance.StringFixed(2))
		recipients = s.authorizedRecipients(ctx)
	case event.TypeLeaveRequested:
		message = fmt.Sprintf("%s requested leave from %s to %s (%s days)",
			subject,
			e.StartDate.Format("2006-01-02"),
			e.EndDate.Format("2006-01-02"),
			e.Days.StringFixed(2))
		recipients = s.authorizedRecipients(ctx)
	case event.TypeLeaveDecided:
		outcome := "rejected"
		if e.Approved {
			outcome = "approved"
		}
		message = fmt.Sprintf("Your leave request from %s to %s was %s",
			e.StartDate.Format("2006-01-02"),
			e.EndDate.Format("2006-01-02"),
			outcome)
	default:
		s.logger.Warn("dropping event of unknown type", "type", e.Type)
		return nil
	}

	notifications := make([]*notification.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		notifications = append(notifications, &notification.Notification{
			ID:          uuid.New().String(),
			RecipientID: recipientID,
			Message:     message,
			CreatedAt:   time.Now(),
		})
	}
	return notifications
}

func (s *service) authorizedRecipients(ctx context.Context) []string {
	authorized, err := s.employees.ListByRole(ctx, employee.RoleAuthorized)
	if err != nil {
		s.logger.Error("failed to resolve authorized recipients", "error", err)
		return nil
	}
	ids := make([]string, 0, len(authorized))
	for _, emp := range authorized {
		ids = append(ids, emp.ID)
	}
	return ids
}

// List implements Service.
func (s *service) List(ctx context.Context, recipientID string, page, limit int, unreadOnly bool) (notification.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.repo.GetByRecipient(ctx, recipientID, page, limit, unreadOnly)
	if err != nil {
		return notification.ListResponse{}, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.UnreadCount(ctx, recipientID)
	if err != nil {
		return notification.ListResponse{}, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]notification.Response, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.Response{
			ID:        n.ID,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}

	return notification.ListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

// MarkAsRead implements Service.
func (s *service) MarkAsRead(ctx context.Context, recipientID string, ids []string) error {
	return s.repo.MarkAsRead(ctx, ids, recipientID)
}

// Stop implements Service.
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("notification dispatcher stopped")
}
