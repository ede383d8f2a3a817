package notification

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/domain/event"
	"github.com/presensia/attendance-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedEmployees(t *testing.T, store *memory.EmployeeStore) {
	t.Helper()
	ctx := context.Background()
	for _, emp := range []employee.Employee{
		{ID: "emp-1", Username: "ayu", FullName: "Ayu Lestari", Role: employee.RolePersonnel},
		{ID: "boss-1", Username: "boss1", FullName: "Budi Santoso", Role: employee.RoleAuthorized},
		{ID: "boss-2", Username: "boss2", FullName: "Citra Dewi", Role: employee.RoleAuthorized},
	} {
		_, err := store.Create(ctx, emp)
		require.NoError(t, err)
	}
}

func TestLatenessEventFansOutToAllAuthorized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := memory.NewNotificationStore()
	employees := memory.NewEmployeeStore()
	seedEmployees(t, employees)

	svc := NewNotificationService(repo, employees, LogDeliverer{Logger: discardLogger()}, discardLogger(), Config{})

	svc.Publish(event.Event{
		Type:        event.TypeLatenessDetected,
		EmployeeID:  "emp-1",
		OccurredAt:  time.Now(),
		LateMinutes: 45,
		Deducted:    decimal.RequireFromString("0.38"),
	})
	svc.Stop()

	for _, recipient := range []string{"boss-1", "boss-2"} {
		count, err := repo.UnreadCount(ctx, recipient)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "recipient %s", recipient)
	}

	// The subject does not notify themselves.
	count, err := repo.UnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestLeaveDecidedReachesRequesterOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := memory.NewNotificationStore()
	employees := memory.NewEmployeeStore()
	seedEmployees(t, employees)

	svc := NewNotificationService(repo, employees, LogDeliverer{Logger: discardLogger()}, discardLogger(), Config{})

	svc.Publish(event.Event{
		Type:       event.TypeLeaveDecided,
		EmployeeID: "emp-1",
		OccurredAt: time.Now(),
		StartDate:  time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2023, 10, 3, 0, 0, 0, 0, time.UTC),
		Approved:   true,
	})
	svc.Stop()

	count, err := repo.UnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.UnreadCount(ctx, "boss-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	listed, _, err := repo.GetByRecipient(ctx, "emp-1", 1, 20, false)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Contains(t, listed[0].Message, "approved")
}

func TestListAndMarkAsRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := memory.NewNotificationStore()
	employees := memory.NewEmployeeStore()
	seedEmployees(t, employees)

	svc := NewNotificationService(repo, employees, LogDeliverer{Logger: discardLogger()}, discardLogger(), Config{})

	svc.Publish(event.Event{
		Type:       event.TypeLowBalance,
		EmployeeID: "emp-1",
		OccurredAt: time.Now(),
		NewBalance: decimal.RequireFromString("2.90"),
	})
	svc.Stop()

	result, err := svc.List(ctx, "boss-1", 1, 20, false)
	require.NoError(t, err)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, int64(1), result.UnreadCount)
	assert.Contains(t, result.Notifications[0].Message, "2.90")

	err = svc.MarkAsRead(ctx, "boss-1", []string{result.Notifications[0].ID})
	require.NoError(t, err)

	result, err = svc.List(ctx, "boss-1", 1, 20, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.UnreadCount)

	// Another recipient's copy stays unread.
	other, err := svc.List(ctx, "boss-2", 1, 20, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.UnreadCount)
}
