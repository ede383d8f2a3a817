package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/presensia/attendance-backend-go/internal/config"
	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/event"
	"github.com/presensia/attendance-backend-go/internal/repository/memory"
	leaveservice "github.com/presensia/attendance-backend-go/internal/service/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *capturePublisher) Publish(e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *capturePublisher) byType(t event.Type) []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	service  AttendanceService
	records  *memory.AttendanceStore
	balances *memory.BalanceStore
	events   *capturePublisher
}

func newFixture(t *testing.T, openingBalance string) fixture {
	t.Helper()

	records := memory.NewAttendanceStore()
	balances := memory.NewBalanceStore()
	events := &capturePublisher{}

	policy := config.AttendanceConfig{
		CutoffHour:          8,
		RatePerHalfHour:     decimal.RequireFromString("0.25"),
		LowBalanceThreshold: decimal.NewFromInt(3),
	}
	ledger := leaveservice.NewLeaveLedger(balances, policy)
	require.NoError(t, balances.Create(context.Background(), "emp-1", decimal.RequireFromString(openingBalance)))

	svc := NewAttendanceService(memory.TxManager{}, records, ledger, events, Cutoff{Hour: 8})
	return fixture{service: svc, records: records, balances: balances, events: events}
}

func at(hour, minute int) *time.Time {
	t := time.Date(2023, 10, 2, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestCheckInOnTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "15.00")

	resp, err := f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", At: at(7, 45)})
	require.NoError(t, err)

	assert.False(t, resp.IsLate)
	assert.Equal(t, 0, resp.LateMinutes)
	assert.Equal(t, "0.00", resp.LeaveDeducted)
	assert.Empty(t, resp.Warning)

	balance, err := f.balances.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Days.Equal(decimal.RequireFromString("15.00")))
	assert.Empty(t, f.events.byType(event.TypeLatenessDetected))
}

func TestCheckInLateDebitsBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "15.00")

	resp, err := f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", At: at(8, 45)})
	require.NoError(t, err)

	assert.True(t, resp.IsLate)
	assert.Equal(t, 45, resp.LateMinutes)
	assert.Equal(t, "0.38", resp.LeaveDeducted)
	assert.Empty(t, resp.Warning)

	balance, err := f.balances.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Days.Equal(decimal.RequireFromString("14.62")),
		"balance = %s, want 14.62", balance.Days)

	lateness := f.events.byType(event.TypeLatenessDetected)
	require.Len(t, lateness, 1)
	assert.Equal(t, "emp-1", lateness[0].EmployeeID)
	assert.Equal(t, 45, lateness[0].LateMinutes)
	assert.True(t, lateness[0].Deducted.Equal(decimal.RequireFromString("0.38")))

	// 14.62 is comfortably above the threshold.
	assert.Empty(t, f.events.byType(event.TypeLowBalance))
}

func TestCheckInLateInsufficientBalanceKeepsRecordWithWarning(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "0.20")

	resp, err := f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", At: at(8, 45)})
	require.NoError(t, err)

	assert.False(t, resp.IsLate)
	assert.Equal(t, 0, resp.LateMinutes)
	assert.Equal(t, "0.00", resp.LeaveDeducted)
	// The warning must describe what the record shows: not marked late.
	assert.Contains(t, resp.Warning, "not recorded as late")

	balance, err := f.balances.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Days.Equal(decimal.RequireFromString("0.20")))

	// The stored record matches the response.
	rec, err := f.records.GetByEmployeeAndDate(ctx, "emp-1", time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, rec.IsLate)
	assert.True(t, rec.LeaveDeducted.IsZero())

	assert.Empty(t, f.events.byType(event.TypeLatenessDetected))
}

func TestCheckInLowBalanceEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "3.28")

	_, err := f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", At: at(8, 45)})
	require.NoError(t, err)

	low := f.events.byType(event.TypeLowBalance)
	require.Len(t, low, 1)
	assert.True(t, low[0].NewBalance.Equal(decimal.RequireFromString("2.90")),
		"low balance event carries %s, want 2.90", low[0].NewBalance)
}

func TestCheckInTwiceSameDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "15.00")

	first, err := f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", At: at(7, 50)})
	require.NoError(t, err)

	_, err = f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", At: at(9, 0)})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	// The first check-in is untouched.
	rec, err := f.records.GetByEmployeeAndDate(ctx, "emp-1", time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, first.ID, rec.ID)
	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, 7, rec.CheckIn.Hour())
	assert.False(t, rec.IsLate)
}

func TestCheckOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "15.00")

	_, err := f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", At: at(8, 0)})
	require.NoError(t, err)

	resp, err := f.service.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1", At: at(17, 0)})
	require.NoError(t, err)
	require.NotNil(t, resp.WorkingHours)
	assert.InDelta(t, 9.0, *resp.WorkingHours, 0.001)

	_, err = f.service.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "emp-1", At: at(18, 0)})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "15.00")

	_, err := f.service.CheckOut(context.Background(), attendance.CheckOutRequest{EmployeeID: "emp-1", At: at(17, 0)})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestListFiltersByName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, "15.00")
	f.records.Names["emp-1"] = "Ayu Lestari"

	_, err := f.service.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "emp-1", At: at(7, 45)})
	require.NoError(t, err)

	query := "ayu"
	result, err := f.service.List(ctx, attendance.Filter{Query: &query})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Ayu Lestari", result.Records[0].EmployeeName)

	query = "nobody"
	result, err = f.service.List(ctx, attendance.Filter{Query: &query})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.TotalCount)
}

func TestCheckInValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "15.00")

	_, err := f.service.CheckIn(context.Background(), attendance.CheckInRequest{})
	assert.Error(t, err)
}
