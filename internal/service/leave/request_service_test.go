package leave

import (
	"context"
	"sync"
	"testing"

	"github.com/presensia/attendance-backend-go/internal/domain/event"
	"github.com/presensia/attendance-backend-go/internal/domain/leave"
	"github.com/presensia/attendance-backend-go/internal/repository/memory"
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

func (p *capturePublisher) last() (event.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return event.Event{}, false
	}
	return p.events[len(p.events)-1], true
}

type requestFixture struct {
	service  LeaveRequestService
	requests *memory.RequestStore
	balances *memory.BalanceStore
	events   *capturePublisher
}

func newRequestFixture(t *testing.T, openingBalance string) requestFixture {
	t.Helper()

	requests := memory.NewRequestStore()
	balances := memory.NewBalanceStore()
	events := &capturePublisher{}
	ledger := NewLeaveLedger(balances, testPolicy())
	require.NoError(t, balances.Create(context.Background(), "emp-1", decimal.RequireFromString(openingBalance)))

	svc := NewLeaveRequestService(memory.TxManager{}, requests, ledger, events)
	return requestFixture{service: svc, requests: requests, balances: balances, events: events}
}

func submit(t *testing.T, f requestFixture, start, end string) leave.RequestResponse {
	t.Helper()
	resp, err := f.service.Submit(context.Background(), leave.SubmitRequestRequest{
		EmployeeID: "emp-1",
		StartDate:  start,
		EndDate:    end,
		Reason:     "family matters",
	})
	require.NoError(t, err)
	return resp
}

func TestSubmitCountsInclusiveDays(t *testing.T) {
	t.Parallel()
	f := newRequestFixture(t, "15.00")

	resp := submit(t, f, "2023-10-01", "2023-10-03")
	assert.Equal(t, "3.00", resp.Days)
	assert.Equal(t, leave.StatusPending, resp.Status)

	e, ok := f.events.last()
	require.True(t, ok)
	assert.Equal(t, event.TypeLeaveRequested, e.Type)
	assert.True(t, e.Days.Equal(decimal.NewFromInt(3)))
}

func TestSubmitSingleDay(t *testing.T) {
	t.Parallel()
	f := newRequestFixture(t, "15.00")

	resp := submit(t, f, "2023-10-05", "2023-10-05")
	assert.Equal(t, "1.00", resp.Days)
}

func TestSubmitInvalidRange(t *testing.T) {
	t.Parallel()
	f := newRequestFixture(t, "15.00")

	_, err := f.service.Submit(context.Background(), leave.SubmitRequestRequest{
		EmployeeID: "emp-1",
		StartDate:  "2023-10-05",
		EndDate:    "2023-10-01",
		Reason:     "backwards",
	})
	assert.Error(t, err)
}

func TestSubmitRejectsOverlap(t *testing.T) {
	t.Parallel()
	f := newRequestFixture(t, "15.00")

	submit(t, f, "2023-10-01", "2023-10-03")

	_, err := f.service.Submit(context.Background(), leave.SubmitRequestRequest{
		EmployeeID: "emp-1",
		StartDate:  "2023-10-03",
		EndDate:    "2023-10-06",
		Reason:     "touches existing span",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)

	// Adjacent, non-overlapping spans are fine.
	submit(t, f, "2023-10-04", "2023-10-06")
}

func TestApproveDebitsBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRequestFixture(t, "15.00")

	created := submit(t, f, "2023-10-01", "2023-10-03")

	resp, err := f.service.Decide(ctx, leave.DecideRequestRequest{
		RequestID: created.ID,
		DeciderID: "boss-1",
		Decision:  "approve",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
	require.NotNil(t, resp.RespondedAt)

	balance, err := f.balances.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Days.Equal(decimal.RequireFromString("12.00")),
		"balance = %s, want 12.00", balance.Days)

	e, ok := f.events.last()
	require.True(t, ok)
	assert.Equal(t, event.TypeLeaveDecided, e.Type)
	assert.True(t, e.Approved)
}

func TestRejectLeavesBalanceUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRequestFixture(t, "15.00")

	created := submit(t, f, "2023-10-01", "2023-10-03")

	resp, err := f.service.Decide(ctx, leave.DecideRequestRequest{
		RequestID: created.ID,
		DeciderID: "boss-1",
		Decision:  "reject",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resp.Status)

	balance, err := f.balances.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Days.Equal(decimal.RequireFromString("15.00")))
}

func TestDecideTwiceFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRequestFixture(t, "15.00")

	created := submit(t, f, "2023-10-01", "2023-10-03")

	_, err := f.service.Decide(ctx, leave.DecideRequestRequest{
		RequestID: created.ID, DeciderID: "boss-1", Decision: "approve",
	})
	require.NoError(t, err)

	_, err = f.service.Decide(ctx, leave.DecideRequestRequest{
		RequestID: created.ID, DeciderID: "boss-2", Decision: "reject",
	})
	assert.ErrorIs(t, err, leave.ErrAlreadyDecided)

	// Status and balance unchanged by the failed second decision.
	stored, err := f.requests.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)

	balance, err := f.balances.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Days.Equal(decimal.RequireFromString("12.00")))
}

func TestApproveInsufficientBalanceKeepsRequestPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRequestFixture(t, "2.00")

	created := submit(t, f, "2023-10-01", "2023-10-03")

	_, err := f.service.Decide(ctx, leave.DecideRequestRequest{
		RequestID: created.ID, DeciderID: "boss-1", Decision: "approve",
	})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	stored, err := f.requests.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, stored.Status)

	balance, err := f.balances.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Days.Equal(decimal.RequireFromString("2.00")))
}

func TestDecideUnknownRequest(t *testing.T) {
	t.Parallel()
	f := newRequestFixture(t, "15.00")

	_, err := f.service.Decide(context.Background(), leave.DecideRequestRequest{
		RequestID: "ghost", DeciderID: "boss-1", Decision: "approve",
	})
	assert.ErrorIs(t, err, leave.ErrRequestNotFound)
}

func TestBalanceReportsLowFlag(t *testing.T) {
	t.Parallel()
	f := newRequestFixture(t, "2.90")

	resp, err := f.service.Balance(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "2.90", resp.Days)
	assert.True(t, resp.Low)
}
