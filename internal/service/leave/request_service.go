package leave

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/event"
	"github.com/presensia/attendance-backend-go/internal/domain/leave"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type LeaveRequestService interface {
	// Submit files a new pending request spanning [start, end] inclusive.
	Submit(ctx context.Context, req leave.SubmitRequestRequest) (leave.RequestResponse, error)

	// Decide approves or rejects a pending request. Approval debits the
	// requested days from the balance in the same transaction.
	Decide(ctx context.Context, req leave.DecideRequestRequest) (leave.RequestResponse, error)

	// ListByEmployee retrieves an employee's requests, newest first.
	ListByEmployee(ctx context.Context, employeeID string, page, limit int) (leave.RequestListResponse, error)

	// Balance returns the employee's remaining days and the low flag.
	Balance(ctx context.Context, employeeID string) (leave.BalanceResponse, error)
}

type LeaveRequestServiceImpl struct {
	tx       database.TxManager
	requests leave.RequestRepository
	ledger   LeaveLedger
	events   event.Publisher
}

// Submit implements LeaveRequestService.
func (s *LeaveRequestServiceImpl) Submit(ctx context.Context, req leave.SubmitRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	if end.Before(start) {
		return leave.RequestResponse{}, leave.ErrInvalidDateRange
	}

	// Inclusive span: 2023-10-01..2023-10-03 is three days.
	days := decimal.NewFromInt(int64(end.Sub(start)/(24*time.Hour)) + 1)

	var created leave.Request
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		overlapping, err := s.requests.HasOverlapping(ctx, req.EmployeeID, start, end)
		if err != nil {
			return fmt.Errorf("failed to check overlapping requests: %w", err)
		}
		if overlapping {
			return leave.ErrOverlappingRequest
		}

		created, err = s.requests.Create(ctx, leave.Request{
			EmployeeID: req.EmployeeID,
			StartDate:  start,
			EndDate:    end,
			Days:       days,
			Reason:     req.Reason,
			Status:     leave.StatusPending,
		})
		return err
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.events.Publish(event.Event{
		Type:       event.TypeLeaveRequested,
		EmployeeID: created.EmployeeID,
		OccurredAt: created.RequestedAt,
		RequestID:  created.ID,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
	})

	return toRequestResponse(created), nil
}

// Decide implements LeaveRequestService.
func (s *LeaveRequestServiceImpl) Decide(ctx context.Context, req leave.DecideRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	now := time.Now().UTC()
	approve := leave.Decision(req.Decision) == leave.DecisionApprove

	var decided leave.Request
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		decided, err = s.requests.GetByID(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if decided.Status.Terminal() {
			return leave.ErrAlreadyDecided
		}

		status := leave.StatusRejected
		if approve {
			// An approval that the balance cannot cover aborts the whole
			// transaction; the request stays pending.
			if _, err := s.ledger.Debit(ctx, decided.EmployeeID, decided.Days); err != nil {
				return err
			}
			status = leave.StatusApproved
		}

		if err := s.requests.SetDecision(ctx, decided.ID, status, now, req.DeciderID); err != nil {
			return err
		}
		decided.Status = status
		decided.RespondedAt = &now
		decided.DecidedBy = &req.DeciderID
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.events.Publish(event.Event{
		Type:       event.TypeLeaveDecided,
		EmployeeID: decided.EmployeeID,
		OccurredAt: now,
		RequestID:  decided.ID,
		StartDate:  decided.StartDate,
		EndDate:    decided.EndDate,
		Days:       decided.Days,
		Approved:   approve,
	})

	return toRequestResponse(decided), nil
}

// ListByEmployee implements LeaveRequestService.
func (s *LeaveRequestServiceImpl) ListByEmployee(ctx context.Context, employeeID string, page, limit int) (leave.RequestListResponse, error) {
	if limit == 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	requests, total, err := s.requests.ListByEmployee(ctx, employeeID, page, limit)
	if err != nil {
		return leave.RequestListResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toRequestResponse(r))
	}

	return leave.RequestListResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Requests:   responses,
	}, nil
}

// Balance implements LeaveRequestService.
func (s *LeaveRequestServiceImpl) Balance(ctx context.Context, employeeID string) (leave.BalanceResponse, error) {
	low, days, err := s.ledger.CheckLowBalance(ctx, employeeID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	return leave.BalanceResponse{
		EmployeeID: employeeID,
		Days:       days.StringFixed(2),
		Low:        low,
	}, nil
}

func toRequestResponse(r leave.Request) leave.RequestResponse {
	resp := leave.RequestResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		StartDate:   r.StartDate.Format("2006-01-02"),
		EndDate:     r.EndDate.Format("2006-01-02"),
		Days:        r.Days.StringFixed(2),
		Reason:      r.Reason,
		Status:      r.Status,
		RequestedAt: r.RequestedAt.Format(time.RFC3339),
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	if r.RespondedAt != nil {
		formatted := r.RespondedAt.Format(time.RFC3339)
		resp.RespondedAt = &formatted
	}
	return resp
}

func NewLeaveRequestService(
	tx database.TxManager,
	requests leave.RequestRepository,
	ledger LeaveLedger,
	events event.Publisher,
) LeaveRequestService {
	return &LeaveRequestServiceImpl{
		tx:       tx,
		requests: requests,
		ledger:   ledger,
		events:   events,
	}
}
