package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/event"
	"github.com/presensia/attendance-backend-go/internal/domain/leave"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
	leaveservice "github.com/presensia/attendance-backend-go/internal/service/leave"
	"github.com/shopspring/decimal"
)

const insufficientBalanceWarning = "late arrival not recorded as late: leave balance cannot cover the penalty"

type AttendanceService interface {
	// CheckIn opens the attendance record for today. A late check-in debits
	// the leave balance in the same transaction; when the balance cannot
	// cover the deduction the record is kept with lateness cleared and the
	// response carries a warning.
	CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error)

	// CheckOut closes today's record and stores the worked minutes.
	CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error)

	// List retrieves attendance records with filters and pagination.
	List(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error)
}

type AttendanceServiceImpl struct {
	tx      database.TxManager
	records attendance.RecordRepository
	ledger  leaveservice.LeaveLedger
	events  event.Publisher
	cutoff  Cutoff
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// dateOf truncates a timestamp to its calendar day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn implements AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}
	date := dateOf(at)

	lateBy, isLate := Lateness(at, a.cutoff)
	lateMinutes := int(lateBy / time.Minute)

	deduction := decimal.Zero
	if isLate {
		deduction = a.ledger.LatenessDeduction(lateMinutes)
	}

	var (
		rec        attendance.Record
		warning    string
		debited    bool
		newBalance decimal.Decimal
	)

	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		rec, err = a.records.Create(ctx, attendance.Record{
			EmployeeID:    req.EmployeeID,
			Date:          date,
			CheckIn:       &at,
			IsLate:        isLate,
			LateMinutes:   lateMinutes,
			LeaveDeducted: deduction,
		})
		if err != nil {
			return err
		}

		if !isLate || deduction.IsZero() {
			return nil
		}

		newBalance, err = a.ledger.Debit(ctx, req.EmployeeID, deduction)
		if err == nil {
			debited = true
			return nil
		}
		if !errors.Is(err, leave.ErrInsufficientBalance) {
			return err
		}

		// The balance cannot cover the penalty. Keep the record but drop
		// the lateness so no partial deduction ever happens.
		if err := a.records.ClearLateness(ctx, rec.ID); err != nil {
			return err
		}
		rec.IsLate = false
		rec.LateMinutes = 0
		rec.LeaveDeducted = decimal.Zero
		warning = insufficientBalanceWarning
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if debited {
		a.events.Publish(event.Event{
			Type:        event.TypeLatenessDetected,
			EmployeeID:  req.EmployeeID,
			OccurredAt:  at,
			LateMinutes: lateMinutes,
			Deducted:    deduction,
			NewBalance:  newBalance,
		})
		if low, balance, err := a.ledger.CheckLowBalance(ctx, req.EmployeeID); err == nil && low {
			a.events.Publish(event.Event{
				Type:       event.TypeLowBalance,
				EmployeeID: req.EmployeeID,
				OccurredAt: at,
				NewBalance: balance,
			})
		}
	}

	resp := toRecordResponse(rec)
	resp.Warning = warning
	return resp, nil
}

// CheckOut implements AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}
	date := dateOf(at)

	var rec attendance.Record
	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		rec, err = a.records.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
		if err != nil {
			if errors.Is(err, attendance.ErrRecordNotFound) {
				return attendance.ErrNotCheckedIn
			}
			return err
		}
		if rec.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}

		workMinutes := int(at.Sub(*rec.CheckIn) / time.Minute)
		if workMinutes < 0 {
			return fmt.Errorf("check-out %s precedes check-in %s", at, rec.CheckIn)
		}

		if err := a.records.SetCheckOut(ctx, rec.ID, at, workMinutes); err != nil {
			return err
		}
		rec.CheckOut = &at
		rec.WorkMinutes = &workMinutes
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toRecordResponse(rec), nil
}

// List implements AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	records, total, err := a.records.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toRecordResponse(rec))
	}

	return attendance.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:            rec.ID,
		EmployeeID:    rec.EmployeeID,
		Date:          rec.Date.Format("2006-01-02"),
		CheckInTime:   timePtrToString(rec.CheckIn),
		CheckOutTime:  timePtrToString(rec.CheckOut),
		IsLate:        rec.IsLate,
		LateMinutes:   rec.LateMinutes,
		LeaveDeducted: rec.LeaveDeducted.StringFixed(2),
	}
	if rec.EmployeeName != nil {
		resp.EmployeeName = *rec.EmployeeName
	}
	if rec.WorkMinutes != nil {
		hours := float64(*rec.WorkMinutes) / 60.0
		resp.WorkingHours = &hours
	}
	return resp
}

func NewAttendanceService(
	tx database.TxManager,
	records attendance.RecordRepository,
	ledger leaveservice.LeaveLedger,
	events event.Publisher,
	cutoff Cutoff,
) AttendanceService {
	return &AttendanceServiceImpl{
		tx:      tx,
		records: records,
		ledger:  ledger,
		events:  events,
		cutoff:  cutoff,
	}
}
