package attendance

import (
	"context"
	"time"
)

// RecordRepository defines data access methods for attendance records.
type RecordRepository interface {
	// Create inserts a new record. The unique key on (employee_id, date)
	// serializes concurrent check-ins: the loser gets ErrAlreadyCheckedIn.
	Create(ctx context.Context, rec Record) (Record, error)

	// GetByEmployeeAndDate retrieves the record for one employee on one day.
	// Returns ErrRecordNotFound when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Record, error)

	// ClearLateness resets the lateness fields of a record to "not late"
	// with a zero deduction. Used when the balance debit is refused.
	ClearLateness(ctx context.Context, id string) error

	// SetCheckOut records the check-out time and derived work minutes.
	// The update is conditional on check_out being unset; a lost race
	// returns ErrAlreadyCheckedOut.
	SetCheckOut(ctx context.Context, id string, checkOut time.Time, workMinutes int) error

	// List retrieves records with filters and pagination, newest first.
	List(ctx context.Context, filter Filter) ([]Record, int64, error)

	// SumWorkMinutes sums the completed work minutes of one employee for a
	// month. Records missing either timestamp are excluded.
	SumWorkMinutes(ctx context.Context, employeeID string, month, year int) (int64, error)
}
