package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the daily attendance record for one employee.
// At most one record exists per (employee, date); the first check-in is
// immutable once set.
type Record struct {
	ID            string
	EmployeeID    string
	Date          time.Time // calendar day, midnight UTC
	CheckIn       *time.Time
	CheckOut      *time.Time
	IsLate        bool
	LateMinutes   int
	LeaveDeducted decimal.Decimal
	WorkMinutes   *int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined for list responses
	EmployeeName     *string
	EmployeeUsername *string
}
