package attendance

import (
	"time"

	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID string     `json:"-"`
	At         *time.Time `json:"at,omitempty"` // optional explicit time, defaults to now
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID string     `json:"-"`
	At         *time.Time `json:"at,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	Date          string  `json:"date"`
	CheckInTime   *string `json:"check_in_time"`
	CheckOutTime  *string `json:"check_out_time"`
	IsLate        bool    `json:"is_late"`
	LateMinutes   int     `json:"late_minutes"`
	LeaveDeducted string  `json:"leave_deducted"`
	WorkingHours  *float64 `json:"working_hours,omitempty"`

	// Warning carries non-fatal outcomes, e.g. a lateness penalty that was
	// skipped because the leave balance could not cover it.
	Warning string `json:"warning,omitempty"`
}

// Filter narrows attendance list queries.
type Filter struct {
	// Query matches employee username or full name, substring, case-insensitive.
	Query     *string
	Date      *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}

type ListResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}
