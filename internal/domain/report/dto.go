package report

import (
	"time"

	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
)

type RunRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *RunRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year < 2000 || r.Year > time.Now().Year()+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Filter narrows monthly report list queries.
type Filter struct {
	// Query matches employee username or full name, substring, case-insensitive.
	Query *string
	Month *int
	Year  *int
	Page  int
	Limit int
}

type ReportResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	TotalHours   float64 `json:"total_hours"`
	GeneratedAt  string  `json:"generated_at"`
}

type ListResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Reports    []ReportResponse `json:"reports"`
}

type RunSummary struct {
	Month     int `json:"month"`
	Year      int `json:"year"`
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
}
