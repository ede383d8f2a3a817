package report

import (
	"time"
)

// MonthlyReport is the aggregated working time of one employee for one
// (month, year). It is recomputed from attendance records, never patched.
type MonthlyReport struct {
	ID          string
	EmployeeID  string
	Month       int
	Year        int
	WorkMinutes int64
	GeneratedAt time.Time

	// Joined for list responses
	EmployeeName     *string
	EmployeeUsername *string
}

// TotalHours returns the total as fractional hours.
func (r MonthlyReport) TotalHours() float64 {
	return float64(r.WorkMinutes) / 60.0
}
