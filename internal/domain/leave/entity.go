package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is an employee's remaining allotted leave days. It is never
// negative after a committed debit; only the ledger mutates it.
type Balance struct {
	EmployeeID string
	Days       decimal.Decimal
	UpdatedAt  time.Time
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Terminal reports whether a status can no longer change.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Request is a leave request. Dates are inclusive; Days is the span
// length (end - start + 1).
type Request struct {
	ID          string
	EmployeeID  string
	StartDate   time.Time
	EndDate     time.Time
	Days        decimal.Decimal
	Reason      string
	Status      RequestStatus
	RequestedAt time.Time
	RespondedAt *time.Time
	DecidedBy   *string

	// Joined for list responses
	EmployeeName *string
}
