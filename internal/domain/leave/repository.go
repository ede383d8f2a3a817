package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceRepository owns the leave balance row. Debit must be an atomic
// compare-and-debit so concurrent debits can never drive the balance
// negative; the loser of a race observes ErrInsufficientBalance.
type BalanceRepository interface {
	// Create inserts the opening balance for a new employee.
	Create(ctx context.Context, employeeID string, openingDays decimal.Decimal) error

	// Get returns the current balance. Returns ErrBalanceNotFound when the
	// employee has no balance row.
	Get(ctx context.Context, employeeID string) (Balance, error)

	// DebitIfSufficient subtracts amount when the balance covers it and
	// returns the new balance; otherwise ErrInsufficientBalance and no
	// mutation.
	DebitIfSufficient(ctx context.Context, employeeID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// RequestRepository defines data access methods for leave requests.
type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)

	// GetByID returns ErrRequestNotFound when no request exists.
	GetByID(ctx context.Context, id string) (Request, error)

	// SetDecision writes the terminal status, responded-at timestamp and
	// decider of a request.
	SetDecision(ctx context.Context, id string, status RequestStatus, respondedAt time.Time, decidedBy string) error

	// HasOverlapping reports whether the employee already has a pending or
	// approved request intersecting [start, end].
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	// ListByEmployee retrieves an employee's requests, newest first.
	ListByEmployee(ctx context.Context, employeeID string, page, limit int) ([]Request, int64, error)
}
