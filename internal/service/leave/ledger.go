package leave

import (
	"context"
	"fmt"

	"github.com/presensia/attendance-backend-go/internal/config"
	"github.com/presensia/attendance-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

var thirty = decimal.NewFromInt(30)

// LeaveLedger is the single owner of leave balance arithmetic. Every debit
// in the system goes through it.
type LeaveLedger interface {
	// Debit subtracts amount all-or-nothing and returns the new balance.
	Debit(ctx context.Context, employeeID string, amount decimal.Decimal) (decimal.Decimal, error)

	// LatenessDeduction converts minutes of lateness into leave days.
	LatenessDeduction(lateMinutes int) decimal.Decimal

	// CheckLowBalance reports whether the balance is below the warning
	// threshold.
	CheckLowBalance(ctx context.Context, employeeID string) (bool, decimal.Decimal, error)

	// Balance returns the current balance.
	Balance(ctx context.Context, employeeID string) (decimal.Decimal, error)
}

type LeaveLedgerImpl struct {
	balances leave.BalanceRepository
	policy   config.AttendanceConfig
}

// Debit implements LeaveLedger.
func (l *LeaveLedgerImpl) Debit(ctx context.Context, employeeID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("debit amount must not be negative: %s", amount)
	}
	return l.balances.DebitIfSufficient(ctx, employeeID, amount)
}

// LatenessDeduction implements LeaveLedger. The fraction of started half
// hours times the configured rate, rounded to two decimal places.
// 45 minutes at the default 0.25 rate yields 0.38 days.
func (l *LeaveLedgerImpl) LatenessDeduction(lateMinutes int) decimal.Decimal {
	if lateMinutes <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(lateMinutes)).
		Div(thirty).
		Mul(l.policy.RatePerHalfHour).
		Round(2)
}

// CheckLowBalance implements LeaveLedger.
func (l *LeaveLedgerImpl) CheckLowBalance(ctx context.Context, employeeID string) (bool, decimal.Decimal, error) {
	b, err := l.balances.Get(ctx, employeeID)
	if err != nil {
		return false, decimal.Zero, err
	}
	return b.Days.LessThan(l.policy.LowBalanceThreshold), b.Days, nil
}

// Balance implements LeaveLedger.
func (l *LeaveLedgerImpl) Balance(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	b, err := l.balances.Get(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Days, nil
}

func NewLeaveLedger(balances leave.BalanceRepository, policy config.AttendanceConfig) LeaveLedger {
	return &LeaveLedgerImpl{balances: balances, policy: policy}
}
