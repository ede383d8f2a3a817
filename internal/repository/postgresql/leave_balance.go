package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/leave"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepository struct {
	db *database.DB
}

// Create implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Create(ctx context.Context, employeeID string, openingDays decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, balance_days)
		VALUES ($1, $2)
	`

	if _, err := q.Exec(ctx, query, employeeID, openingDays); err != nil {
		return fmt.Errorf("failed to create leave balance: %w", err)
	}

	return nil
}

// Get implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Get(ctx context.Context, employeeID string) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, balance_days, updated_at
		FROM leave_balances
		WHERE employee_id = $1
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, employeeID).Scan(&b.EmployeeID, &b.Days, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return b, nil
}

// DebitIfSufficient implements leave.BalanceRepository.
func (r *leaveBalanceRepository) DebitIfSufficient(ctx context.Context, employeeID string, amount decimal.Decimal) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	// The WHERE clause makes the debit all-or-nothing under concurrency:
	// of two racing debits only one matches the guard.
	query := `
		UPDATE leave_balances
		SET balance_days = balance_days - $2, updated_at = now()
		WHERE employee_id = $1
		  AND balance_days >= $2
		RETURNING balance_days
	`

	var newBalance decimal.Decimal
	err := q.QueryRow(ctx, query, employeeID, amount).Scan(&newBalance)
	if err == nil {
		return newBalance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("failed to debit leave balance: %w", err)
	}

	// No row matched: either the balance cannot cover the amount or the
	// employee has no balance row at all.
	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM leave_balances WHERE employee_id = $1)`
	if err := q.QueryRow(ctx, existsQuery, employeeID).Scan(&exists); err != nil {
		return decimal.Zero, fmt.Errorf("failed to check leave balance existence: %w", err)
	}
	if !exists {
		return decimal.Zero, leave.ErrBalanceNotFound
	}

	return decimal.Zero, leave.ErrInsufficientBalance
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepository{db: db}
}
