package leave

import (
	"context"
	"testing"

	"github.com/presensia/attendance-backend-go/internal/config"
	"github.com/presensia/attendance-backend-go/internal/domain/leave"
	"github.com/presensia/attendance-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() config.AttendanceConfig {
	return config.AttendanceConfig{
		CutoffHour:          8,
		RatePerHalfHour:     decimal.RequireFromString("0.25"),
		LowBalanceThreshold: decimal.NewFromInt(3),
		OpeningBalanceDays:  decimal.RequireFromString("15.00"),
	}
}

func TestLatenessDeduction(t *testing.T) {
	t.Parallel()

	ledger := NewLeaveLedger(memory.NewBalanceStore(), testPolicy())

	tests := []struct {
		name        string
		lateMinutes int
		want        string
	}{
		{"not late", 0, "0"},
		{"negative is clamped", -10, "0"},
		{"one minute", 1, "0.01"},
		{"under half an hour", 29, "0.24"},
		{"exactly half an hour", 30, "0.25"},
		{"forty-five minutes", 45, "0.38"},
		{"full hour", 60, "0.5"},
		{"two hours", 120, "1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ledger.LatenessDeduction(tt.lateMinutes)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"LatenessDeduction(%d) = %s, want %s", tt.lateMinutes, got, tt.want)
		})
	}
}

func TestDebit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := memory.NewBalanceStore()
	ledger := NewLeaveLedger(balances, testPolicy())
	require.NoError(t, balances.Create(ctx, "emp-1", decimal.RequireFromString("15.00")))

	newBalance, err := ledger.Debit(ctx, "emp-1", decimal.RequireFromString("0.38"))
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(decimal.RequireFromString("14.62")))

	// All-or-nothing: a debit larger than the balance mutates nothing.
	_, err = ledger.Debit(ctx, "emp-1", decimal.RequireFromString("20.00"))
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	balance, err := ledger.Balance(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("14.62")))
}

func TestDebitExactBalanceReachesZero(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := memory.NewBalanceStore()
	ledger := NewLeaveLedger(balances, testPolicy())
	require.NoError(t, balances.Create(ctx, "emp-1", decimal.RequireFromString("3.00")))

	newBalance, err := ledger.Debit(ctx, "emp-1", decimal.RequireFromString("3.00"))
	require.NoError(t, err)
	assert.True(t, newBalance.IsZero())
}

func TestDebitNegativeAmountRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := memory.NewBalanceStore()
	ledger := NewLeaveLedger(balances, testPolicy())
	require.NoError(t, balances.Create(ctx, "emp-1", decimal.NewFromInt(5)))

	_, err := ledger.Debit(ctx, "emp-1", decimal.RequireFromString("-1"))
	assert.Error(t, err)
}

func TestDebitUnknownEmployee(t *testing.T) {
	t.Parallel()

	ledger := NewLeaveLedger(memory.NewBalanceStore(), testPolicy())
	_, err := ledger.Debit(context.Background(), "ghost", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}

func TestCheckLowBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := memory.NewBalanceStore()
	ledger := NewLeaveLedger(balances, testPolicy())

	require.NoError(t, balances.Create(ctx, "low", decimal.RequireFromString("2.90")))
	require.NoError(t, balances.Create(ctx, "boundary", decimal.RequireFromString("3.00")))
	require.NoError(t, balances.Create(ctx, "healthy", decimal.RequireFromString("10.00")))

	low, days, err := ledger.CheckLowBalance(ctx, "low")
	require.NoError(t, err)
	assert.True(t, low)
	assert.True(t, days.Equal(decimal.RequireFromString("2.90")))

	// The threshold itself is not low.
	low, _, err = ledger.CheckLowBalance(ctx, "boundary")
	require.NoError(t, err)
	assert.False(t, low)

	low, _, err = ledger.CheckLowBalance(ctx, "healthy")
	require.NoError(t, err)
	assert.False(t, low)
}
