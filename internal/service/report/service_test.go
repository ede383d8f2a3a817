package report

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/domain/report"
	"github.com/presensia/attendance-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	service   ReportService
	reports   *memory.ReportStore
	records   *memory.AttendanceStore
	employees *memory.EmployeeStore
}

func newReportFixture(t *testing.T) reportFixture {
	t.Helper()
	reports := memory.NewReportStore()
	records := memory.NewAttendanceStore()
	employees := memory.NewEmployeeStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewReportService(reports, records, employees, logger)
	return reportFixture{service: svc, reports: reports, records: records, employees: employees}
}

func (f reportFixture) addEmployee(t *testing.T, id string, role employee.Role) {
	t.Helper()
	_, err := f.employees.Create(context.Background(), employee.Employee{
		ID:       id,
		Username: id,
		FullName: id,
		Role:     role,
	})
	require.NoError(t, err)
}

func (f reportFixture) addRecord(t *testing.T, employeeID string, day int, workMinutes *int, complete bool) {
	t.Helper()
	date := time.Date(2023, 10, day, 0, 0, 0, 0, time.UTC)
	checkIn := date.Add(8 * time.Hour)
	rec := attendance.Record{
		EmployeeID:    employeeID,
		Date:          date,
		CheckIn:       &checkIn,
		LeaveDeducted: decimal.Zero,
	}
	if complete {
		checkOut := checkIn.Add(time.Duration(*workMinutes) * time.Minute)
		rec.CheckOut = &checkOut
		rec.WorkMinutes = workMinutes
	}
	_, err := f.records.Create(context.Background(), rec)
	require.NoError(t, err)
}

func intPtr(v int) *int { return &v }

func TestRunForPeriodSumsCompletedRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newReportFixture(t)

	f.addEmployee(t, "emp-1", employee.RolePersonnel)
	f.addRecord(t, "emp-1", 2, intPtr(480), true)
	f.addRecord(t, "emp-1", 3, intPtr(510), true)
	// An open record contributes nothing.
	f.addRecord(t, "emp-1", 4, nil, false)

	summary, err := f.service.RunForPeriod(ctx, report.RunRequest{Month: 10, Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, 0, summary.Skipped)

	month, year := 10, 2023
	listed, total, err := f.reports.List(ctx, report.Filter{Month: &month, Year: &year})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(990), listed[0].WorkMinutes)
	assert.InDelta(t, 16.5, listed[0].TotalHours(), 0.001)
}

func TestRunForPeriodIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newReportFixture(t)

	f.addEmployee(t, "emp-1", employee.RolePersonnel)
	f.addRecord(t, "emp-1", 2, intPtr(480), true)

	req := report.RunRequest{Month: 10, Year: 2023}
	_, err := f.service.RunForPeriod(ctx, req)
	require.NoError(t, err)
	_, err = f.service.RunForPeriod(ctx, req)
	require.NoError(t, err)

	month, year := 10, 2023
	listed, total, err := f.reports.List(ctx, report.Filter{Month: &month, Year: &year})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "rerun must overwrite, not duplicate")
	assert.Equal(t, int64(480), listed[0].WorkMinutes)
}

func TestRunForPeriodCoversOnlyPersonnel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newReportFixture(t)

	f.addEmployee(t, "emp-1", employee.RolePersonnel)
	f.addEmployee(t, "boss-1", employee.RoleAuthorized)
	f.addRecord(t, "emp-1", 2, intPtr(480), true)
	f.addRecord(t, "boss-1", 2, intPtr(480), true)

	summary, err := f.service.RunForPeriod(ctx, report.RunRequest{Month: 10, Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Generated)
}

func TestRunForPeriodIgnoresOtherMonths(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newReportFixture(t)

	f.addEmployee(t, "emp-1", employee.RolePersonnel)
	f.addRecord(t, "emp-1", 2, intPtr(480), true)

	summary, err := f.service.RunForPeriod(ctx, report.RunRequest{Month: 9, Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Generated)

	month, year := 9, 2023
	listed, _, err := f.reports.List(ctx, report.Filter{Month: &month, Year: &year})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(0), listed[0].WorkMinutes)
}

func TestListReportsFiltersByName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newReportFixture(t)

	f.addEmployee(t, "emp-1", employee.RolePersonnel)
	f.addEmployee(t, "emp-2", employee.RolePersonnel)
	f.reports.Names["emp-1"] = "Ayu Lestari"
	f.reports.Names["emp-2"] = "Budi Santoso"
	f.addRecord(t, "emp-1", 2, intPtr(480), true)
	f.addRecord(t, "emp-2", 2, intPtr(510), true)

	_, err := f.service.RunForPeriod(ctx, report.RunRequest{Month: 10, Year: 2023})
	require.NoError(t, err)

	query := "ayu"
	result, err := f.service.ListReports(ctx, report.Filter{Query: &query})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	require.Len(t, result.Reports, 1)
	assert.Equal(t, "Ayu Lestari", result.Reports[0].EmployeeName)
	assert.Equal(t, "emp-1", result.Reports[0].EmployeeID)

	query = "no-such-employee"
	result, err = f.service.ListReports(ctx, report.Filter{Query: &query})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.TotalCount)
	assert.Empty(t, result.Reports)
}

func TestRunForPeriodValidation(t *testing.T) {
	t.Parallel()
	f := newReportFixture(t)

	_, err := f.service.RunForPeriod(context.Background(), report.RunRequest{Month: 13, Year: 2023})
	assert.Error(t, err)
}
