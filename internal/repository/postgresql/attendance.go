package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

const recordColumns = `
	a.id, a.employee_id, a.date, a.check_in, a.check_out,
	a.is_late, a.late_minutes, a.leave_deducted, a.work_minutes,
	a.created_at, a.updated_at
`

// Create implements attendance.RecordRepository.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	// The unique key on (employee_id, date) serializes concurrent
	// check-ins; the conflicting insert sees no returned row.
	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, check_in, is_late, late_minutes, leave_deducted
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.Date,
		rec.CheckIn,
		rec.IsLate,
		rec.LateMinutes,
		rec.LeaveDeducted,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDate implements attendance.RecordRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records a
		WHERE a.employee_id = $1
		  AND a.date = $2
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut,
		&rec.IsLate, &rec.LateMinutes, &rec.LeaveDeducted, &rec.WorkMinutes,
		&rec.CreatedAt, &rec.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// ClearLateness implements attendance.RecordRepository.
func (r *attendanceRepository) ClearLateness(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET is_late = FALSE, late_minutes = 0, leave_deducted = 0, updated_at = now()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear lateness: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// SetCheckOut implements attendance.RecordRepository.
func (r *attendanceRepository) SetCheckOut(ctx context.Context, id string, checkOut time.Time, workMinutes int) error {
	q := GetQuerier(ctx, r.db)

	// Conditional on check_out being unset so a racing second check-out
	// loses instead of overwriting.
	query := `
		UPDATE attendance_records
		SET check_out = $2, work_minutes = $3, updated_at = now()
		WHERE id = $1
		  AND check_out IS NULL
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, checkOut, workMinutes).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAlreadyCheckedOut
		}
		return fmt.Errorf("failed to set check-out: %w", err)
	}

	return nil
}

// List implements attendance.RecordRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Query != nil && *filter.Query != "" {
		baseWhere += fmt.Sprintf(" AND (e.username ILIKE $%d OR e.full_name ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Query+"%")
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+recordColumns+`,
			e.full_name AS employee_name,
			e.username AS employee_username
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, e.username ASC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut,
			&rec.IsLate, &rec.LateMinutes, &rec.LeaveDeducted, &rec.WorkMinutes,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName, &rec.EmployeeUsername,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

// SumWorkMinutes implements attendance.RecordRepository.
func (r *attendanceRepository) SumWorkMinutes(ctx context.Context, employeeID string, month, year int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(work_minutes), 0)
		FROM attendance_records
		WHERE employee_id = $1
		  AND date >= make_date($2, $3, 1)
		  AND date < make_date($2, $3, 1) + INTERVAL '1 month'
		  AND check_in IS NOT NULL
		  AND check_out IS NOT NULL
	`

	var total int64
	if err := q.QueryRow(ctx, query, employeeID, year, month).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum work minutes: %w", err)
	}

	return total, nil
}

func NewAttendanceRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRepository{db: db}
}
