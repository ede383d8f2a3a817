package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/presensia/attendance-backend-go/internal/domain/report"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

// Upsert implements report.Repository.
func (r *reportRepository) Upsert(ctx context.Context, rep report.MonthlyReport) error {
	q := GetQuerier(ctx, r.db)

	if rep.ID == "" {
		rep.ID = uuid.New().String()
	}

	query := `
		INSERT INTO monthly_reports (id, employee_id, month, year, work_minutes, generated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (employee_id, month, year)
		DO UPDATE SET work_minutes = EXCLUDED.work_minutes, generated_at = now()
	`

	if _, err := q.Exec(ctx, query, rep.ID, rep.EmployeeID, rep.Month, rep.Year, rep.WorkMinutes); err != nil {
		return fmt.Errorf("failed to upsert monthly report: %w", err)
	}

	return nil
}

// List implements report.Repository.
func (r *reportRepository) List(ctx context.Context, filter report.Filter) ([]report.MonthlyReport, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Query != nil && *filter.Query != "" {
		baseWhere += fmt.Sprintf(" AND (e.username ILIKE $%d OR e.full_name ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Query+"%")
		argIdx++
	}

	if filter.Month != nil {
		baseWhere += fmt.Sprintf(" AND r.month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}

	if filter.Year != nil {
		baseWhere += fmt.Sprintf(" AND r.year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM monthly_reports r
		LEFT JOIN employees e ON e.id = r.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count monthly reports: %w", err)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	selectQuery := fmt.Sprintf(`
		SELECT r.id, r.employee_id, r.month, r.year, r.work_minutes, r.generated_at,
			e.full_name AS employee_name,
			e.username AS employee_username
		FROM monthly_reports r
		LEFT JOIN employees e ON e.id = r.employee_id
		WHERE %s
		ORDER BY r.year DESC, r.month DESC, e.username ASC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query monthly reports: %w", err)
	}
	defer rows.Close()

	var reports []report.MonthlyReport
	for rows.Next() {
		var rep report.MonthlyReport
		err := rows.Scan(
			&rep.ID, &rep.EmployeeID, &rep.Month, &rep.Year, &rep.WorkMinutes, &rep.GeneratedAt,
			&rep.EmployeeName, &rep.EmployeeUsername,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan monthly report: %w", err)
		}
		reports = append(reports, rep)
	}

	return reports, total, rows.Err()
}

func NewReportRepository(db *database.DB) report.Repository {
	return &reportRepository{db: db}
}
