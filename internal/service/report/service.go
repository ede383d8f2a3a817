package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/domain/report"
)

type ReportService interface {
	// RunForPeriod recomputes the monthly report of every personnel
	// employee for (month, year). Reruns overwrite; a failing employee is
	// logged and skipped without aborting the batch.
	RunForPeriod(ctx context.Context, req report.RunRequest) (report.RunSummary, error)

	// ListReports retrieves generated reports with filters and pagination.
	ListReports(ctx context.Context, filter report.Filter) (report.ListResponse, error)
}

type ReportServiceImpl struct {
	reports   report.Repository
	records   attendance.RecordRepository
	employees employee.EmployeeRepository
	logger    *slog.Logger
}

// RunForPeriod implements ReportService.
func (s *ReportServiceImpl) RunForPeriod(ctx context.Context, req report.RunRequest) (report.RunSummary, error) {
	if err := req.Validate(); err != nil {
		return report.RunSummary{}, err
	}

	personnel, err := s.employees.ListByRole(ctx, employee.RolePersonnel)
	if err != nil {
		return report.RunSummary{}, fmt.Errorf("failed to list personnel: %w", err)
	}

	summary := report.RunSummary{Month: req.Month, Year: req.Year}
	for _, emp := range personnel {
		total, err := s.records.SumWorkMinutes(ctx, emp.ID, req.Month, req.Year)
		if err != nil {
			s.logger.Error("skipping employee in monthly aggregation",
				"employee_id", emp.ID,
				"month", req.Month,
				"year", req.Year,
				"error", err,
			)
			summary.Skipped++
			continue
		}

		err = s.reports.Upsert(ctx, report.MonthlyReport{
			EmployeeID:  emp.ID,
			Month:       req.Month,
			Year:        req.Year,
			WorkMinutes: total,
		})
		if err != nil {
			s.logger.Error("skipping employee in monthly aggregation",
				"employee_id", emp.ID,
				"month", req.Month,
				"year", req.Year,
				"error", err,
			)
			summary.Skipped++
			continue
		}
		summary.Generated++
	}

	s.logger.Info("monthly aggregation finished",
		"month", req.Month,
		"year", req.Year,
		"generated", summary.Generated,
		"skipped", summary.Skipped,
	)

	return summary, nil
}

// ListReports implements ReportService.
func (s *ReportServiceImpl) ListReports(ctx context.Context, filter report.Filter) (report.ListResponse, error) {
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	reports, total, err := s.reports.List(ctx, filter)
	if err != nil {
		return report.ListResponse{}, fmt.Errorf("failed to list monthly reports: %w", err)
	}

	responses := make([]report.ReportResponse, 0, len(reports))
	for _, rep := range reports {
		resp := report.ReportResponse{
			ID:          rep.ID,
			EmployeeID:  rep.EmployeeID,
			Month:       rep.Month,
			Year:        rep.Year,
			TotalHours:  rep.TotalHours(),
			GeneratedAt: rep.GeneratedAt.Format("2006-01-02 15:04:05"),
		}
		if rep.EmployeeName != nil {
			resp.EmployeeName = *rep.EmployeeName
		}
		responses = append(responses, resp)
	}

	return report.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Reports:    responses,
	}, nil
}

func NewReportService(
	reports report.Repository,
	records attendance.RecordRepository,
	employees employee.EmployeeRepository,
	logger *slog.Logger,
) ReportService {
	return &ReportServiceImpl{
		reports:   reports,
		records:   records,
		employees: employees,
		logger:    logger,
	}
}
