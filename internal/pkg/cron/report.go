package cron

import (
	"context"
	"time"

	"github.com/presensia/attendance-backend-go/internal/domain/report"
	reportservice "github.com/presensia/attendance-backend-go/internal/service/report"
)

// MonthlyReportJob regenerates the previous month's reports. Running it
// repeatedly is safe; reports are upserts keyed by period.
func MonthlyReportJob(reports reportservice.ReportService) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		now := time.Now().UTC()
		// Anchor on the first of the month so late-month dates do not
		// normalize past the intended period.
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		_, err := reports.RunForPeriod(ctx, report.RunRequest{
			Month: int(prev.Month()),
			Year:  prev.Year(),
		})
		return err
	}
}
