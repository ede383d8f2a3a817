package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/presensia/attendance-backend-go/internal/domain/report"
)

// ReportStore implements report.Repository in memory.
type ReportStore struct {
	mu      sync.Mutex
	reports map[string]report.MonthlyReport // keyed (employee, month, year)

	// Names resolves employee IDs to display names for List filtering.
	Names map[string]string
}

func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]report.MonthlyReport),
		Names:   make(map[string]string),
	}
}

func periodKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s|%d|%d", employeeID, month, year)
}

func (s *ReportStore) Upsert(_ context.Context, rep report.MonthlyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := periodKey(rep.EmployeeID, rep.Month, rep.Year)
	if existing, ok := s.reports[key]; ok {
		existing.WorkMinutes = rep.WorkMinutes
		existing.GeneratedAt = time.Now()
		s.reports[key] = existing
		return nil
	}
	if rep.ID == "" {
		rep.ID = uuid.New().String()
	}
	rep.GeneratedAt = time.Now()
	s.reports[key] = rep
	return nil
}

func (s *ReportStore) List(_ context.Context, filter report.Filter) ([]report.MonthlyReport, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []report.MonthlyReport
	for _, rep := range s.reports {
		if filter.Query != nil && *filter.Query != "" {
			name := s.Names[rep.EmployeeID]
			if !strings.Contains(strings.ToLower(name), strings.ToLower(*filter.Query)) {
				continue
			}
		}
		if filter.Month != nil && rep.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && rep.Year != *filter.Year {
			continue
		}
		r := rep
		if name, ok := s.Names[rep.EmployeeID]; ok {
			r.EmployeeName = &name
		}
		matched = append(matched, r)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Year != matched[j].Year {
			return matched[i].Year > matched[j].Year
		}
		return matched[i].Month > matched[j].Month
	})

	total := int64(len(matched))
	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
