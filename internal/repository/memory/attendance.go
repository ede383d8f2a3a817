package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/presensia/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// AttendanceStore implements attendance.RecordRepository in memory.
type AttendanceStore struct {
	mu      sync.RWMutex
	records map[string]attendance.Record
	byDay   map[string]string // employeeID + "|" + date -> record ID

	// Names resolves employee IDs to display names for List joins.
	Names map[string]string
}

func NewAttendanceStore() *AttendanceStore {
	return &AttendanceStore{
		records: make(map[string]attendance.Record),
		byDay:   make(map[string]string),
		Names:   make(map[string]string),
	}
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (s *AttendanceStore) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dayKey(rec.EmployeeID, rec.Date)
	if _, exists := s.byDay[key]; exists {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	s.records[rec.ID] = rec
	s.byDay[key] = rec.ID
	return rec, nil
}

func (s *AttendanceStore) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byDay[dayKey(employeeID, date)]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return s.records[id], nil
}

func (s *AttendanceStore) ClearLateness(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	rec.IsLate = false
	rec.LateMinutes = 0
	rec.LeaveDeducted = decimal.Zero
	rec.UpdatedAt = time.Now()
	s.records[id] = rec
	return nil
}

func (s *AttendanceStore) SetCheckOut(_ context.Context, id string, checkOut time.Time, workMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	if rec.CheckOut != nil {
		return attendance.ErrAlreadyCheckedOut
	}
	rec.CheckOut = &checkOut
	rec.WorkMinutes = &workMinutes
	rec.UpdatedAt = time.Now()
	s.records[id] = rec
	return nil
}

func (s *AttendanceStore) List(_ context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []attendance.Record
	for _, rec := range s.records {
		if filter.Query != nil && *filter.Query != "" {
			name := s.Names[rec.EmployeeID]
			if !strings.Contains(strings.ToLower(name), strings.ToLower(*filter.Query)) {
				continue
			}
		}
		if filter.Date != nil && *filter.Date != "" && rec.Date.Format("2006-01-02") != *filter.Date {
			continue
		}
		if filter.StartDate != nil && *filter.StartDate != "" && rec.Date.Format("2006-01-02") < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && *filter.EndDate != "" && rec.Date.Format("2006-01-02") > *filter.EndDate {
			continue
		}
		r := rec
		if name, ok := s.Names[rec.EmployeeID]; ok {
			r.EmployeeName = &name
		}
		matched = append(matched, r)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
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

func (s *AttendanceStore) SumWorkMinutes(_ context.Context, employeeID string, month, year int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, rec := range s.records {
		if rec.EmployeeID != employeeID {
			continue
		}
		if int(rec.Date.Month()) != month || rec.Date.Year() != year {
			continue
		}
		if rec.CheckIn == nil || rec.CheckOut == nil || rec.WorkMinutes == nil {
			continue
		}
		total += int64(*rec.WorkMinutes)
	}
	return total, nil
}
