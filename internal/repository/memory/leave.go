package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/presensia/attendance-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// BalanceStore implements leave.BalanceRepository in memory.
type BalanceStore struct {
	mu       sync.Mutex
	balances map[string]leave.Balance
}

func NewBalanceStore() *BalanceStore {
	return &BalanceStore{balances: make(map[string]leave.Balance)}
}

func (s *BalanceStore) Create(_ context.Context, employeeID string, openingDays decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[employeeID] = leave.Balance{
		EmployeeID: employeeID,
		Days:       openingDays,
		UpdatedAt:  time.Now(),
	}
	return nil
}

func (s *BalanceStore) Get(_ context.Context, employeeID string) (leave.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.balances[employeeID]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (s *BalanceStore) DebitIfSufficient(_ context.Context, employeeID string, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.balances[employeeID]
	if !ok {
		return decimal.Zero, leave.ErrBalanceNotFound
	}
	if b.Days.LessThan(amount) {
		return decimal.Zero, leave.ErrInsufficientBalance
	}
	b.Days = b.Days.Sub(amount)
	b.UpdatedAt = time.Now()
	s.balances[employeeID] = b
	return b.Days, nil
}

// RequestStore implements leave.RequestRepository in memory.
type RequestStore struct {
	mu       sync.Mutex
	requests map[string]leave.Request
}

func NewRequestStore() *RequestStore {
	return &RequestStore{requests: make(map[string]leave.Request)}
}

func (s *RequestStore) Create(_ context.Context, req leave.Request) (leave.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Status == "" {
		req.Status = leave.StatusPending
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now()
	}
	s.requests[req.ID] = req
	return req, nil
}

func (s *RequestStore) GetByID(_ context.Context, id string) (leave.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return req, nil
}

func (s *RequestStore) SetDecision(_ context.Context, id string, status leave.RequestStatus, respondedAt time.Time, decidedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return leave.ErrRequestNotFound
	}
	if req.Status != leave.StatusPending {
		return leave.ErrAlreadyDecided
	}
	req.Status = status
	req.RespondedAt = &respondedAt
	req.DecidedBy = &decidedBy
	s.requests[id] = req
	return nil
}

func (s *RequestStore) HasOverlapping(_ context.Context, employeeID string, start, end time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, req := range s.requests {
		if req.EmployeeID != employeeID {
			continue
		}
		if req.Status != leave.StatusPending && req.Status != leave.StatusApproved {
			continue
		}
		if !req.StartDate.After(end) && !req.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (s *RequestStore) ListByEmployee(_ context.Context, employeeID string, page, limit int) ([]leave.Request, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []leave.Request
	for _, req := range s.requests {
		if req.EmployeeID == employeeID {
			matched = append(matched, req)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RequestedAt.After(matched[j].RequestedAt)
	})

	total := int64(len(matched))
	if limit == 0 {
		limit = 20
	}
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
