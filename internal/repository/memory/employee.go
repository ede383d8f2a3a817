package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
)

// EmployeeStore implements employee.EmployeeRepository in memory.
type EmployeeStore struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	usernames map[string]string
}

func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{
		employees: make(map[string]employee.Employee),
		usernames: make(map[string]string),
	}
}

func (s *EmployeeStore) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernames[emp.Username]; taken {
		return employee.Employee{}, employee.ErrUsernameExists
	}
	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}
	now := time.Now()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	s.employees[emp.ID] = emp
	s.usernames[emp.Username] = emp.ID
	return emp, nil
}

func (s *EmployeeStore) GetByID(_ context.Context, id string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *EmployeeStore) ListByRole(_ context.Context, role employee.Role) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []employee.Employee
	for _, emp := range s.employees {
		if emp.Role == role {
			out = append(out, emp)
		}
	}
	return out, nil
}
