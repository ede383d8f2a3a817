package employee

import (
	"context"

	"github.com/presensia/attendance-backend-go/internal/config"
	"github.com/presensia/attendance-backend-go/internal/domain/employee"
	"github.com/presensia/attendance-backend-go/internal/domain/leave"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
)

type EmployeeService interface {
	// Create registers an employee and opens their leave balance in one
	// transaction; either both rows exist afterwards or neither does.
	Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)

	// Get retrieves an employee with their current balance.
	Get(ctx context.Context, id string) (employee.EmployeeResponse, error)
}

type EmployeeServiceImpl struct {
	tx        database.TxManager
	employees employee.EmployeeRepository
	balances  leave.BalanceRepository
	policy    config.AttendanceConfig
}

// Create implements EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	role := employee.Role(req.Role)
	if req.Role == "" {
		role = employee.RolePersonnel
	}

	var created employee.Employee
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.employees.Create(ctx, employee.Employee{
			Username:   req.Username,
			FullName:   req.FullName,
			Department: req.Department,
			Position:   req.Position,
			Role:       role,
		})
		if err != nil {
			return err
		}
		return s.balances.Create(ctx, created.ID, s.policy.OpeningBalanceDays)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.EmployeeResponse{
		ID:           created.ID,
		Username:     created.Username,
		FullName:     created.FullName,
		Department:   created.Department,
		Position:     created.Position,
		Role:         created.Role,
		LeaveBalance: s.policy.OpeningBalanceDays,
		CreatedAt:    created.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// Get implements EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	balance, err := s.balances.Get(ctx, emp.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.EmployeeResponse{
		ID:           emp.ID,
		Username:     emp.Username,
		FullName:     emp.FullName,
		Department:   emp.Department,
		Position:     emp.Position,
		Role:         emp.Role,
		LeaveBalance: balance.Days,
		CreatedAt:    emp.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

func NewEmployeeService(
	tx database.TxManager,
	employees employee.EmployeeRepository,
	balances leave.BalanceRepository,
	policy config.AttendanceConfig,
) EmployeeService {
	return &EmployeeServiceImpl{
		tx:        tx,
		employees: employees,
		balances:  balances,
		policy:    policy,
	}
}
