package employee

import (
	"context"
)

// EmployeeRepository defines data access methods for the employee aggregate.
type EmployeeRepository interface {
	// Create inserts a new employee. Returns ErrUsernameExists on a duplicate username.
	Create(ctx context.Context, emp Employee) (Employee, error)

	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListByRole retrieves every employee holding the given role.
	// Used for supervisory notification fan-out and monthly aggregation.
	ListByRole(ctx context.Context, role Role) ([]Employee, error)
}
