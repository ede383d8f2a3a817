package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/presensia/attendance-backend-go/internal/domain/leave"
	"github.com/presensia/attendance-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Status == "" {
		req.Status = leave.StatusPending
	}

	query := `
		INSERT INTO leave_requests (id, employee_id, start_date, end_date, days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING requested_at
	`

	err := q.QueryRow(ctx, query,
		req.ID,
		req.EmployeeID,
		req.StartDate,
		req.EndDate,
		req.Days,
		req.Reason,
		req.Status,
	).Scan(&req.RequestedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.start_date, lr.end_date, lr.days,
			lr.reason, lr.status, lr.requested_at, lr.responded_at, lr.decided_by,
			e.full_name AS employee_name
		FROM leave_requests lr
		LEFT JOIN employees e ON e.id = lr.employee_id
		WHERE lr.id = $1
	`

	var req leave.Request
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate, &req.Days,
		&req.Reason, &req.Status, &req.RequestedAt, &req.RespondedAt, &req.DecidedBy,
		&req.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return req, nil
}

// SetDecision implements leave.RequestRepository.
func (r *leaveRequestRepository) SetDecision(ctx context.Context, id string, status leave.RequestStatus, respondedAt time.Time, decidedBy string) error {
	q := GetQuerier(ctx, r.db)

	// Only a pending request can be decided; a racing second decision
	// matches no row.
	query := `
		UPDATE leave_requests
		SET status = $2, responded_at = $3, decided_by = $4
		WHERE id = $1
		  AND status = 'pending'
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, status, respondedAt, decidedBy).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrAlreadyDecided
		}
		return fmt.Errorf("failed to set leave request decision: %w", err)
	}

	return nil
}

// HasOverlapping implements leave.RequestRepository.
func (r *leaveRequestRepository) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('pending', 'approved')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}

	return exists, nil
}

// ListByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, page, limit int) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	countQuery := `SELECT COUNT(*) FROM leave_requests WHERE employee_id = $1`
	var total int64
	if err := q.QueryRow(ctx, countQuery, employeeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	if limit == 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	query := `
		SELECT id, employee_id, start_date, end_date, days,
			reason, status, requested_at, responded_at, decided_by
		FROM leave_requests
		WHERE employee_id = $1
		ORDER BY requested_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, employeeID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate, &req.Days,
			&req.Reason, &req.Status, &req.RequestedAt, &req.RespondedAt, &req.DecidedBy,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepository{db: db}
}
