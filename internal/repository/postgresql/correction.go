package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/correction"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/database"
)

type correctionRepository struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepository{db: db}
}

const correctionColumns = `
	c.id, c.employee_id, c.date, c.requested_check_in, c.requested_check_out,
	c.reason, c.status, c.reviewed_by, c.reviewed_at, c.created_at, c.updated_at`

func scanCorrection(row pgx.Row) (correction.CorrectionRequest, error) {
	var req correction.CorrectionRequest
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.Date, &req.RequestedCheckIn, &req.RequestedCheckOut,
		&req.Reason, &req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

// Create implements correction.CorrectionRepository.
func (c *correctionRepository) Create(ctx context.Context, request correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO correction_requests (
			id, employee_id, date, requested_check_in, requested_check_out, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.EmployeeID,
		request.Date,
		request.RequestedCheckIn,
		request.RequestedCheckOut,
		request.Reason,
		request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	return request, nil
}

// GetByID implements correction.CorrectionRepository.
func (c *correctionRepository) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, c.db)

	query := `SELECT ` + correctionColumns + ` FROM correction_requests c WHERE c.id = $1`

	req, err := scanCorrection(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
		}
		return correction.CorrectionRequest{}, fmt.Errorf("failed to get correction request by ID: %w", err)
	}

	return req, nil
}

// ListByEmployee implements correction.CorrectionRepository.
func (c *correctionRepository) ListByEmployee(ctx context.Context, employeeID string) ([]correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM correction_requests c
		WHERE c.employee_id = $1
		ORDER BY c.created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list correction requests: %w", err)
	}
	defer rows.Close()

	var requests []correction.CorrectionRequest
	for rows.Next() {
		req, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// List implements correction.CorrectionRepository.
func (c *correctionRepository) List(ctx context.Context, filter correction.CorrectionFilter) ([]correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT ` + correctionColumns + `, e.full_name AS employee_name
		FROM correction_requests c
		LEFT JOIN employees e ON e.id = c.employee_id
	`
	var args []interface{}

	if filter.Status != nil && *filter.Status != "" {
		query += " WHERE c.status = $1"
		args = append(args, *filter.Status)
	}
	query += " ORDER BY c.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list correction requests: %w", err)
	}
	defer rows.Close()

	var requests []correction.CorrectionRequest
	for rows.Next() {
		var req correction.CorrectionRequest
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.Date, &req.RequestedCheckIn, &req.RequestedCheckOut,
			&req.Reason, &req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt, &req.UpdatedAt,
			&req.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// UpdateStatusIfPending implements correction.CorrectionRepository.
func (c *correctionRepository) UpdateStatusIfPending(ctx context.Context, id string, status correction.CorrectionStatus, reviewedBy string, reviewedAt time.Time) error {
	q := GetQuerier(ctx, c.db)

	query := `
		UPDATE correction_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = 'PENDING'
	`

	tag, err := q.Exec(ctx, query, status, reviewedBy, reviewedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update correction request status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return correction.ErrCorrectionAlreadyProcessed
	}

	return nil
}
