package correction

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	"github.com/workdeskhq/attendance-backend-go/internal/domain/correction"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/clock"
	"github.com/workdeskhq/attendance-backend-go/internal/pkg/database"
	"github.com/workdeskhq/attendance-backend-go/internal/repository/postgresql"
)

type CorrectionServiceImpl struct {
	db *database.DB
	correction.CorrectionRepository
	attendanceRepository attendance.AttendanceRepository
	clock                clock.Clock
	policy               attendance.ShiftPolicy
}

func NewCorrectionService(
	db *database.DB,
	correctionRepository correction.CorrectionRepository,
	attendanceRepository attendance.AttendanceRepository,
	clk clock.Clock,
	policy attendance.ShiftPolicy,
) correction.CorrectionService {
	return &CorrectionServiceImpl{
		db:                   db,
		CorrectionRepository: correctionRepository,
		attendanceRepository: attendanceRepository,
		clock:                clk,
		policy:               policy,
	}
}

func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return employeeID, nil
}

// Submit implements correction.CorrectionService.
func (c *CorrectionServiceImpl) Submit(ctx context.Context, req correction.SubmitCorrectionRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, c.policy.Location)
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	var requestedCheckIn, requestedCheckOut *time.Time
	if req.RequestedCheckIn != nil {
		t, _ := time.Parse(time.RFC3339, *req.RequestedCheckIn)
		utc := t.UTC()
		requestedCheckIn = &utc
	}
	if req.RequestedCheckOut != nil {
		t, _ := time.Parse(time.RFC3339, *req.RequestedCheckOut)
		utc := t.UTC()
		requestedCheckOut = &utc
	}

	request := correction.CorrectionRequest{
		ID:                uuid.New().String(),
		EmployeeID:        employeeID,
		Date:              date,
		RequestedCheckIn:  requestedCheckIn,
		RequestedCheckOut: requestedCheckOut,
		Reason:            req.Reason,
		Status:            correction.CorrectionStatusPending,
	}

	created, err := c.CorrectionRepository.Create(ctx, request)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	return correction.MapToResponse(created), nil
}

// GetMyCorrections implements correction.CorrectionService.
func (c *CorrectionServiceImpl) GetMyCorrections(ctx context.Context) ([]correction.CorrectionResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := c.CorrectionRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]correction.CorrectionResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, correction.MapToResponse(request))
	}

	return responses, nil
}

// List implements correction.CorrectionService.
func (c *CorrectionServiceImpl) List(ctx context.Context, filter correction.CorrectionFilter) ([]correction.CorrectionResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := c.CorrectionRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]correction.CorrectionResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, correction.MapToResponse(request))
	}

	return responses, nil
}

// UpdateStatus implements correction.CorrectionService. Approval rewrites the
// target attendance record's times inside the same transaction as the status
// flip, so a request can never end up APPROVED without its edit applied.
func (c *CorrectionServiceImpl) UpdateStatus(ctx context.Context, req correction.UpdateCorrectionStatusRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	reviewerID, err := employeeIDFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	now := c.clock.Now()
	status := correction.CorrectionStatus(req.Status)

	request, err := c.CorrectionRepository.GetByID(ctx, req.ID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	if request.Status != correction.CorrectionStatusPending {
		return correction.CorrectionResponse{}, correction.ErrCorrectionAlreadyProcessed
	}

	err = postgresql.WithTransaction(ctx, c.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := c.CorrectionRepository.UpdateStatusIfPending(txCtx, req.ID, status, reviewerID, now); err != nil {
			return err
		}

		if status != correction.CorrectionStatusApproved {
			return nil
		}

		return c.applyCorrection(txCtx, request)
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	request.Status = status
	request.ReviewedBy = &reviewerID
	request.ReviewedAt = &now

	return correction.MapToResponse(request), nil
}

// applyCorrection rewrites the attendance record named by the request. Working
// hours are recomputed from the corrected times when the record is closed.
func (c *CorrectionServiceImpl) applyCorrection(ctx context.Context, request correction.CorrectionRequest) error {
	record, err := c.attendanceRepository.GetByEmployeeAndDate(ctx, request.EmployeeID, request.Date)
	if err != nil {
		return fmt.Errorf("failed to get attendance for correction: %w", err)
	}
	if record == nil {
		return attendance.ErrAttendanceNotFound
	}

	checkIn := record.CheckIn
	if request.RequestedCheckIn != nil {
		checkIn = *request.RequestedCheckIn
	}

	checkOut := record.CheckOut
	if request.RequestedCheckOut != nil {
		checkOut = request.RequestedCheckOut
	}

	var workingHours *float64
	if checkOut != nil {
		hours := checkOut.Sub(checkIn).Hours() - record.TotalBreakHours(*checkOut)
		if hours < 0 {
			hours = 0
		}
		workingHours = &hours
	}

	return c.attendanceRepository.UpdateTimes(ctx, record.ID, checkIn, checkOut, workingHours)
}
