package correction

import (
	"context"
	"time"
)

type CorrectionRepository interface {
	Create(ctx context.Context, request CorrectionRequest) (CorrectionRequest, error)

	GetByID(ctx context.Context, id string) (CorrectionRequest, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]CorrectionRequest, error)

	List(ctx context.Context, filter CorrectionFilter) ([]CorrectionRequest, error)

	// UpdateStatusIfPending reviews a request only while it is still PENDING
	// (compare-and-set). Returns ErrCorrectionAlreadyProcessed when another
	// reviewer got there first.
	UpdateStatusIfPending(ctx context.Context, id string, status CorrectionStatus, reviewedBy string, reviewedAt time.Time) error
}
