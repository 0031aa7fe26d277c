package correction

import "context"

type CorrectionService interface {
	Submit(ctx context.Context, req SubmitCorrectionRequest) (CorrectionResponse, error)
	GetMyCorrections(ctx context.Context) ([]CorrectionResponse, error)

	List(ctx context.Context, filter CorrectionFilter) ([]CorrectionResponse, error)
	UpdateStatus(ctx context.Context, req UpdateCorrectionStatusRequest) (CorrectionResponse, error)
}
