package correction

import "errors"

var (
	ErrCorrectionNotFound         = errors.New("correction request not found")
	ErrCorrectionAlreadyProcessed = errors.New("correction request has already been approved or rejected")
)
