package dispatch

import "errors"

// Business-rule rejections. Each is a legitimate outcome surfaced to the
// dispatcher, not a system failure.
var (
	ErrInvalidStateTransition = errors.New("operation not valid in current trip state")
	ErrCapacityExceeded       = errors.New("requested tonnage exceeds vehicle capacity")
	ErrHazmatMismatch         = errors.New("commodity requires hazmat certification the vehicle lacks")
	ErrVehicleBusy            = errors.New("vehicle is no longer idle")
	ErrRFQNotPending          = errors.New("rfq is no longer pending")
	ErrInvalidWeightSequence  = errors.New("gross weight implies a negative net weight")
)
