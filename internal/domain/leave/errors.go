package leave

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrBalanceNotFound     = errors.New("leave balance not found")
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrAlreadyDecided      = errors.New("leave request already approved or rejected")
	ErrOverlappingRequest  = errors.New("an existing leave request overlaps this range")
	ErrInvalidDateRange    = errors.New("end date must not be before start date")
)
