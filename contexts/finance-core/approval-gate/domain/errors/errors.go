package errors

import "errors"

var (
	ErrInvalidApprovalInput = errors.New("invalid approval input")
	ErrStaffNotFound        = errors.New("staff profile not found")
	ErrApprovalNotPermitted = errors.New("actor is not permitted to approve at this tier")
)
