package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidJob     = errors.New("invalid job")
	ErrFeatureLocked  = errors.New("feature not available on plan")
	ErrEmitFailed     = errors.New("retry event emission failed")
	ErrInvalidPlan    = errors.New("invalid plan")
	ErrInvalidFeature = errors.New("invalid feature")
)
