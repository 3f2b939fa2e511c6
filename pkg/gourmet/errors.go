package gourmet

import "github.com/kailas-cloud/gourmet/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrInvalidQuery        = domain.ErrInvalidQuery
	ErrInvalidRecord       = domain.ErrInvalidRecord
	ErrRateLimited         = domain.ErrRateLimited
	ErrModelAccessDenied   = domain.ErrModelAccessDenied
	ErrModelProviderError  = domain.ErrModelProviderError
	ErrTokenBudgetExceeded = domain.ErrTokenBudgetExceeded
	ErrStoreUnavailable    = domain.ErrStoreUnavailable
)
