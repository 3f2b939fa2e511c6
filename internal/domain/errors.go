package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound signals a missing restaurant.
	ErrNotFound = errors.New("restaurant not found")
	// ErrInvalidRecord signals a restaurant that failed validation.
	ErrInvalidRecord = errors.New("invalid restaurant")

	// ErrRateLimited signals a throttling response from the model backend.
	ErrRateLimited = errors.New("rate limited")
	// ErrModelAccessDenied signals that the caller may not use the requested model.
	ErrModelAccessDenied = errors.New("model access denied")
	// ErrModelProviderError signals any other model backend failure.
	ErrModelProviderError = errors.New("model provider error")
	// ErrTokenBudgetExceeded signals that the daily or monthly token budget is spent.
	ErrTokenBudgetExceeded = errors.New("token budget exceeded")
	// ErrMalformedOutput signals a model answer that does not match the expected shape.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrStoreUnavailable signals that the restaurant store could not be read.
	ErrStoreUnavailable = errors.New("restaurant store unavailable")
)
