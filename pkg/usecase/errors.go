package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidInput indicates the caller's request failed validation.
	ErrInvalidInput = goerr.New("invalid input")

	// ErrIndexUnavailable indicates the program index could not serve
	// the query and no fallback path succeeded either.
	ErrIndexUnavailable = goerr.New("program index unavailable")
)
