package core

import (
	"errors"
	"fmt"
)

var (
	ErrNoDateColumn     = errors.New("no valid date column detected")
	ErrNoPriceColumn    = errors.New("no numeric price columns found")
	ErrInsufficientData = errors.New("fewer than 2 usable observations")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrEmptyWindow      = errors.New("analysis window contains no rows")

	// ErrInvalidPrice also matches ErrInvalidParameter
	ErrInvalidPrice = fmt.Errorf("%w: prices must be positive and finite", ErrInvalidParameter)
)
